package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"campusnest/services/matching"

	"github.com/joho/godotenv"
)

// Config is everything the process reads from the environment.
type Config struct {
	Addr string
	Env  string

	DatabaseURL string

	RedisAddr     string
	RedisUser     string
	RedisPassword string

	CloudinaryURL    string
	CloudinaryFolder string

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string
	ElasticIndex    string

	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	GoogleClientID string
	MapboxToken    string

	CORSOrigins []string
	LogLevel    string
	LogDir      string

	RoommateWeights matching.Weights
	CodeTTL         time.Duration
	SummaryTTL      time.Duration
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: no .env file loaded: %v", err)
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

func getEnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// Load reads the process environment. Call LoadEnv first to pick up .env.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:             ":" + getEnvDefault("PORT", "8080"),
		Env:              getEnvDefault("ENV", "dev"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisUser:        os.Getenv("REDIS_USER"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		CloudinaryFolder: getEnvDefault("CLOUDINARY_FOLDER", "campusnest/reviews"),
		ElasticURL:       os.Getenv("ELASTIC_URL"),
		ElasticUser:      os.Getenv("ELASTIC_USERNAME"),
		ElasticPassword:  os.Getenv("ELASTIC_PASSWORD"),
		ElasticIndex:     getEnvDefault("ELASTIC_INDEX", "housings"),
		AccessSecret:     os.Getenv("JWT_SECRET"),
		RefreshSecret:    os.Getenv("JWT_REFRESH_SECRET"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getEnvDefault("SMTP_PORT", "587"),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		MailFrom:         getEnvDefault("MAIL_FROM", os.Getenv("SMTP_USER")),
		GoogleClientID:   os.Getenv("GOOGLE_CLIENT_ID"),
		MapboxToken:      os.Getenv("MAPBOX_TOKEN"),
		LogLevel:         getEnvDefault("LOG_LEVEL", "info"),
		LogDir:           os.Getenv("LOG_DIR"),
	}

	if cfg.AccessSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = cfg.AccessSecret + ".refresh"
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	dsn, err := databaseURL(cfg.Env)
	if err != nil {
		return nil, err
	}
	cfg.DatabaseURL = dsn

	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"JWT_ACCESS_TTL", 15 * time.Minute, &cfg.AccessTTL},
		{"JWT_REFRESH_TTL", 7 * 24 * time.Hour, &cfg.RefreshTTL},
		{"VERIFY_CODE_TTL", 24 * time.Hour, &cfg.CodeTTL},
		{"SUMMARY_CACHE_TTL", 10 * time.Minute, &cfg.SummaryTTL},
	}
	for _, d := range durations {
		if *d.dst, err = getDuration(d.key, d.def); err != nil {
			return nil, err
		}
	}

	if cfg.RoommateWeights.Bookmarks, err = getFloat("ROOMMATE_WEIGHT_BOOKMARKS", matching.DefaultWeights.Bookmarks); err != nil {
		return nil, err
	}
	if cfg.RoommateWeights.Prefs, err = getFloat("ROOMMATE_WEIGHT_PREFS", matching.DefaultWeights.Prefs); err != nil {
		return nil, err
	}
	if err := cfg.RoommateWeights.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
