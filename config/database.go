package config

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// databaseURL prefers DATABASE_URL, then the <ENV>_DB_* profile.
func databaseURL(env string) (string, error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}

	prefix := strings.ToUpper(env)
	switch prefix {
	case "DEV", "QC", "PROD":
	default:
		return "", fmt.Errorf("unknown environment: %s", env)
	}

	host := os.Getenv(prefix + "_DB_HOST")
	if host == "" {
		return "", fmt.Errorf("neither DATABASE_URL nor %s_DB_HOST is set", prefix)
	}
	sslmode := "require"
	if prefix == "DEV" {
		sslmode = getEnvDefault("DEV_DB_SSLMODE", "disable")
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		host,
		os.Getenv(prefix+"_DB_USER"),
		os.Getenv(prefix+"_DB_PASSWORD"),
		os.Getenv(prefix+"_DB_NAME"),
		getEnvDefault(prefix+"_DB_PORT", "5432"),
		sslmode,
	), nil
}

// GormConfig is shared by the Postgres connection and the test store so
// duplicate keys surface as gorm.ErrDuplicatedKey everywhere.
func GormConfig(debug bool) *gorm.Config {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	}
}

func ConnectDB(dsn string, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), GormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("fail to connect to db: %w", err)
	}
	return db, nil
}
