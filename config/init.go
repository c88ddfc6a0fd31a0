package config

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Components are the external resources the process holds open.
type Components struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Cloudinary *cloudinary.Cloudinary
	Elastic    *elasticsearch.Client
}

func (c *Components) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// InitApp builds the router with CORS applied, the websocket hub and the
// cron scheduler.
func InitApp(cfg *Config) (*gin.Engine, *melody.Melody, *cron.Cron) {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization", "X-Request-ID")
	configCors.AddExposeHeaders("X-Request-ID")
	configCors.AllowCredentials = true
	if len(cfg.CORSOrigins) > 0 {
		configCors.AllowOrigins = cfg.CORSOrigins
	} else {
		configCors.AllowOriginFunc = func(origin string) bool {
			return true
		}
	}
	router.Use(cors.New(configCors))

	router.SetTrustedProxies(nil)

	m := melody.New()
	c := cron.New()

	return router, m, c
}

// InitComponents connects the database, Redis, Cloudinary and
// Elasticsearch. Everything but the database is optional.
func InitComponents(ctx context.Context, cfg *Config) (*Components, error) {
	db, err := ConnectDB(cfg.DatabaseURL, cfg.Env == "dev")
	if err != nil {
		return nil, err
	}
	comps := &Components{DB: db}

	comps.Cloudinary, err = ConnectCloudinary(cfg)
	if err != nil {
		comps.Close()
		return nil, err
	}

	comps.Elastic, err = ConnectElastic(cfg)
	if err != nil {
		comps.Close()
		return nil, err
	}

	comps.Redis, err = ConnectRedis(ctx, cfg)
	if err != nil {
		comps.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("All components initialized successfully")
	return comps, nil
}
