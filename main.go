package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusnest/config"
	"campusnest/jobs"
	"campusnest/models"
	"campusnest/routes"
	"campusnest/services"
	"campusnest/services/logger"
	"campusnest/services/notification"
	"campusnest/validator"
)

// @title                       CampusNest API
// @version                     1.0
// @description                 Campus housing reviews, bookmarks and roommate matching.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, closer := newLogger(cfg)
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comps, err := config.InitComponents(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer comps.Close()

	if err := models.AutoMigrate(comps.DB); err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}
	if err := validator.RegisterBindings(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	router, m, c := config.InitApp(cfg)

	svc := services.NewContainer(services.ContainerOptions{
		Config:     cfg,
		DB:         comps.DB,
		Redis:      comps.Redis,
		Cloudinary: comps.Cloudinary,
		Elastic:    comps.Elastic,
		Notifier:   notification.NewMelodyService(m),
		Logger:     appLogger,
	})

	scheduled := jobs.Jobs{Codes: svc.Users, Digest: svc.Reports, Logger: appLogger}
	if comps.Elastic != nil {
		scheduled.Index = svc.Housings
		go scheduled.RebuildIndex()
	}
	if err := jobs.InitCronJobs(c, scheduled); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	routes.SetupRoutes(router, svc, m)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server starting on %s...", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	<-c.Stop().Done()
	if err := m.Close(); err != nil {
		appLogger.Error("close websocket hub: %v", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown: %v", err)
	}
}

func newLogger(cfg *config.Config) (logger.Logger, io.Closer) {
	level := logger.ParseLevel(cfg.LogLevel)
	if cfg.LogDir == "" {
		return logger.NewDefaultLogger(level), io.NopCloser(nil)
	}
	l, closer, err := logger.NewFileLogger(level, cfg.LogDir)
	if err != nil {
		log.Printf("Warning: file logging disabled: %v", err)
		return logger.NewDefaultLogger(level), io.NopCloser(nil)
	}
	return l, closer
}
