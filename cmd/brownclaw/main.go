package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	httpapi "github.com/JeyzDFoo/brownclaw/internal/api/http"
	"github.com/JeyzDFoo/brownclaw/internal/config"
	"github.com/JeyzDFoo/brownclaw/internal/hydro"
	"github.com/JeyzDFoo/brownclaw/internal/hydro/providers"
	"github.com/JeyzDFoo/brownclaw/internal/observability"
	"github.com/JeyzDFoo/brownclaw/internal/scheduler"
	"github.com/JeyzDFoo/brownclaw/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg)

	// Shared HTTP client for outbound GeoMet calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	metrics := observability.NewMetrics()

	// In-memory snapshot store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Upstream clients with resilience (backoff + circuit breaker).
	historical := providers.NewDailyMeanProvider(httpClient, cfg.GeoMetBaseURL, logger, metrics)
	realtime := providers.NewRealtimeProvider(httpClient, cfg.GeoMetBaseURL, cfg.RealtimeLimit, logger, metrics)

	catalog, err := providers.NewStationCatalog(httpClient, cfg.GeoMetBaseURL, cfg.StationCacheSize, logger, metrics)
	if err != nil {
		logger.Fatalf("failed to create station catalog: %v", err)
	}

	// Core service building combined timelines.
	service := hydro.NewService(historical, realtime, memStore, logger, metrics)

	// Scheduler that periodically refreshes tracked stations.
	refreshTimeout := 2 * cfg.HTTPTimeout
	sched := scheduler.New(cfg.TrackedStations, cfg.RefreshInterval, refreshTimeout, service, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalf("failed to start scheduler: %v", err)
	}

	// Ops server: health and Prometheus metrics.
	ops := observability.NewServer(":"+cfg.OpsPort, logger)
	go func() {
		if err := ops.Start(); err != nil {
			logger.WithError(err).Error("ops server failed")
		}
	}()

	// Public API.
	app := fiber.New(fiber.Config{
		AppName: "brownclaw",
	})
	app.Use(recover.New())
	app.Use(httpapi.RequestID())
	app.Use(httpapi.RequestLogger(logger))

	httpapi.RegisterRoutes(app, service, catalog, logger)

	go func() {
		logger.WithField("port", cfg.Port).Info("starting API server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.WithError(err).Fatal("API server failed")
		}
	}()

	// Handle shutdown gracefully.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit
	logger.WithField("signal", sig.String()).Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.WithError(err).Error("API server shutdown failed")
	}
	if err := ops.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("ops server shutdown failed")
	}

	logger.Info("stopped")
}

func newLogger(cfg *config.AppConfig) *logrus.Logger {
	logger := logrus.New()

	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
