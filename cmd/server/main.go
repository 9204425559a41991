package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foxxcyber/bid-pricing/internal/cache"
	"github.com/foxxcyber/bid-pricing/internal/config"
	"github.com/foxxcyber/bid-pricing/internal/database"
	"github.com/foxxcyber/bid-pricing/internal/handlers"
	"github.com/foxxcyber/bid-pricing/internal/logger"
	"github.com/foxxcyber/bid-pricing/internal/metrics"
	"github.com/foxxcyber/bid-pricing/internal/middleware"
	"github.com/foxxcyber/bid-pricing/internal/pricing"
	"github.com/foxxcyber/bid-pricing/internal/services"
)

const (
	serviceName     = "bid-pricing"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: serviceName}).Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "server stopped unexpectedly", err)
		stop()
		os.Exit(1)
	}
	logg.Info(ctx, "server stopped")
}

// run wires the backends and serves until ctx is cancelled. Every opened
// backend is closed before it returns.
func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	deps := handlers.Deps{Config: cfg, Logger: logg}

	// Persistence is optional
	if cfg.DB.Enabled() {
		db, err := database.Connect(ctx, cfg.DB, logg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		deps.Store = db
	} else {
		logg.Warn(ctx, "BIDPRICING_DATABASE_URL not set, inquiries will not be persisted")
	}

	// Draft cache is optional
	var draftStore services.DraftStore
	if cfg.Redis.Enabled() {
		redisClient, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			logg.Warn(ctx, "draft cache disabled: "+err.Error())
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logg.Error(context.Background(), "error closing redis", err)
				}
			}()
			draftStore = redisClient
			deps.Cache = redisClient
		}
	}

	drafter, drafterName, err := services.BuildDrafter(ctx, cfg, draftStore, logg)
	if err != nil {
		return fmt.Errorf("build drafter: %w", err)
	}
	deps.DrafterName = drafterName
	logg.Info(logg.WithField(ctx, "drafter", drafterName), "pricing drafter ready")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Pricer = pricing.NewService(drafter, logg, metrics.NewPricingMetrics(registry))

	// Export storage is optional
	if cfg.Storage.Enabled {
		storage, err := services.NewStorageService(cfg.Storage)
		if err != nil {
			logg.Warn(ctx, "export storage disabled: "+err.Error())
		} else {
			if err := storage.EnsureBucket(ctx); err != nil {
				logg.Warn(ctx, "failed to prepare export bucket: "+err.Error())
			}
			deps.Objects = storage
		}
	}

	ocr, err := services.NewOCRService()
	if err != nil {
		logg.Warn(ctx, "quantity sheet scanning disabled: "+err.Error())
	} else {
		defer ocr.Close()
		deps.OCR = ocr
	}

	deps.Shares = services.NewShareTokenService(cfg.Share)
	if cfg.App.IsProduction() && cfg.Share.Secret == "change-me-in-production-please" {
		logg.Warn(ctx, "BIDPRICING_SHARE_SECRET is using the default value")
	}

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ErrorHandler:          handlers.ErrorHandler,
		BodyLimit:             cfg.App.BodyLimitMB * 1024 * 1024,
		DisableStartupMessage: !cfg.App.IsDevelopment(),
		EnablePrintRoutes:     cfg.App.IsDevelopment(),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID(logg))
	app.Use(middleware.RequestLogger(logg))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, " + middleware.RequestIDHeader,
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	handlers.New(deps).Register(app)

	listenErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "server starting")
		listenErr <- app.Listen(":" + cfg.App.Port)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
