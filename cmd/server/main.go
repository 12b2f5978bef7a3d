package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/appointments"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps/birthdays"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/archive"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/logging"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/respond"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/routes"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBDriver != "sqlite" && cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Org registry
	registry, err := org.LoadFromFile(cfg.OrgsConfigPath)
	if err != nil {
		slog.Error("failed to load org registry", "path", cfg.OrgsConfigPath, "error", err)
		os.Exit(1)
	}
	slog.Info("org registry loaded", "orgs", len(registry.All()), "default", registry.DefaultID())

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	db := database.DB

	if err := database.MigrateShared(db); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewJSONHandler(os.Stdout),
		pgLogHandler,
	)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetention, cleanupDone)

	// Import archive (S3 when configured)
	store, err := archive.New(context.Background(), cfg)
	if err != nil {
		slog.Error("import archive unavailable, uploads will not be kept", "error", err)
		store = archive.Nop{}
	}

	plugins := []apps.Plugin{
		appointments.New(),
		birthdays.New(store, registry),
	}

	// Tables are created here, before the first request, never lazily.
	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(db, models); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
		}
	}

	authService := services.NewAuthService(db, cfg)

	authHandler := handlers.NewAuthHandler(authService, cfg)
	healthHandler := handlers.NewHealthHandler(db, registry)
	viewHandler := handlers.NewViewHandler(registry)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	bodyLimit := 4 * 1024 * 1024
	if cfg.ImportMaxBytes+64*1024 > bodyLimit {
		// room for the multipart envelope around the largest import
		bodyLimit = cfg.ImportMaxBytes + 64*1024
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ErrorHandler: respond.ErrorHandler,
	})

	// recover sits outside sentry so a re-panic still becomes a 500
	app.Use(recover.New())
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, db, registry, authHandler, healthHandler, viewHandler, plugins)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
