package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/apps"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

// GeneralRateLimit is the per-IP request budget per minute on /api.
const GeneralRateLimit = 600

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	registry *org.Registry,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	viewHandler *handlers.ViewHandler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// General API rate limiter per IP. It stays above the client importer's
	// pace of five creates a second.
	api.Use(limiter.New(limiter.Config{
		Max:               GeneralRateLimit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	session := middleware.SessionRequired(cfg)
	orgContext := middleware.OrgContext(registry)

	// Auth-specific rate limit: 10 req/min per IP on login
	auth := api.Group("/auth")
	auth.Post("/login", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}), authHandler.Login)
	auth.Get("/session", session, authHandler.Session)
	auth.Post("/logout", authHandler.Logout)

	api.Get("/view", session, orgContext, viewHandler.Get)

	admin := api.Group("/admin", middleware.AdminSession(cfg), middleware.AdminRequired(db, cfg))
	admin.Post("/users", authHandler.CreateUser)

	// Plugins are mounted on /api directly; the middlewares are attached to
	// each plugin's own prefix so public routes stay public.
	for _, p := range plugins {
		prefix := "/" + p.ID()
		api.Use(prefix, session, orgContext)
		if fp, ok := p.(apps.FeaturePlugin); ok {
			api.Use(prefix, middleware.FeatureRequired(registry, fp.Feature()))
		}
		p.RegisterRoutes(api, db, cfg)
	}
}
