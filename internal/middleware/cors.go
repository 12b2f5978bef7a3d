package middleware

import (
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Authorization, Accept, X-Org-ID, X-Admin-Token",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		// cookies only travel to an explicit origin list
		AllowCredentials: cfg.CORSOrigins != "*",
	})
}
