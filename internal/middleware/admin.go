package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/respond"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired lets a request through when any of these hold:
// 1. X-Admin-Token matches ADMIN_TOKEN
// 2. the session phone is listed in ADMIN_PHONES
// 3. the session user has role admin in the database
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminPhones := parseCSV(cfg.AdminPhones)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken {
			return c.Next()
		}

		session, err := org.GetSession(c)
		if err != nil {
			return respond.Unauthorized(c)
		}

		if contains(adminPhones, session.Phone) {
			return c.Next()
		}

		var user models.User
		if err := db.Select("role").First(&user, "id = ?", session.UserID).Error; err == nil {
			if user.Role == models.RoleAdmin {
				return c.Next()
			}
		}

		return respond.Error(c, fiber.StatusForbidden, "Admin access required")
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
