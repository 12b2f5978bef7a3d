package middleware

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/respond"
	"github.com/gofiber/fiber/v2"
)

// OrgContext resolves the organisation for the request from the session's
// org_id claim, then the X-Org-ID header, then the registry default.
// It must run after SessionRequired.
func OrgContext(registry *org.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if session, err := org.GetSession(c); err == nil && session.OrgID != "" {
			if registry.Exists(session.OrgID) {
				c.Locals("org_id", session.OrgID)
				return c.Next()
			}
			slog.Warn("session names unknown org, using fallback", "org_id", session.OrgID, "user_id", session.UserID)
		}

		if orgID := c.Get("X-Org-ID"); orgID != "" {
			if !registry.Exists(orgID) {
				return respond.BadRequest(c, "Invalid X-Org-ID: "+orgID)
			}
			c.Locals("org_id", orgID)
			return c.Next()
		}

		c.Locals("org_id", registry.DefaultID())
		return c.Next()
	}
}
