package middleware

import (
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/respond"
	"github.com/gofiber/fiber/v2"
)

// FeatureRequired rejects requests from organisations that do not have
// feature enabled. It must run after OrgContext.
func FeatureRequired(registry *org.Registry, feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !registry.HasFeature(org.GetOrgID(c), feature) {
			return respond.Error(c, fiber.StatusForbidden, "Feature "+feature+" is not enabled for this organisation")
		}
		return c.Next()
	}
}
