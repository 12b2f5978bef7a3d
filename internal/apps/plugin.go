package apps

import (
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Plugin is a resource module mounted under /api.
type Plugin interface {
	// ID returns the module identifier, also used as its route prefix.
	ID() string

	// Models returns the list of GORM model pointers migrated at boot.
	Models() []interface{}

	// RegisterRoutes mounts the module's routes under /<ID> on router.
	// Session verification and org resolution already cover that prefix.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// FeaturePlugin is a plugin that only serves organisations with the named
// feature enabled in the org registry.
type FeaturePlugin interface {
	Plugin

	Feature() string
}
