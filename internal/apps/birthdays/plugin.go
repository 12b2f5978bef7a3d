package birthdays

import (
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/archive"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BirthdaysPlugin struct {
	archive  archive.Store
	registry *org.Registry
}

// New wires the birthday routes. registry may be nil, which skips the
// per-organisation import gate.
func New(store archive.Store, registry *org.Registry) *BirthdaysPlugin {
	return &BirthdaysPlugin{archive: store, registry: registry}
}

func (p *BirthdaysPlugin) ID() string { return "birthdays" }

func (p *BirthdaysPlugin) Feature() string { return "birthdays" }

func (p *BirthdaysPlugin) Models() []interface{} {
	return []interface{}{
		&Birthday{},
	}
}

func (p *BirthdaysPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewBirthdayService(db)
	handler := NewBirthdayHandler(svc, p.archive, cfg.ImportMaxBytes)

	importHandlers := []fiber.Handler{handler.Import}
	if p.registry != nil {
		importHandlers = append([]fiber.Handler{middleware.FeatureRequired(p.registry, "import")}, importHandlers...)
	}

	g := router.Group("/birthdays")
	g.Get("/", handler.List)
	g.Post("/", handler.Create)
	g.Get("/duplicates", handler.Duplicates)
	g.Get("/upcoming", handler.Upcoming)
	g.Post("/bulk-delete", handler.BulkDelete)
	g.Post("/bulk-update-ward", handler.BulkUpdateWard)
	g.Post("/cleanup", handler.Cleanup)
	g.Post("/import", importHandlers...)
	g.Patch("/:id", handler.Patch)
	g.Delete("/:id", handler.Delete)
}
