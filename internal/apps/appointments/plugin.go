package appointments

import (
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/config"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AppointmentsPlugin struct{}

func New() *AppointmentsPlugin {
	return &AppointmentsPlugin{}
}

func (p *AppointmentsPlugin) ID() string { return "appointments" }

func (p *AppointmentsPlugin) Models() []interface{} {
	return []interface{}{
		&Appointment{},
	}
}

func (p *AppointmentsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewAppointmentService(db)
	handler := NewAppointmentHandler(svc)

	g := router.Group("/appointments")
	g.Get("/", handler.List)
	g.Post("/", handler.Create)
	// static paths before /:id
	g.Get("/export", handler.Export)
	g.Post("/bulk-delete", handler.BulkDelete)
	g.Put("/:id", handler.Replace)
	g.Patch("/:id", handler.Patch)
	g.Patch("/:id/status", handler.SetStatus)
	g.Delete("/:id", handler.Delete)
}
