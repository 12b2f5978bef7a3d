package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/database"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db       *gorm.DB
	registry *org.Registry
}

func NewHealthHandler(db *gorm.DB, registry *org.Registry) *HealthHandler {
	return &HealthHandler{db: db, registry: registry}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(h.db); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		OrgCount:  len(h.registry.All()),
	})
}
