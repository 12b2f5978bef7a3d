package handlers

import (
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/respond"
	"github.com/gofiber/fiber/v2"
)

type ViewHandler struct {
	registry *org.Registry
}

func NewViewHandler(registry *org.Registry) *ViewHandler {
	return &ViewHandler{registry: registry}
}

// Get returns the status transitions and actions the caller's role has in
// the resolved organisation.
func (h *ViewHandler) Get(c *fiber.Ctx) error {
	s, err := org.GetSession(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	cfg := h.registry.Get(org.GetOrgID(c))
	if cfg == nil {
		return respond.NotFound(c, "Organisation not found")
	}

	view := cfg.ViewFor(s.Role)
	return c.JSON(dto.ViewResponse{
		OrgID:         cfg.OrgID,
		OrgName:       cfg.Name,
		Role:          s.Role,
		StatusActions: nonNil(view.StatusActions),
		Actions:       nonNil(view.Actions),
	})
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
