package appointments

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/respond"
	"github.com/gofiber/fiber/v2"
)

type AppointmentHandler struct {
	service *AppointmentService
}

func NewAppointmentHandler(service *AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// fail maps service errors onto the HTTP error contract.
func fail(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		return respond.NotFound(c, err.Error())
	case IsValidationError(err):
		return respond.BadRequest(c, err.Error())
	default:
		return respond.Internal(c, message, err)
	}
}

func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	appts, err := h.service.ListAll()
	if err != nil {
		return respond.Internal(c, "Failed to fetch appointments", err)
	}
	return c.JSON(appts)
}

func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	userID, err := org.GetUserID(c)
	if err != nil {
		return respond.Unauthorized(c)
	}

	var req CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}

	appt, err := h.service.Create(userID, req)
	if err != nil {
		return fail(c, err, "Failed to create appointment")
	}
	return c.JSON(appt)
}

func (h *AppointmentHandler) Replace(c *fiber.Ctx) error {
	var req ReplaceAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}

	appt, err := h.service.Replace(c.Params("id"), req)
	if err != nil {
		return fail(c, err, "Failed to update appointment")
	}
	return c.JSON(appt)
}

func (h *AppointmentHandler) Patch(c *fiber.Ctx) error {
	var req PatchAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}

	appt, err := h.service.Patch(c.Params("id"), req)
	if err != nil {
		return fail(c, err, "Failed to update appointment")
	}
	return c.JSON(appt)
}

func (h *AppointmentHandler) SetStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}

	appt, err := h.service.UpdateStatus(c.Params("id"), req.Status)
	if err != nil {
		return fail(c, err, "Failed to update appointment status")
	}
	return c.JSON(appt)
}

func (h *AppointmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("id")); err != nil {
		return fail(c, err, "Failed to delete appointment")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AppointmentHandler) BulkDelete(c *fiber.Ctx) error {
	var req BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}

	deleted, err := h.service.BulkDelete(req.AppointmentIDs)
	if err != nil {
		return fail(c, err, "Failed to delete appointments")
	}
	return c.JSON(BulkDeleteResponse{Deleted: deleted})
}

// Export serves a printable schedule as xlsx (default) or html.
func (h *AppointmentHandler) Export(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", FormatXLSX))
	if format != FormatXLSX && format != FormatHTML {
		return respond.BadRequest(c, ErrInvalidExportFormat.Error())
	}

	r, err := ParseExportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return respond.BadRequest(c, err.Error())
	}

	appts, err := h.service.ListAll()
	if err != nil {
		return respond.Internal(c, "Failed to fetch appointments", err)
	}
	appts = r.Filter(appts)

	if format == FormatHTML {
		page, err := RenderHTML(appts, r)
		if err != nil {
			return respond.Internal(c, "Failed to render schedule", err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(page)
	}

	book, err := RenderXLSX(appts, r)
	if err != nil {
		return respond.Internal(c, "Failed to render schedule", err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Attachment("schedule.xlsx")
	return c.Send(book)
}
