package birthdays

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/archive"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/importer"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/respond"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultUpcomingDays = 30
	maxUpcomingDays     = 366
)

type BirthdayHandler struct {
	service  *BirthdayService
	archive  archive.Store
	maxBytes int
	now      func() time.Time
}

func NewBirthdayHandler(service *BirthdayService, store archive.Store, maxBytes int) *BirthdayHandler {
	if store == nil {
		store = archive.Nop{}
	}
	return &BirthdayHandler{service: service, archive: store, maxBytes: maxBytes, now: time.Now}
}

func fail(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, ErrBirthdayNotFound):
		return respond.NotFound(c, err.Error())
	case IsValidationError(err):
		return respond.BadRequest(c, err.Error())
	default:
		return respond.Internal(c, message, err)
	}
}

func (h *BirthdayHandler) List(c *fiber.Ctx) error {
	list, err := h.service.ListAll()
	if err != nil {
		return respond.Internal(c, "Failed to fetch birthdays", err)
	}
	return c.JSON(list)
}

func (h *BirthdayHandler) Create(c *fiber.Ctx) error {
	var req CreateBirthdayRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}

	b, replaced, err := h.service.Create(req)
	if err != nil {
		return fail(c, err, "Failed to create birthday")
	}
	return c.JSON(CreateBirthdayResponse{Birthday: *b, WasReplaced: replaced})
}

func (h *BirthdayHandler) Patch(c *fiber.Ctx) error {
	var req PatchBirthdayRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}

	b, err := h.service.Update(c.Params("id"), req)
	if err != nil {
		return fail(c, err, "Failed to update birthday")
	}
	return c.JSON(b)
}

func (h *BirthdayHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Params("id")); err != nil {
		return respond.Internal(c, "Failed to delete birthday", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BirthdayHandler) BulkDelete(c *fiber.Ctx) error {
	var req BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}

	deleted, err := h.service.BulkDelete(req.IDs)
	if err != nil {
		return fail(c, err, "Failed to delete birthdays")
	}
	return c.JSON(BulkDeleteResponse{Deleted: deleted})
}

func (h *BirthdayHandler) BulkUpdateWard(c *fiber.Ctx) error {
	var req BulkWardRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}

	updated, err := h.service.BulkUpdateWard(req.Ward)
	if err != nil {
		return fail(c, err, "Failed to update wards")
	}
	return c.JSON(BulkWardResponse{Updated: updated})
}

func (h *BirthdayHandler) Cleanup(c *fiber.Ctx) error {
	removed, err := h.service.Cleanup()
	if err != nil {
		return respond.Internal(c, "Failed to clean up birthdays", err)
	}
	return c.JSON(CleanupResponse{Removed: removed, Count: len(removed)})
}

func (h *BirthdayHandler) Duplicates(c *fiber.Ctx) error {
	list, err := h.service.ListAll()
	if err != nil {
		return respond.Internal(c, "Failed to fetch birthdays", err)
	}
	return c.JSON(DuplicatesResponse{Groups: FindDuplicates(list)})
}

func (h *BirthdayHandler) Upcoming(c *fiber.Ctx) error {
	days := defaultUpcomingDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > maxUpcomingDays {
			return respond.BadRequest(c, "days must be between 0 and "+strconv.Itoa(maxUpcomingDays))
		}
		days = n
	}

	list, err := h.service.ListAll()
	if err != nil {
		return respond.Internal(c, "Failed to fetch birthdays", err)
	}
	return c.JSON(Upcoming(list, h.now(), days))
}

// Import accepts a multipart upload in field "file" (csv, xls or xlsx).
func (h *BirthdayHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return respond.BadRequest(c, "file is required")
	}
	if h.maxBytes > 0 && fh.Size > int64(h.maxBytes) {
		return respond.Error(c, fiber.StatusRequestEntityTooLarge, "file exceeds "+strconv.Itoa(h.maxBytes)+" bytes")
	}

	f, err := fh.Open()
	if err != nil {
		return respond.Internal(c, "Failed to read upload", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return respond.Internal(c, "Failed to read upload", err)
	}

	rows, err := importer.ReadRows(bytes.NewReader(data), fh.Filename)
	if err != nil {
		return respond.BadRequest(c, err.Error())
	}
	parsed, err := importer.Parse(rows)
	if err != nil {
		return respond.BadRequest(c, err.Error())
	}

	key, err := h.archive.Put(c.UserContext(), fh.Filename, fh.Header.Get(fiber.HeaderContentType), data)
	if err != nil {
		// the import itself does not depend on the archive copy
		slog.Warn("import archive failed", "error", err, "file", fh.Filename, "org_id", org.GetOrgID(c))
	}

	resp := h.service.Import(parsed)
	resp.Archive = key
	slog.Info("birthdays imported",
		"org_id", org.GetOrgID(c),
		"layout", parsed.Layout.String(),
		"imported", resp.Imported,
		"replaced", resp.Replaced,
		"failed", resp.Failed,
	)
	return c.JSON(resp)
}
