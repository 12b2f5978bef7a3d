// Package respond writes the JSON error bodies shared by every handler.
package respond

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// Error replies with status and {"error": message}.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: message})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

// Internal logs err with the request context and replies 500 with
// {"error": message, "details": err}.
func Internal(c *fiber.Ctx, message string, err error) error {
	slog.Error(message,
		"error", err,
		"method", c.Method(),
		"path", c.Path(),
		"request_id", RequestID(c),
		"org_id", c.Locals("org_id"),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error:   message,
		Details: err.Error(),
	})
}

// RequestID returns the id assigned by the requestid middleware.
func RequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// ErrorHandler is the fiber.Config ErrorHandler. Errors that reach it were
// not answered by a handler; fiber errors keep their status, anything else
// is a 500 with details.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return Error(c, fe.Code, fe.Message)
	}
	return Internal(c, "Internal server error", err)
}
