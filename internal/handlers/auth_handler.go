package handlers

import (
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/respond"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     h.cfg.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cfg.AppEnv == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// Login verifies phone and password and issues a session token, returned in
// the body and as an HTTP-only cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return respond.Error(c, fiber.StatusUnauthorized, err.Error())
		}
		return respond.Internal(c, "Login failed", err)
	}

	c.Cookie(h.sessionCookie(resp.Token, time.Unix(resp.ExpiresAt, 0)))
	return c.JSON(resp)
}

func (h *AuthHandler) Session(c *fiber.Ctx) error {
	s, err := org.GetSession(c)
	if err != nil {
		return respond.Unauthorized(c)
	}
	return c.JSON(dto.SessionResponse{User: dto.UserResponse{
		ID:    s.UserID,
		Phone: s.Phone,
		Name:  s.Name,
		Role:  s.Role,
		OrgID: s.OrgID,
	}})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(h.sessionCookie("", time.Unix(0, 0)))
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return respond.BadRequest(c, "Invalid request body")
	}

	user, err := h.authService.CreateUser(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPhoneTaken):
			return respond.Error(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, services.ErrInvalidUser):
			return respond.BadRequest(c, err.Error())
		}
		return respond.Internal(c, "Failed to create user", err)
	}
	return c.JSON(dto.NewUserResponse(user))
}
