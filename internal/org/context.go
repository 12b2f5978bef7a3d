package org

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Session is the identity carried by a verified session token.
type Session struct {
	UserID string
	Phone  string
	Name   string
	Role   string
	OrgID  string
}

// GetOrgID extracts the org id stored by middleware.OrgContext.
func GetOrgID(c *fiber.Ctx) string {
	if orgID, ok := c.Locals("org_id").(string); ok {
		return orgID
	}
	return ""
}

// GetSession reads the verified JWT claims from context.
func GetSession(c *fiber.Ctx) (*Session, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("missing sub claim")
	}

	s := &Session{UserID: sub}
	s.Phone, _ = claims["phone"].(string)
	s.Name, _ = claims["name"].(string)
	s.Role, _ = claims["role"].(string)
	s.OrgID, _ = claims["org_id"].(string)
	return s, nil
}

// GetUserID returns the session subject.
func GetUserID(c *fiber.Ctx) (string, error) {
	s, err := GetSession(c)
	if err != nil {
		return "", err
	}
	return s.UserID, nil
}
