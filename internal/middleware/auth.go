package middleware

import (
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/respond"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

func sessionConfig(cfg *config.Config) jwtware.Config {
	return jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		TokenLookup: "header:" + fiber.HeaderAuthorization + ",cookie:" + cfg.SessionCookie,
		// a custom TokenLookup leaves the scheme empty; the header carries "Bearer <jwt>"
		AuthScheme: "Bearer",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return respond.Error(c, fiber.StatusUnauthorized, "Unauthorized: invalid or expired session")
		},
	}
}

// SessionRequired verifies the session token from the Authorization header
// or, for browsers, the session cookie.
func SessionRequired(cfg *config.Config) fiber.Handler {
	return jwtware.New(sessionConfig(cfg))
}

// AdminSession is SessionRequired, except that requests carrying the admin
// token skip verification. AdminRequired makes the final decision.
func AdminSession(cfg *config.Config) fiber.Handler {
	jc := sessionConfig(cfg)
	jc.Filter = func(c *fiber.Ctx) bool {
		return cfg.AdminToken != "" && c.Get("X-Admin-Token") == cfg.AdminToken
	}
	return jwtware.New(jc)
}
