package http

import (
	"resume-builder/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const authLocalKey = "authContext"

// AuthMiddleware consumes the identity headers set by the upstream auth
// gateway. The service trusts them; it performs no authentication itself.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-User-ID")
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing identity"})
		}
		uid, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid identity"})
		}
		c.Locals(authLocalKey, auth.Context{UserID: uid, Role: c.Get("X-User-Role")})
		return c.Next()
	}
}

func authFrom(c *fiber.Ctx) auth.Context {
	if ac, ok := c.Locals(authLocalKey).(auth.Context); ok {
		return ac
	}
	return auth.Context{}
}
