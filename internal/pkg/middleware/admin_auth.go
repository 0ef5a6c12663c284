package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/roamline/roamline/internal/pkg/env"
)

// AdminAuthMiddleware authenticates the operational endpoints with a single
// bearer token. Only the bcrypt hash of the token lives in the environment
// (ADMIN_TOKEN_HASH), so a leaked config does not leak the token itself.
func AdminAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Missing admin token"})
		}

		hash := env.GetEnv("ADMIN_TOKEN_HASH", "")
		if hash == "" {
			log.Print("admin auth middleware: ADMIN_TOKEN_HASH not configured")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Admin access not configured"})
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid admin token"})
		}

		return c.Next()
	}
}

func extractBearerToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return strings.TrimSpace(c.Get("X-Admin-Token"))
}
