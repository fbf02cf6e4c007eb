package middlewares

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"
)

// AdminAuth gates the /admin group behind a shared key. Real user auth is
// handled upstream; this only keeps the trigger off the open internet.
func AdminAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminKey := os.Getenv("ADMIN_API_KEY")
		provided := c.Get("X-Admin-Key")

		if adminKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "INVALID_ADMIN_KEY",
				"data":    nil,
			})
		}

		return c.Next()
	}
}
