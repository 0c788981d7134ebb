package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "paudku_backend/internals/helpers"
)

// OnlyRoles membatasi akses endpoint pada role tertentu.
// Dipasang setelah AuthMiddleware (butuh c.Locals("userRole")).
func OnlyRoles(errorMessage string, allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("userRole").(string)
		if !ok || role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Role tidak ditemukan di token")
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		return helper.JsonError(c, fiber.StatusForbidden, errorMessage)
	}
}
