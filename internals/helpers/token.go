package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Ambil user ID dari Locals (diisi oleh AuthMiddleware)
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("userId").(string)
	if !ok || raw == "" {
		return uuid.Nil, errors.New("user ID tidak ditemukan di token")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("user ID pada token tidak valid")
	}
	return id, nil
}

func GetUserRoleFromToken(c *fiber.Ctx) (string, error) {
	role, ok := c.Locals("userRole").(string)
	if !ok || role == "" {
		return "", errors.New("role tidak ditemukan di token")
	}
	return role, nil
}

func GetUserNameFromToken(c *fiber.Ctx) (string, error) {
	name, ok := c.Locals("userName").(string)
	if !ok || name == "" {
		return "", errors.New("nama user tidak ditemukan di token")
	}
	return name, nil
}

func GetUserEmailFromToken(c *fiber.Ctx) (string, error) {
	email, ok := c.Locals("userEmail").(string)
	if !ok || email == "" {
		return "", errors.New("email user tidak ditemukan di token")
	}
	return email, nil
}
