package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"paudku_backend/internals/configs"
	helper "paudku_backend/internals/helpers"
)

// AuthMiddleware memverifikasi JWT dari header Authorization dan
// menaruh identitas user di c.Locals untuk handler berikutnya.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Token tidak ditemukan")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(configs.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			log.Println("[ERROR] Token tidak valid:", err)
			return helper.JsonError(c, fiber.StatusUnauthorized, "Token tidak valid atau sudah kedaluwarsa")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Token tidak valid")
		}

		userID, _ := claims["sub"].(string)
		if userID == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Token tidak valid")
		}

		// Pastikan user masih ada dan aktif
		var row struct {
			UserName string
			Email    string
			Role     string
			IsActive bool
		}
		if err := db.Table("users").
			Select("user_name, email, role, is_active").
			Where("id = ?", userID).
			Take(&row).Error; err != nil {
			return helper.JsonError(c, fiber.StatusUnauthorized, "User tidak ditemukan")
		}
		if !row.IsActive {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Akun Anda telah dinonaktifkan")
		}

		c.Locals("userId", userID)
		c.Locals("userName", row.UserName)
		c.Locals("userEmail", row.Email)
		c.Locals("userRole", row.Role)

		return c.Next()
	}
}
