package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"paudku_backend/internals/features/users/auth/controller"
	"paudku_backend/internals/middlewares"
	authmw "paudku_backend/internals/middlewares/auth"
)

// AuthRoutes mendaftarkan endpoint autentikasi.
// Register & login publik (dengan rate limit ketat), sisanya butuh token.
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	auth := api.Group("/auth")

	auth.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)

	protected := auth.Group("", authmw.AuthMiddleware(db))
	protected.Get("/profile", ctrl.GetProfile)
	protected.Put("/profile", ctrl.UpdateProfile)
	protected.Put("/change-password", ctrl.ChangePassword)
	protected.Post("/refresh-token", ctrl.RefreshToken)
}
