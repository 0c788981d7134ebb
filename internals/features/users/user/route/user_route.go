package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/users/user/controller"
	authmw "paudku_backend/internals/middlewares/auth"
)

// UserRoutes mendaftarkan endpoint manajemen user (mayoritas admin-only).
func UserRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewUserController(db)

	users := api.Group("/users")

	adminOnly := authmw.OnlyRoles(
		constants.RoleErrorAdmin("mengelola user"),
		constants.AdminOnly...,
	)

	users.Get("/stats", adminOnly, ctrl.GetUserStats)
	users.Get("/", adminOnly, ctrl.GetUsers)
	users.Get("/:id", ctrl.GetUserByID)
	users.Post("/", adminOnly, ctrl.CreateUser)
	users.Put("/:id", adminOnly, ctrl.UpdateUser)
	users.Delete("/:id", adminOnly, ctrl.DeleteUser)
	users.Patch("/:id/toggle-status", adminOnly, ctrl.ToggleUserStatus)
	users.Patch("/:id/reset-password", adminOnly, ctrl.ResetUserPassword)
}
