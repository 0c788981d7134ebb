package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/home/notifications/controller"
	authmw "paudku_backend/internals/middlewares/auth"
)

func NotificationRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewNotificationController(db)

	notifications := api.Group("/notifications")

	teacherAndAbove := authmw.OnlyRoles(
		constants.RoleErrorTeacher("pengelolaan notifikasi"),
		constants.TeacherAndAbove...,
	)

	notifications.Get("/unread-count", ctrl.GetUnreadCount)
	notifications.Get("/stats", teacherAndAbove, ctrl.GetNotificationStats)
	notifications.Put("/mark-all-read", ctrl.MarkAllAsRead)
	notifications.Get("/", ctrl.GetNotifications)
	notifications.Get("/:id", ctrl.GetNotificationByID)
	notifications.Post("/", teacherAndAbove, ctrl.CreateNotification)
	notifications.Put("/:id/read", ctrl.MarkAsRead)
	notifications.Put("/:id", ctrl.UpdateNotification)
	notifications.Delete("/:id", ctrl.DeleteNotification)
}
