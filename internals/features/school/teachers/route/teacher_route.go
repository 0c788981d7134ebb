package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/school/teachers/controller"
	authmw "paudku_backend/internals/middlewares/auth"
)

func TeacherRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewTeacherController(db)

	teachers := api.Group("/teachers")

	adminOnly := authmw.OnlyRoles(
		constants.RoleErrorAdmin("mengelola guru"),
		constants.AdminOnly...,
	)

	teachers.Get("/stats", ctrl.GetTeacherStats)
	teachers.Get("/", ctrl.GetTeachers)
	teachers.Get("/:id", ctrl.GetTeacherByID)
	teachers.Post("/", adminOnly, ctrl.CreateTeacher)
	teachers.Put("/:id", adminOnly, ctrl.UpdateTeacher)
	teachers.Delete("/:id", adminOnly, ctrl.DeleteTeacher)

	teachers.Post("/:teacherId/assign-class", adminOnly, ctrl.AssignClass)
	teachers.Delete("/:teacherId/classes/:classId", adminOnly, ctrl.UnassignClass)
}
