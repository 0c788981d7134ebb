package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/school/classes/controller"
	authmw "paudku_backend/internals/middlewares/auth"
)

func ClassRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewClassController(db)

	classes := api.Group("/classes")

	teacherAndAbove := authmw.OnlyRoles(
		constants.RoleErrorTeacher("keanggotaan kelas"),
		constants.TeacherAndAbove...,
	)
	adminOnly := authmw.OnlyRoles(
		constants.RoleErrorAdmin("mengelola kelas"),
		constants.AdminOnly...,
	)

	classes.Get("/stats", ctrl.GetClassStats)
	classes.Get("/", ctrl.GetClasses)
	classes.Get("/:id", ctrl.GetClassByID)
	classes.Post("/", adminOnly, ctrl.CreateClass)
	classes.Put("/:id", adminOnly, ctrl.UpdateClass)
	classes.Delete("/:id", adminOnly, ctrl.DeleteClass)

	classes.Post("/:classId/students", teacherAndAbove, ctrl.AddStudent)
	classes.Delete("/:classId/students/:studentId", teacherAndAbove, ctrl.RemoveStudent)
	classes.Post("/:classId/teachers", adminOnly, ctrl.AssignTeacher)
	classes.Delete("/:classId/teachers/:teacherId", adminOnly, ctrl.UnassignTeacher)
}
