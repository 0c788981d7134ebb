package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/school/students/controller"
	authmw "paudku_backend/internals/middlewares/auth"
)

func StudentRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewStudentController(db)

	students := api.Group("/students")

	teacherAndAbove := authmw.OnlyRoles(
		constants.RoleErrorTeacher("data siswa"),
		constants.TeacherAndAbove...,
	)
	adminOnly := authmw.OnlyRoles(
		constants.RoleErrorAdmin("mengelola siswa"),
		constants.AdminOnly...,
	)
	parentOnly := authmw.OnlyRoles(
		constants.RoleErrorParent("data anak"),
		constants.ParentOnly...,
	)

	students.Get("/my-children", parentOnly, ctrl.GetMyChildren)
	students.Get("/stats", teacherAndAbove, ctrl.GetStudentStats)
	students.Get("/", teacherAndAbove, ctrl.GetStudents)
	students.Get("/:id", teacherAndAbove, ctrl.GetStudentByID)
	students.Post("/", adminOnly, ctrl.CreateStudent)
	students.Put("/:id", adminOnly, ctrl.UpdateStudent)
	students.Delete("/:id", adminOnly, ctrl.DeleteStudent)
	students.Post("/:id/notes", teacherAndAbove, ctrl.AddStudentNote)
}
