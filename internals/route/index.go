package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"paudku_backend/internals/constants"
	paymentRoute "paudku_backend/internals/features/finance/payments/route"
	notificationRoute "paudku_backend/internals/features/home/notifications/route"
	classController "paudku_backend/internals/features/school/classes/controller"
	classRoute "paudku_backend/internals/features/school/classes/route"
	studentRoute "paudku_backend/internals/features/school/students/route"
	teacherRoute "paudku_backend/internals/features/school/teachers/route"
	authRoute "paudku_backend/internals/features/users/auth/route"
	userRoute "paudku_backend/internals/features/users/user/route"
	authmw "paudku_backend/internals/middlewares/auth"
)

// SetupRoutes mendaftarkan seluruh endpoint aplikasi di bawah /api.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	// 🔓 Publik (register/login) + endpoint profil ber-token
	authRoute.AuthRoutes(api, db)

	// 🔒 Semua fitur lain butuh token valid
	protected := api.Group("", authmw.AuthMiddleware(db))

	userRoute.UserRoutes(protected, db)
	studentRoute.StudentRoutes(protected, db)
	classRoute.ClassRoutes(protected, db)
	teacherRoute.TeacherRoutes(protected, db)
	notificationRoute.NotificationRoutes(protected, db)
	paymentRoute.PaymentRoutes(protected, db)

	// 🔧 Rekonsiliasi enrollment on-demand (admin)
	adminOnly := authmw.OnlyRoles(
		constants.RoleErrorAdmin("rekonsiliasi data"),
		constants.AdminOnly...,
	)
	classCtrl := classController.NewClassController(db)
	protected.Post("/admin/reconcile", adminOnly, classCtrl.ReconcileEnrollments)
}
