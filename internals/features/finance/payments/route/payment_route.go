package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/finance/payments/controller"
	authmw "paudku_backend/internals/middlewares/auth"
)

func PaymentRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPaymentController(db)

	payments := api.Group("/payments")

	adminOnly := authmw.OnlyRoles(
		constants.RoleErrorAdmin("mengelola tagihan"),
		constants.AdminOnly...,
	)
	parentOnly := authmw.OnlyRoles(
		constants.RoleErrorParent("pembayaran online"),
		constants.ParentOnly...,
	)
	// Guru tidak punya akses finance
	adminOrParent := authmw.OnlyRoles(
		"❌ Hanya admin atau orang tua yang boleh mengakses data tagihan.",
		constants.RoleAdmin, constants.RoleParent,
	)

	payments.Get("/stats", adminOnly, ctrl.GetPaymentStats)
	payments.Get("/reports", adminOnly, ctrl.GetPaymentReports)
	payments.Post("/batch", adminOnly, ctrl.BatchCreatePayments)
	payments.Get("/", adminOrParent, ctrl.GetPayments)
	payments.Get("/:id", adminOrParent, ctrl.GetPaymentByID)
	payments.Post("/", adminOnly, ctrl.CreatePayment)
	payments.Put("/:id", adminOnly, ctrl.UpdatePayment)
	payments.Delete("/:id", adminOnly, ctrl.DeletePayment)
	payments.Post("/:id/pay", adminOrParent, ctrl.PayPayment)
	payments.Post("/:id/checkout", parentOnly, ctrl.CheckoutPayment)
}
