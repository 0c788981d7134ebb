package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/finance/payments/dto"
	"paudku_backend/internals/features/finance/payments/model"
	"paudku_backend/internals/features/finance/payments/service"
	helper "paudku_backend/internals/helpers"
	authscope "paudku_backend/internals/helpers/auth"
)

type PaymentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{
		DB:       db,
		Validate: validator.New(),
	}
}

/* ===================== LIST & DETAIL ===================== */

// GET /api/payments?status=&type=&student_id=&academic_year=&page=&limit=
func (ctrl *PaymentController) GetPayments(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	role, _ := helper.GetUserRoleFromToken(c)
	paging := helper.ResolvePaging(c, 10, 100)

	q := authscope.ScopePayments(ctrl.DB.Model(&model.PaymentModel{}), role, userID)

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if typ := c.Query("type"); typ != "" {
		q = q.Where("type = ?", typ)
	}
	if studentID := c.Query("student_id"); studentID != "" {
		id, err := uuid.Parse(studentID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id tidak valid")
		}
		q = q.Where("student_id = ?", id)
	}
	if year := c.Query("academic_year"); year != "" {
		q = q.Where("academic_year = ?", year)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Println("[ERROR] Gagal menghitung tagihan:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data tagihan")
	}

	var payments []model.PaymentModel
	if err := q.Order("due_date DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&payments).Error; err != nil {
		log.Println("[ERROR] Gagal mengambil tagihan:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data tagihan")
	}

	return helper.JsonList(c, dto.ToPaymentResponses(payments), helper.BuildPagination(paging, total))
}

// GET /api/payments/:id — scoping yang sama dengan list.
func (ctrl *PaymentController) GetPaymentByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tagihan tidak valid")
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	role, _ := helper.GetUserRoleFromToken(c)

	var payment model.PaymentModel
	q := authscope.ScopePayments(ctrl.DB.Model(&model.PaymentModel{}), role, userID)
	if err := q.First(&payment, "payments.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Tagihan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data tagihan")
	}

	resp := dto.ToPaymentResponse(&payment)
	return helper.JsonOK(c, "Tagihan ditemukan", resp)
}

/* ===================== CREATE / UPDATE / DELETE ===================== */

// POST /api/payments (admin)
func (ctrl *PaymentController) CreatePayment(c *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if err := ctrl.ensureStudentExists(req.StudentID); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	payment := req.ToModel()
	if err := ctrl.DB.Create(payment).Error; err != nil {
		log.Println("[ERROR] Gagal membuat tagihan:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat tagihan")
	}

	resp := dto.ToPaymentResponse(payment)
	return helper.JsonCreated(c, "Tagihan berhasil dibuat", resp)
}

// PUT /api/payments/:id (admin) — tagihan paid: jumlah/jenis terkunci.
func (ctrl *PaymentController) UpdatePayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tagihan tidak valid")
	}

	var req dto.UpdatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var payment model.PaymentModel
	if err := ctrl.DB.First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Tagihan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data tagihan")
	}

	if payment.Status == model.PaymentPaid && (req.Amount != nil || req.Type != nil) {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"Jumlah dan jenis tagihan yang sudah dibayar tidak dapat diubah")
	}

	if req.Type != nil {
		payment.Type = *req.Type
	}
	if req.Description != nil {
		payment.Description = *req.Description
	}
	if req.Amount != nil {
		payment.Amount = *req.Amount
	}
	if req.DueDate != nil {
		payment.DueDate = *req.DueDate
	}
	if req.Status != nil {
		payment.Status = *req.Status
	}
	if req.Notes != nil {
		payment.Notes = *req.Notes
	}

	if err := ctrl.DB.Save(&payment).Error; err != nil {
		log.Println("[ERROR] Gagal memperbarui tagihan:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui tagihan")
	}

	resp := dto.ToPaymentResponse(&payment)
	return helper.JsonUpdated(c, "Tagihan berhasil diperbarui", resp)
}

// DELETE /api/payments/:id (admin) — tagihan paid tidak bisa dihapus.
func (ctrl *PaymentController) DeletePayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tagihan tidak valid")
	}

	var payment model.PaymentModel
	if err := ctrl.DB.First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Tagihan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data tagihan")
	}

	if payment.Status == model.PaymentPaid {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tagihan yang sudah dibayar tidak dapat dihapus")
	}

	if err := ctrl.DB.Delete(&payment).Error; err != nil {
		log.Println("[ERROR] Gagal menghapus tagihan:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus tagihan")
	}

	return helper.JsonDeleted(c, "Tagihan berhasil dihapus", fiber.Map{"id": id})
}

/* ===================== PEMBAYARAN ===================== */

// POST /api/payments/:id/pay — admin atau orang tua pemilik tagihan.
// Nomor kuitansi dibuat tepat sekali saat pending→paid; pembayaran
// kedua ditolak dengan kuitansi yang tidak berubah.
func (ctrl *PaymentController) PayPayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tagihan tidak valid")
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	role, _ := helper.GetUserRoleFromToken(c)

	var req dto.PayRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var payment model.PaymentModel
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&payment, "id = ?", id).Error; err != nil {
			return err
		}

		if role != constants.RoleAdmin {
			if role != constants.RoleParent {
				return errForbidden
			}
			owns, err := ctrl.parentOwnsStudent(tx, userID, payment.StudentID)
			if err != nil {
				return err
			}
			if !owns {
				return errForbidden
			}
		}

		if payment.Status == model.PaymentPaid {
			return errAlreadyPaid
		}
		if payment.Status != model.PaymentPending && payment.Status != model.PaymentOverdue {
			return errNotPayable
		}

		now := time.Now()
		receiptNumber, err := service.GenerateReceiptNumber(now)
		if err != nil {
			return err
		}
		receiptJSON, err := json.Marshal(dto.Receipt{Number: receiptNumber})
		if err != nil {
			return err
		}

		payment.Status = model.PaymentPaid
		payment.PaymentDate = &now
		payment.PaymentMethod = req.PaymentMethod
		payment.TransactionID = req.TransactionID
		payment.PayerUserID = &userID
		payment.ProcessedBy = &userID
		payment.Receipt = datatypes.JSON(receiptJSON)

		return tx.Save(&payment).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Tagihan tidak ditemukan")
		case errors.Is(err, errForbidden):
			return helper.JsonError(c, fiber.StatusForbidden, "Anda tidak berhak membayar tagihan ini")
		case errors.Is(err, errAlreadyPaid):
			return helper.JsonError(c, fiber.StatusBadRequest, "Tagihan sudah dibayar")
		case errors.Is(err, errNotPayable):
			return helper.JsonError(c, fiber.StatusBadRequest, "Status tagihan tidak memungkinkan pembayaran")
		default:
			log.Println("[ERROR] Gagal memproses pembayaran:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses pembayaran")
		}
	}

	resp := dto.ToPaymentResponse(&payment)
	return helper.JsonOK(c, "Pembayaran berhasil", resp)
}

// POST /api/payments/:id/checkout — orang tua pemilik tagihan;
// mengembalikan token Snap Midtrans.
func (ctrl *PaymentController) CheckoutPayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tagihan tidak valid")
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var payment model.PaymentModel
	if err := ctrl.DB.First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Tagihan tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data tagihan")
	}

	owns, err := ctrl.parentOwnsStudent(ctrl.DB, userID, payment.StudentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memeriksa kepemilikan tagihan")
	}
	if !owns {
		return helper.JsonError(c, fiber.StatusForbidden, "Anda tidak berhak membayar tagihan ini")
	}

	if payment.Status != model.PaymentPending && payment.Status != model.PaymentOverdue {
		return helper.JsonError(c, fiber.StatusBadRequest, "Status tagihan tidak memungkinkan pembayaran")
	}

	userName, _ := helper.GetUserNameFromToken(c)
	userEmail, _ := helper.GetUserEmailFromToken(c)

	orderID := fmt.Sprintf("PAY-%s-%d", payment.ID.String()[:8], time.Now().Unix())
	snapResp, err := service.CreateSnapTransaction(
		orderID, int64(payment.Amount), userName, userEmail, payment.Description)
	if err != nil {
		log.Println("[ERROR] Gagal membuat transaksi Snap:", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Gagal membuat transaksi pembayaran online")
	}

	return helper.JsonOK(c, "Transaksi pembayaran dibuat", fiber.Map{
		"order_id":     orderID,
		"snap_token":   snapResp.Token,
		"redirect_url": snapResp.RedirectURL,
	})
}

/* ===================== BATCH ===================== */

// POST /api/payments/batch (admin) — satu jenis tagihan untuk banyak siswa.
func (ctrl *PaymentController) BatchCreatePayments(c *fiber.Ctx) error {
	var req dto.BatchCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	payments := make([]model.PaymentModel, 0, len(req.StudentIDs))
	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table("students").
			Where("id IN ? AND deleted_at IS NULL", req.StudentIDs).
			Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(req.StudentIDs)) {
			return errors.New("ada siswa yang tidak ditemukan")
		}

		for _, sid := range req.StudentIDs {
			payments = append(payments, model.PaymentModel{
				StudentID:    uuid.MustParse(sid),
				Type:         req.Type,
				Description:  req.Description,
				Amount:       req.Amount,
				Currency:     "IDR",
				DueDate:      req.DueDate,
				Status:       model.PaymentPending,
				AcademicYear: req.AcademicYear,
				Semester:     req.Semester,
			})
		}
		return tx.Create(&payments).Error
	})
	if err != nil {
		if err.Error() == "ada siswa yang tidak ditemukan" {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		log.Println("[ERROR] Gagal membuat tagihan massal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat tagihan massal")
	}

	return helper.JsonCreated(c, "Tagihan massal berhasil dibuat", fiber.Map{
		"created": len(payments),
	})
}

/* ===================== STATS & LAPORAN ===================== */

// GET /api/payments/stats (admin)
func (ctrl *PaymentController) GetPaymentStats(c *fiber.Ctx) error {
	type kv struct {
		Key   string  `json:"key"`
		Count int64   `json:"count"`
		Total float64 `json:"total"`
	}

	var revenue float64
	if err := ctrl.DB.Model(&model.PaymentModel{}).
		Where("status = ?", model.PaymentPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&revenue).Error; err != nil {
		log.Println("[ERROR] Gagal statistik pembayaran:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik pembayaran")
	}

	var pending float64
	ctrl.DB.Model(&model.PaymentModel{}).
		Where("status = ?", model.PaymentPending).
		Select("COALESCE(SUM(amount), 0)").Scan(&pending)

	var overdueCount int64
	ctrl.DB.Model(&model.PaymentModel{}).
		Where("status = ? OR (status = ? AND due_date < NOW())",
			model.PaymentOverdue, model.PaymentPending).
		Count(&overdueCount)

	var byType []kv
	if err := ctrl.DB.Model(&model.PaymentModel{}).
		Select("type AS key, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("type").Scan(&byType).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik pembayaran")
	}

	var byStatus []kv
	if err := ctrl.DB.Model(&model.PaymentModel{}).
		Select("status AS key, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("status").Scan(&byStatus).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik pembayaran")
	}

	var monthly []kv
	if err := ctrl.DB.Raw(`
		SELECT to_char(payment_date, 'YYYY-MM') AS key,
		       COUNT(*) AS count,
		       COALESCE(SUM(amount), 0) AS total
		FROM payments
		WHERE status = 'paid' AND payment_date IS NOT NULL AND deleted_at IS NULL
		GROUP BY to_char(payment_date, 'YYYY-MM')
		ORDER BY key
	`).Scan(&monthly).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik pembayaran")
	}

	return helper.JsonOK(c, "Statistik pembayaran", fiber.Map{
		"revenue":        revenue,
		"pending_amount": pending,
		"overdue_count":  overdueCount,
		"by_type":        byType,
		"by_status":      byStatus,
		"monthly":        monthly,
	})
}

// GET /api/payments/reports?type=revenue|outstanding|detailed (admin)
func (ctrl *PaymentController) GetPaymentReports(c *fiber.Ctx) error {
	reportType := c.Query("type", "revenue")

	switch reportType {
	case "revenue":
		type row struct {
			AcademicYear string  `json:"academic_year"`
			Semester     string  `json:"semester"`
			Total        float64 `json:"total"`
			Count        int64   `json:"count"`
		}
		var rows []row
		if err := ctrl.DB.Model(&model.PaymentModel{}).
			Select("academic_year, semester, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
			Where("status = ?", model.PaymentPaid).
			Group("academic_year, semester").
			Order("academic_year, semester").
			Scan(&rows).Error; err != nil {
			log.Println("[ERROR] Gagal laporan revenue:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat laporan")
		}
		return helper.JsonOK(c, "Laporan pendapatan", rows)

	case "outstanding":
		var payments []model.PaymentModel
		if err := ctrl.DB.
			Where("status IN ?", []string{model.PaymentPending, model.PaymentOverdue}).
			Order("due_date ASC").
			Find(&payments).Error; err != nil {
			log.Println("[ERROR] Gagal laporan outstanding:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat laporan")
		}
		return helper.JsonOK(c, "Laporan tagihan berjalan", dto.ToPaymentResponses(payments))

	case "detailed":
		paging := helper.ResolvePaging(c, 50, 500)
		var total int64
		ctrl.DB.Model(&model.PaymentModel{}).Count(&total)

		var payments []model.PaymentModel
		if err := ctrl.DB.Order("created_at DESC").
			Limit(paging.Limit).Offset(paging.Offset).
			Find(&payments).Error; err != nil {
			log.Println("[ERROR] Gagal laporan detail:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat laporan")
		}
		return helper.JsonList(c, dto.ToPaymentResponses(payments), helper.BuildPagination(paging, total))

	default:
		return helper.JsonError(c, fiber.StatusBadRequest, "Jenis laporan tidak dikenal")
	}
}

/* ===================== INTERNAL ===================== */

var (
	errForbidden   = errors.New("tidak berhak")
	errAlreadyPaid = errors.New("sudah dibayar")
	errNotPayable  = errors.New("tidak bisa dibayar")
)

func (ctrl *PaymentController) ensureStudentExists(studentID string) error {
	var count int64
	if err := ctrl.DB.Table("students").
		Where("id = ? AND deleted_at IS NULL", studentID).
		Count(&count).Error; err != nil {
		return errors.New("Gagal memeriksa data siswa")
	}
	if count == 0 {
		return errors.New("Siswa tidak ditemukan")
	}
	return nil
}

func (ctrl *PaymentController) parentOwnsStudent(db *gorm.DB, parentID, studentID uuid.UUID) (bool, error) {
	containment := fmt.Sprintf(`[{"user_id": %q}]`, parentID.String())
	var count int64
	err := db.Table("students").
		Where("id = ? AND student_parents @> ?::jsonb AND deleted_at IS NULL",
			studentID, containment).
		Count(&count).Error
	return count > 0, err
}
