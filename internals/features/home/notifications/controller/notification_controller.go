package controller

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/home/notifications/dto"
	"paudku_backend/internals/features/home/notifications/model"
	"paudku_backend/internals/features/home/notifications/service"
	helper "paudku_backend/internals/helpers"
	authscope "paudku_backend/internals/helpers/auth"
)

type NotificationController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{
		DB:       db,
		Validate: validator.New(),
	}
}

/* ===================== LIST & DETAIL ===================== */

// GET /api/notifications?type=&priority=&unread_only=&page=&limit=
func (ctrl *NotificationController) GetNotifications(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	role, _ := helper.GetUserRoleFromToken(c)
	paging := helper.ResolvePaging(c, 10, 100)

	q := authscope.ScopeNotifications(ctrl.DB.Model(&model.NotificationModel{}), role, userID)

	// Non-admin hanya melihat yang sudah terbit dan belum kedaluwarsa
	if role != constants.RoleAdmin {
		q = q.Where("status = ?", model.NotificationPublished).
			Where("publish_date IS NULL OR publish_date <= NOW()").
			Where("expiry_date IS NULL OR expiry_date > NOW()")
	}

	if typ := c.Query("type"); typ != "" {
		q = q.Where("type = ?", typ)
	}
	if priority := c.Query("priority"); priority != "" {
		q = q.Where("priority = ?", priority)
	}
	if c.Query("unread_only") == "true" {
		q = q.Where("id NOT IN (?)",
			ctrl.DB.Session(&gorm.Session{NewDB: true}).
				Table("notification_reads").
				Select("notification_id").
				Where("user_id = ?", userID))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Println("[ERROR] Gagal menghitung notifikasi:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil notifikasi")
	}

	var notifications []model.NotificationModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&notifications).Error; err != nil {
		log.Println("[ERROR] Gagal mengambil notifikasi:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil notifikasi")
	}

	readSet, err := ctrl.readSet(userID, notifications)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil notifikasi")
	}

	out := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		out = append(out, dto.ToNotificationResponse(&notifications[i], readSet[notifications[i].ID]))
	}

	return helper.JsonList(c, out, helper.BuildPagination(paging, total))
}

// GET /api/notifications/:id — akses dicek per dokumen; membaca detail
// sekaligus menandai sudah dibaca.
func (ctrl *NotificationController) GetNotificationByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID notifikasi tidak valid")
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	role, _ := helper.GetUserRoleFromToken(c)

	var notification model.NotificationModel
	if err := ctrl.DB.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Notifikasi tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil notifikasi")
	}

	rec := dto.DecodeRecipients(notification.Recipients)
	if !authscope.CanViewNotification(role, userID, notification.AuthorID, dto.ToRecipientsView(rec)) {
		return helper.JsonError(c, fiber.StatusForbidden, "Anda tidak berhak membaca notifikasi ini")
	}

	if err := ctrl.markRead(notification.ID, userID); err != nil {
		log.Println("[ERROR] Gagal menandai notifikasi terbaca:", err)
	}

	resp := dto.ToNotificationResponse(&notification, true)
	return helper.JsonOK(c, "Notifikasi ditemukan", resp)
}

/* ===================== CREATE / UPDATE / DELETE ===================== */

// POST /api/notifications (teacher+) — target class diekspansi sekali
// menjadi individual saat pembuatan.
func (ctrl *NotificationController) CreateNotification(c *fiber.Ctx) error {
	authorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.CreateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if err := req.Recipients.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	recipients, err := service.ExpandClassRecipients(ctrl.DB, req.Recipients)
	if err != nil {
		log.Println("[ERROR] Gagal ekspansi recipients:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses recipients")
	}

	recipientsJSON, err := json.Marshal(recipients)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses recipients")
	}

	notification := model.NotificationModel{
		Title:       req.Title,
		Content:     req.Content,
		Type:        req.Type,
		Priority:    req.Priority,
		AuthorID:    authorID,
		Recipients:  datatypes.JSON(recipientsJSON),
		Status:      req.Status,
		PublishDate: req.PublishDate,
		ExpiryDate:  req.ExpiryDate,
	}
	if notification.Status == model.NotificationPublished && notification.PublishDate == nil {
		now := time.Now()
		notification.PublishDate = &now
	}

	if err := ctrl.DB.Create(&notification).Error; err != nil {
		log.Println("[ERROR] Gagal membuat notifikasi:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat notifikasi")
	}

	resp := dto.ToNotificationResponse(&notification, false)
	return helper.JsonCreated(c, "Notifikasi berhasil dibuat", resp)
}

// PUT /api/notifications/:id — penulis atau admin;
// judul/isi tidak bisa diubah setelah terbit.
func (ctrl *NotificationController) UpdateNotification(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID notifikasi tidak valid")
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	role, _ := helper.GetUserRoleFromToken(c)

	var req dto.UpdateNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var notification model.NotificationModel
	if err := ctrl.DB.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Notifikasi tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil notifikasi")
	}

	if role != constants.RoleAdmin && notification.AuthorID != userID {
		return helper.JsonError(c, fiber.StatusForbidden, "Hanya penulis atau admin yang boleh mengubah notifikasi")
	}

	if notification.Status == model.NotificationPublished &&
		(req.Title != nil || req.Content != nil || req.Type != nil) {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"Isi notifikasi yang sudah terbit tidak dapat diubah")
	}

	if req.Title != nil {
		notification.Title = *req.Title
	}
	if req.Content != nil {
		notification.Content = *req.Content
	}
	if req.Type != nil {
		notification.Type = *req.Type
	}
	if req.Priority != nil {
		notification.Priority = *req.Priority
	}
	if req.Status != nil {
		notification.Status = *req.Status
		if *req.Status == model.NotificationPublished && notification.PublishDate == nil {
			now := time.Now()
			notification.PublishDate = &now
		}
	}
	if req.PublishDate != nil {
		notification.PublishDate = req.PublishDate
	}
	if req.ExpiryDate != nil {
		notification.ExpiryDate = req.ExpiryDate
	}

	if err := ctrl.DB.Save(&notification).Error; err != nil {
		log.Println("[ERROR] Gagal memperbarui notifikasi:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui notifikasi")
	}

	resp := dto.ToNotificationResponse(&notification, false)
	return helper.JsonUpdated(c, "Notifikasi berhasil diperbarui", resp)
}

// DELETE /api/notifications/:id — penulis atau admin.
func (ctrl *NotificationController) DeleteNotification(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID notifikasi tidak valid")
	}

	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	role, _ := helper.GetUserRoleFromToken(c)

	var notification model.NotificationModel
	if err := ctrl.DB.First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Notifikasi tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil notifikasi")
	}

	if role != constants.RoleAdmin && notification.AuthorID != userID {
		return helper.JsonError(c, fiber.StatusForbidden, "Hanya penulis atau admin yang boleh menghapus notifikasi")
	}

	if err := ctrl.DB.Delete(&notification).Error; err != nil {
		log.Println("[ERROR] Gagal menghapus notifikasi:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus notifikasi")
	}

	return helper.JsonDeleted(c, "Notifikasi berhasil dihapus", fiber.Map{"id": id})
}

/* ===================== READ TRACKING ===================== */

// PUT /api/notifications/:id/read
func (ctrl *NotificationController) MarkAsRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID notifikasi tidak valid")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var count int64
	ctrl.DB.Model(&model.NotificationModel{}).Where("id = ?", id).Count(&count)
	if count == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Notifikasi tidak ditemukan")
	}

	if err := ctrl.markRead(id, userID); err != nil {
		log.Println("[ERROR] Gagal menandai notifikasi terbaca:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menandai notifikasi")
	}

	return helper.JsonUpdated(c, "Notifikasi ditandai sudah dibaca", fiber.Map{"id": id})
}

// PUT /api/notifications/mark-all-read
func (ctrl *NotificationController) MarkAllAsRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	role, _ := helper.GetUserRoleFromToken(c)

	var notifications []model.NotificationModel
	q := authscope.ScopeNotifications(ctrl.DB.Model(&model.NotificationModel{}), role, userID).
		Where("status = ?", model.NotificationPublished)
	if err := q.Select("id").Find(&notifications).Error; err != nil {
		log.Println("[ERROR] Gagal mengambil notifikasi:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menandai notifikasi")
	}

	reads := make([]model.NotificationReadModel, 0, len(notifications))
	now := time.Now()
	for _, n := range notifications {
		reads = append(reads, model.NotificationReadModel{
			NotificationID: n.ID,
			UserID:         userID,
			ReadAt:         now,
		})
	}
	if len(reads) > 0 {
		if err := ctrl.DB.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&reads).Error; err != nil {
			log.Println("[ERROR] Gagal menandai semua notifikasi:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menandai notifikasi")
		}
	}

	return helper.JsonUpdated(c, "Semua notifikasi ditandai sudah dibaca", fiber.Map{
		"marked": len(reads),
	})
}

// GET /api/notifications/unread-count
func (ctrl *NotificationController) GetUnreadCount(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	role, _ := helper.GetUserRoleFromToken(c)

	q := authscope.ScopeNotifications(ctrl.DB.Model(&model.NotificationModel{}), role, userID).
		Where("status = ?", model.NotificationPublished).
		Where("expiry_date IS NULL OR expiry_date > NOW()").
		Where("id NOT IN (?)",
			ctrl.DB.Session(&gorm.Session{NewDB: true}).
				Table("notification_reads").
				Select("notification_id").
				Where("user_id = ?", userID))

	var count int64
	if err := q.Count(&count).Error; err != nil {
		log.Println("[ERROR] Gagal menghitung notifikasi belum dibaca:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung notifikasi")
	}

	return helper.JsonOK(c, "Jumlah notifikasi belum dibaca", fiber.Map{"unread": count})
}

/* ===================== STATS ===================== */

// GET /api/notifications/stats (teacher+)
func (ctrl *NotificationController) GetNotificationStats(c *fiber.Ctx) error {
	type kv struct {
		Key   string `json:"key"`
		Count int64  `json:"count"`
	}

	var byType []kv
	if err := ctrl.DB.Model(&model.NotificationModel{}).
		Select("type AS key, COUNT(*) AS count").
		Group("type").Scan(&byType).Error; err != nil {
		log.Println("[ERROR] Gagal statistik notifikasi:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik notifikasi")
	}

	var byPriority []kv
	if err := ctrl.DB.Model(&model.NotificationModel{}).
		Select("priority AS key, COUNT(*) AS count").
		Group("priority").Scan(&byPriority).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik notifikasi")
	}

	var daily []kv
	if err := ctrl.DB.Raw(`
		SELECT to_char(created_at::date, 'YYYY-MM-DD') AS key, COUNT(*) AS count
		FROM notifications
		WHERE created_at >= NOW() - INTERVAL '7 days' AND deleted_at IS NULL
		GROUP BY created_at::date
		ORDER BY key
	`).Scan(&daily).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik notifikasi")
	}

	var total int64
	ctrl.DB.Model(&model.NotificationModel{}).Count(&total)

	return helper.JsonOK(c, "Statistik notifikasi", fiber.Map{
		"total":       total,
		"by_type":     byType,
		"by_priority": byPriority,
		"last_7_days": daily,
	})
}

/* ===================== INTERNAL ===================== */

func (ctrl *NotificationController) markRead(notificationID, userID uuid.UUID) error {
	return ctrl.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.NotificationReadModel{
			NotificationID: notificationID,
			UserID:         userID,
			ReadAt:         time.Now(),
		}).Error
}

func (ctrl *NotificationController) readSet(userID uuid.UUID, notifications []model.NotificationModel) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool, len(notifications))
	if len(notifications) == 0 {
		return set, nil
	}

	ids := make([]uuid.UUID, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ID)
	}

	var read []uuid.UUID
	if err := ctrl.DB.Table("notification_reads").
		Select("notification_id").
		Where("user_id = ? AND notification_id IN ?", userID, ids).
		Scan(&read).Error; err != nil {
		return nil, err
	}
	for _, id := range read {
		set[id] = true
	}
	return set, nil
}
