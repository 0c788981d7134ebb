package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/users/user/dto"
	"paudku_backend/internals/features/users/user/model"
	helper "paudku_backend/internals/helpers"
)

type UserController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{
		DB:       db,
		Validate: validator.New(),
	}
}

/* ===================== LIST & DETAIL ===================== */

// GET /api/users?role=&is_active=&search=&page=&limit=
func (ctrl *UserController) GetUsers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 10, 100)

	q := ctrl.DB.Model(&model.UserModel{})

	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if isActive := c.Query("is_active"); isActive != "" {
		q = q.Where("is_active = ?", isActive == "true")
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("user_name ILIKE ? OR full_name ILIKE ? OR email ILIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Println("[ERROR] Gagal menghitung user:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	var users []model.UserModel
	if err := q.Order("created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&users).Error; err != nil {
		log.Println("[ERROR] Gagal mengambil user:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	return helper.JsonList(c, dto.ToUserResponses(users), helper.BuildPagination(paging, total))
}

// GET /api/users/:id
func (ctrl *UserController) GetUserByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID user tidak valid")
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	resp := dto.ToUserResponse(&user)
	return helper.JsonOK(c, "User ditemukan", resp)
}

/* ===================== CREATE / UPDATE / DELETE ===================== */

// POST /api/users (admin)
func (ctrl *UserController) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if taken, field := ctrl.identityTaken(req.UserName, req.Email, uuid.Nil); taken {
		return helper.JsonError(c, fiber.StatusBadRequest, field+" sudah digunakan")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	user := req.ToModel()
	user.Password = string(hashed)

	if err := ctrl.DB.Create(user).Error; err != nil {
		log.Println("[ERROR] Gagal membuat user:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat user")
	}

	resp := dto.ToUserResponse(user)
	return helper.JsonCreated(c, "User berhasil dibuat", resp)
}

// PUT /api/users/:id (admin)
func (ctrl *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID user tidak valid")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	newUserName := user.UserName
	newEmail := user.Email
	if req.UserName != nil {
		newUserName = *req.UserName
	}
	if req.Email != nil {
		newEmail = *req.Email
	}
	if taken, field := ctrl.identityTaken(newUserName, newEmail, user.ID); taken {
		return helper.JsonError(c, fiber.StatusBadRequest, field+" sudah digunakan")
	}

	req.ApplyToModel(&user)
	if err := ctrl.DB.Save(&user).Error; err != nil {
		log.Println("[ERROR] Gagal memperbarui user:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui user")
	}

	resp := dto.ToUserResponse(&user)
	return helper.JsonUpdated(c, "User berhasil diperbarui", resp)
}

// DELETE /api/users/:id (admin)
func (ctrl *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID user tidak valid")
	}

	callerID, _ := helper.GetUserIDFromToken(c)

	var user model.UserModel
	if err := ctrl.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	if err := canDeleteUser(callerID, &user); err != nil {
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	}

	if err := ctrl.DB.Delete(&user).Error; err != nil {
		log.Println("[ERROR] Gagal menghapus user:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus user")
	}

	return helper.JsonDeleted(c, "User berhasil dihapus", fiber.Map{"id": id})
}

/* ===================== STATUS & PASSWORD ===================== */

// PATCH /api/users/:id/toggle-status (admin)
func (ctrl *UserController) ToggleUserStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID user tidak valid")
	}

	callerID, _ := helper.GetUserIDFromToken(c)

	var user model.UserModel
	if err := ctrl.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	// Admin tidak boleh menonaktifkan dirinya sendiri
	if user.ID == callerID && user.IsActive {
		return helper.JsonError(c, fiber.StatusBadRequest, "Tidak dapat menonaktifkan akun sendiri")
	}

	user.IsActive = !user.IsActive
	if err := ctrl.DB.Model(&user).Update("is_active", user.IsActive).Error; err != nil {
		log.Println("[ERROR] Gagal mengubah status user:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengubah status user")
	}

	return helper.JsonUpdated(c, "Status user berhasil diubah", fiber.Map{
		"id":        user.ID,
		"is_active": user.IsActive,
	})
}

// PATCH /api/users/:id/reset-password (admin)
func (ctrl *UserController) ResetUserPassword(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID user tidak valid")
	}

	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data user")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	if err := ctrl.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		log.Println("[ERROR] Gagal reset password:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal reset password")
	}

	return helper.JsonUpdated(c, "Password user berhasil direset", fiber.Map{"id": user.ID})
}

/* ===================== STATS ===================== */

// GET /api/users/stats (admin)
func (ctrl *UserController) GetUserStats(c *fiber.Ctx) error {
	type roleCount struct {
		Role   string `json:"role"`
		Active int64  `json:"active"`
		Total  int64  `json:"total"`
	}

	var rows []roleCount
	if err := ctrl.DB.Model(&model.UserModel{}).
		Select("role, COUNT(*) FILTER (WHERE is_active) AS active, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error; err != nil {
		log.Println("[ERROR] Gagal mengambil statistik user:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik user")
	}

	var total int64
	for _, r := range rows {
		total += r.Total
	}

	return helper.JsonOK(c, "Statistik user", fiber.Map{
		"total":   total,
		"by_role": rows,
	})
}

/* ===================== INTERNAL ===================== */

// canDeleteUser memutuskan boleh-tidaknya pemanggil menghapus akun target.
// Akun sendiri dan akun admin lain sama-sama tidak bisa dihapus.
func canDeleteUser(callerID uuid.UUID, target *model.UserModel) error {
	if target.ID == callerID {
		return errors.New("Tidak dapat menghapus akun sendiri")
	}
	if target.Role == constants.RoleAdmin {
		return errors.New("Tidak dapat menghapus akun admin lain")
	}
	return nil
}

func (ctrl *UserController) identityTaken(userName, email string, excludeID uuid.UUID) (bool, string) {
	var count int64
	ctrl.DB.Model(&model.UserModel{}).
		Where("user_name = ? AND id <> ?", userName, excludeID).
		Count(&count)
	if count > 0 {
		return true, "Username"
	}
	ctrl.DB.Model(&model.UserModel{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count)
	if count > 0 {
		return true, "Email"
	}
	return false, ""
}
