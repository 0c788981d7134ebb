package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"paudku_backend/internals/constants"
	authdto "paudku_backend/internals/features/users/auth/dto"
	"paudku_backend/internals/features/users/auth/service"
	userdto "paudku_backend/internals/features/users/user/dto"
	"paudku_backend/internals/features/users/user/model"
	helper "paudku_backend/internals/helpers"
)

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		DB:       db,
		Validate: validator.New(),
	}
}

/* ===================== REGISTER & LOGIN ===================== */

// POST /api/auth/register — pendaftaran publik, role selalu parent.
func (ctrl *AuthController) Register(c *fiber.Ctx) error {
	var req authdto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var count int64
	ctrl.DB.Model(&model.UserModel{}).
		Where("user_name = ? OR email = ?", req.UserName, req.Email).
		Count(&count)
	if count > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Username atau email sudah digunakan")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	user := model.UserModel{
		UserName: req.UserName,
		FullName: req.FullName,
		Email:    req.Email,
		Password: string(hashed),
		Role:     constants.RoleParent,
		Phone:    req.Phone,
		IsActive: true,
	}

	if err := ctrl.DB.Create(&user).Error; err != nil {
		log.Println("[ERROR] Gagal registrasi user:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mendaftarkan user")
	}

	resp := userdto.ToUserResponse(&user)
	return helper.JsonCreated(c, "Registrasi berhasil", resp)
}

// POST /api/auth/login — terima username atau email.
func (ctrl *AuthController) Login(c *fiber.Ctx) error {
	var req authdto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user model.UserModel
	if err := ctrl.DB.
		Where("user_name = ? OR email = ?", req.Identifier, req.Identifier).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Username/email atau password salah")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses login")
	}

	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Akun Anda telah dinonaktifkan")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Username/email atau password salah")
	}

	token, err := service.GenerateToken(&user)
	if err != nil {
		log.Println("[ERROR] Gagal membuat token:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}

	now := time.Now()
	ctrl.DB.Model(&user).Update("last_login", now)
	user.LastLogin = &now

	return helper.JsonOK(c, "Login berhasil", fiber.Map{
		"token": token,
		"user":  userdto.ToUserResponse(&user),
	})
}

/* ===================== PROFILE ===================== */

// GET /api/auth/profile
func (ctrl *AuthController) GetProfile(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}

	resp := userdto.ToUserResponse(&user)
	return helper.JsonOK(c, "Profil user", resp)
}

// PUT /api/auth/profile
func (ctrl *AuthController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req authdto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := ctrl.DB.Save(&user).Error; err != nil {
		log.Println("[ERROR] Gagal memperbarui profil:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui profil")
	}

	resp := userdto.ToUserResponse(&user)
	return helper.JsonUpdated(c, "Profil berhasil diperbarui", resp)
}

/* ===================== PASSWORD & TOKEN ===================== */

// PUT /api/auth/change-password
func (ctrl *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req authdto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User tidak ditemukan")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Password saat ini salah")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memproses password")
	}

	if err := ctrl.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		log.Println("[ERROR] Gagal mengganti password:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengganti password")
	}

	return helper.JsonUpdated(c, "Password berhasil diganti", fiber.Map{"id": user.ID})
}

// POST /api/auth/refresh-token — terbitkan token baru dari sesi yang masih valid.
func (ctrl *AuthController) RefreshToken(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User tidak ditemukan")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Akun Anda telah dinonaktifkan")
	}

	token, err := service.GenerateToken(&user)
	if err != nil {
		log.Println("[ERROR] Gagal membuat token:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token")
	}

	return helper.JsonOK(c, "Token berhasil diperbarui", fiber.Map{"token": token})
}
