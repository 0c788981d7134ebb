package seeds

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"paudku_backend/internals/configs"
	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/users/user/model"
)

// SeedAdminUser membuat akun admin awal bila belum ada.
// Kredensial diambil dari ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdminUser(db *gorm.DB) {
	email := configs.GetEnv("ADMIN_EMAIL", "admin@paudku.id")
	password := configs.GetEnv("ADMIN_PASSWORD", "")
	if password == "" {
		log.Println("[WARNING] ADMIN_PASSWORD kosong, seed admin dilewati")
		return
	}

	var count int64
	db.Model(&model.UserModel{}).
		Where("role = ?", constants.RoleAdmin).
		Count(&count)
	if count > 0 {
		log.Println("ℹ️ Akun admin sudah ada, seed dilewati")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Println("[ERROR] Gagal hash password admin:", err)
		return
	}

	admin := model.UserModel{
		UserName: "admin",
		FullName: "Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     constants.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Println("[ERROR] Gagal seed admin:", err)
		return
	}
	log.Println("✅ Akun admin awal berhasil dibuat:", email)
}
