package database

import (
	"log"

	paymentModel "paudku_backend/internals/features/finance/payments/model"
	notificationModel "paudku_backend/internals/features/home/notifications/model"
	classModel "paudku_backend/internals/features/school/classes/model"
	studentModel "paudku_backend/internals/features/school/students/model"
	teacherModel "paudku_backend/internals/features/school/teachers/model"
	userModel "paudku_backend/internals/features/users/user/model"
)

// AutoMigrate menyamakan skema DB dengan model aplikasi.
func AutoMigrate() {
	err := DB.AutoMigrate(
		&userModel.UserModel{},
		&studentModel.StudentModel{},
		&classModel.ClassModel{},
		&classModel.ClassTeacherModel{},
		&teacherModel.TeacherModel{},
		&notificationModel.NotificationModel{},
		&notificationModel.NotificationReadModel{},
		&paymentModel.PaymentModel{},
	)
	if err != nil {
		log.Fatalf("❌ Gagal migrasi database: %v", err)
	}
	log.Println("✅ Migrasi database selesai")
}
