package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	classmodel "paudku_backend/internals/features/school/classes/model"
	studentmodel "paudku_backend/internals/features/school/students/model"
)

/* =========================================================
   Penjaga konsistensi keanggotaan kelas.
   Semua mutasi keanggotaan berjalan dalam satu transaksi dan
   diakhiri hitung ulang penuh current_enrollment — tidak ada
   increment/decrement parsial.
========================================================= */

// Error aturan bisnis — controller memetakan ini ke HTTP 400.
var (
	ErrClassNotFound     = errors.New("kelas tidak ditemukan")
	ErrStudentNotFound   = errors.New("siswa tidak ditemukan")
	ErrTeacherNotFound   = errors.New("guru tidak ditemukan")
	ErrCapacityExceeded  = errors.New("kapasitas kelas sudah penuh")
	ErrAlreadyEnrolled   = errors.New("siswa sudah terdaftar di sebuah kelas, pindahkan lewat pembaruan data siswa")
	ErrNotEnrolled       = errors.New("siswa tidak terdaftar di kelas ini")
	ErrAlreadyAssigned   = errors.New("guru sudah ditugaskan di kelas ini")
	ErrNotAssigned       = errors.New("guru tidak ditugaskan di kelas ini")
	ErrClassNotEmpty     = errors.New("kelas masih memiliki siswa")
	ErrTeacherHasClasses = errors.New("guru masih mengampu kelas")
)

// guardStudentUnenrolled menolak pendaftaran siswa yang sudah punya
// kelas — kelas mana pun. Perpindahan kelas lewat jalur update siswa.
func guardStudentUnenrolled(currentClassID *uuid.UUID) error {
	if currentClassID != nil {
		return ErrAlreadyEnrolled
	}
	return nil
}

// guardClassEmpty menolak penghapusan kelas yang masih punya anggota,
// apa pun status siswanya (status nonaktif tidak melepas class_id).
func guardClassEmpty(memberCount int64) error {
	if memberCount > 0 {
		return ErrClassNotEmpty
	}
	return nil
}

// RecountEnrollment menghitung ulang current_enrollment dari
// data siswa aktif. Dipanggil di akhir setiap mutasi keanggotaan.
func RecountEnrollment(tx *gorm.DB, classID uuid.UUID) error {
	var count int64
	if err := tx.Model(&studentmodel.StudentModel{}).
		Where("class_id = ? AND status = ?", classID, studentmodel.StudentActive).
		Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&classmodel.ClassModel{}).
		Where("id = ?", classID).
		Update("current_enrollment", count).Error
}

// lockClass mengambil baris kelas dengan FOR UPDATE supaya dua
// pendaftaran bersamaan tidak sama-sama lolos cek kapasitas.
func lockClass(tx *gorm.DB, classID uuid.UUID) (*classmodel.ClassModel, error) {
	var class classmodel.ClassModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&class, "id = ?", classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return &class, nil
}

// EnsureClassHasSpace mengunci kelas dan memastikan masih ada kursi.
// Dipakai juga oleh pembuatan/pemindahan siswa di luar paket ini.
func EnsureClassHasSpace(tx *gorm.DB, classID uuid.UUID) error {
	class, err := lockClass(tx, classID)
	if err != nil {
		return err
	}

	var count int64
	if err := tx.Model(&studentmodel.StudentModel{}).
		Where("class_id = ? AND status = ?", classID, studentmodel.StudentActive).
		Count(&count).Error; err != nil {
		return err
	}
	if count >= int64(class.Capacity) {
		return ErrCapacityExceeded
	}
	return nil
}

// AddStudentToClass mendaftarkan siswa ke kelas.
func AddStudentToClass(db *gorm.DB, classID, studentID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var student studentmodel.StudentModel
		if err := tx.First(&student, "id = ?", studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}

		if err := guardStudentUnenrolled(student.ClassID); err != nil {
			return err
		}

		if err := EnsureClassHasSpace(tx, classID); err != nil {
			return err
		}

		if err := tx.Model(&student).Update("class_id", classID).Error; err != nil {
			return err
		}
		return RecountEnrollment(tx, classID)
	})
}

// RemoveStudentFromClass mengeluarkan siswa dari kelas.
func RemoveStudentFromClass(db *gorm.DB, classID, studentID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var student studentmodel.StudentModel
		if err := tx.First(&student, "id = ?", studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}

		if student.ClassID == nil || *student.ClassID != classID {
			return ErrNotEnrolled
		}

		if err := tx.Model(&student).Update("class_id", nil).Error; err != nil {
			return err
		}
		return RecountEnrollment(tx, classID)
	})
}

// AssignTeacherToClass menambah baris join guru↔kelas.
func AssignTeacherToClass(db *gorm.DB, classID, teacherID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockClass(tx, classID); err != nil {
			return err
		}

		var teacherCount int64
		if err := tx.Table("teachers").
			Where("id = ? AND deleted_at IS NULL", teacherID).
			Count(&teacherCount).Error; err != nil {
			return err
		}
		if teacherCount == 0 {
			return ErrTeacherNotFound
		}

		var existing int64
		if err := tx.Model(&classmodel.ClassTeacherModel{}).
			Where("class_id = ? AND teacher_id = ?", classID, teacherID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyAssigned
		}

		return tx.Create(&classmodel.ClassTeacherModel{
			ClassID:   classID,
			TeacherID: teacherID,
		}).Error
	})
}

// UnassignTeacherFromClass menghapus baris join guru↔kelas.
func UnassignTeacherFromClass(db *gorm.DB, classID, teacherID uuid.UUID) error {
	result := db.Where("class_id = ? AND teacher_id = ?", classID, teacherID).
		Delete(&classmodel.ClassTeacherModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotAssigned
	}
	return nil
}

// DeleteClass menghapus kelas kosong beserta baris join-nya.
func DeleteClass(db *gorm.DB, classID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockClass(tx, classID); err != nil {
			return err
		}

		// Semua anggota dihitung, bukan hanya yang aktif — siswa
		// nonaktif masih memegang class_id.
		var count int64
		if err := tx.Model(&studentmodel.StudentModel{}).
			Where("class_id = ?", classID).
			Count(&count).Error; err != nil {
			return err
		}
		if err := guardClassEmpty(count); err != nil {
			return err
		}

		if err := tx.Where("class_id = ?", classID).
			Delete(&classmodel.ClassTeacherModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&classmodel.ClassModel{}, "id = ?", classID).Error
	})
}

// GuardTeacherDeletable menolak penghapusan guru yang masih mengampu kelas.
func GuardTeacherDeletable(db *gorm.DB, teacherID uuid.UUID) error {
	var count int64
	if err := db.Model(&classmodel.ClassTeacherModel{}).
		Where("teacher_id = ?", teacherID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrTeacherHasClasses
	}
	return nil
}

// ReconcileAllEnrollments menyamakan seluruh current_enrollment
// dengan keanggotaan sesungguhnya dalam satu pass.
func ReconcileAllEnrollments(db *gorm.DB) (int64, error) {
	result := db.Exec(`
		UPDATE classes c
		SET current_enrollment = sub.cnt
		FROM (
			SELECT c2.id,
			       COALESCE(COUNT(s.id) FILTER (WHERE s.status = 'active' AND s.deleted_at IS NULL), 0) AS cnt
			FROM classes c2
			LEFT JOIN students s ON s.class_id = c2.id
			WHERE c2.deleted_at IS NULL
			GROUP BY c2.id
		) sub
		WHERE c.id = sub.id AND c.current_enrollment <> sub.cnt
	`)
	return result.RowsAffected, result.Error
}
