package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ClassModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_class_name_period" json:"name"`

	Grade    string `gorm:"type:varchar(20);not null" json:"grade"`
	Capacity int    `gorm:"not null" json:"capacity"` // 1..50

	// Diturunkan dari students.class_id — selalu hasil hitung ulang penuh,
	// tidak pernah increment/decrement.
	CurrentEnrollment int `gorm:"not null;default:0" json:"current_enrollment"`

	AcademicYear string `gorm:"type:varchar(9);not null;uniqueIndex:idx_class_name_period" json:"academic_year"`
	Semester     string `gorm:"type:varchar(10);not null;uniqueIndex:idx_class_name_period" json:"semester"`

	Classroom datatypes.JSON `gorm:"type:jsonb" json:"classroom,omitempty"`
	Schedule  datatypes.JSON `gorm:"type:jsonb" json:"schedule,omitempty"`

	Status string `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ClassModel) TableName() string {
	return "classes"
}

// ClassTeacherModel adalah satu-satunya sumber relasi guru↔kelas.
// Kedua arah (guru di kelas, kelas yang diampu guru) dibaca dari sini.
type ClassTeacherModel struct {
	ClassID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"class_id"`
	TeacherID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"teacher_id"`
	AssignedAt time.Time `gorm:"not null;default:now()" json:"assigned_at"`
}

func (ClassTeacherModel) TableName() string {
	return "class_teachers"
}
