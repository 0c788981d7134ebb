package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status siswa
const (
	StudentActive      = "active"
	StudentInactive    = "inactive"
	StudentGraduated   = "graduated"
	StudentTransferred = "transferred"
)

type StudentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudentID string    `gorm:"type:varchar(20);unique;not null" json:"student_id"`

	FullName    string    `gorm:"type:varchar(100);not null" json:"full_name"`
	NickName    string    `gorm:"type:varchar(50)" json:"nick_name,omitempty"`
	Gender      string    `gorm:"type:varchar(10);not null" json:"gender"` // male | female
	DateOfBirth time.Time `gorm:"not null" json:"date_of_birth"`

	// Data profil tambahan (alamat, foto, agama, dll)
	Profile datatypes.JSON `gorm:"type:jsonb" json:"profile,omitempty"`

	// Daftar {user_id, relationship, is_primary} — user_id merujuk users.role=parent
	Parents datatypes.JSON `gorm:"column:student_parents;type:jsonb;not null;default:'[]'" json:"parents"`

	ClassID        *uuid.UUID `gorm:"type:uuid;index" json:"class_id,omitempty"`
	Grade          string     `gorm:"type:varchar(20);not null" json:"grade"`
	EnrollmentDate time.Time  `gorm:"not null" json:"enrollment_date"`

	HealthInfo datatypes.JSON `gorm:"type:jsonb" json:"health_info,omitempty"`

	Status string `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	// Daftar {date, content, author_id, type} — append-only dari endpoint notes
	Notes datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"notes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (StudentModel) TableName() string {
	return "students"
}
