package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status kepegawaian guru
const (
	TeacherActive   = "active"
	TeacherLeave    = "leave"
	TeacherResigned = "resigned"
	TeacherRetired  = "retired"
)

type TeacherModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID string    `gorm:"type:varchar(20);unique;not null" json:"employee_id"`

	FullName    string    `gorm:"type:varchar(100);not null" json:"full_name"`
	Gender      string    `gorm:"type:varchar(10);not null" json:"gender"`
	DateOfBirth time.Time `gorm:"not null" json:"date_of_birth"`
	Phone       string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Email       string    `gorm:"type:varchar(255)" json:"email,omitempty"`

	Position   string `gorm:"type:varchar(50);not null" json:"position"`
	Department string `gorm:"type:varchar(50)" json:"department,omitempty"`

	HireDate time.Time `gorm:"not null" json:"hire_date"`
	Salary   float64   `gorm:"not null;default:0" json:"salary"` // >= 0

	Education    datatypes.JSON `gorm:"type:jsonb" json:"education,omitempty"`
	Certificates datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"certificates"`

	Subjects pq.StringArray `gorm:"type:text[]" json:"subjects"`

	Status string `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	EmergencyContact datatypes.JSON `gorm:"type:jsonb" json:"emergency_contact,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TeacherModel) TableName() string {
	return "teachers"
}
