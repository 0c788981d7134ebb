package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status tagihan
const (
	PaymentPending   = "pending"
	PaymentPaid      = "paid"
	PaymentOverdue   = "overdue"
	PaymentCancelled = "cancelled"
	PaymentRefunded  = "refunded"
)

type PaymentModel struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	StudentID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"student_id"`
	PayerUserID *uuid.UUID `gorm:"type:uuid;index" json:"payer_user_id,omitempty"`

	// tuition | meal | activity | material | transportation | other
	Type        string  `gorm:"type:varchar(20);not null" json:"type"`
	Description string  `gorm:"type:varchar(200);not null" json:"description"`
	Amount      float64 `gorm:"not null" json:"amount"` // >= 0
	Currency    string  `gorm:"type:varchar(5);not null;default:'IDR'" json:"currency"`

	DueDate time.Time `gorm:"not null" json:"due_date"`
	Status  string    `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`

	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	PaymentMethod string     `gorm:"type:varchar(30)" json:"payment_method,omitempty"`
	TransactionID string     `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`

	// {number, url} — number unik, dibuat sekali saat pending→paid
	Receipt datatypes.JSON `gorm:"type:jsonb" json:"receipt,omitempty"`

	AcademicYear string `gorm:"type:varchar(9);not null" json:"academic_year"`
	Semester     string `gorm:"type:varchar(10);not null" json:"semester"`

	Notes       string         `gorm:"type:varchar(500)" json:"notes,omitempty"`
	ProcessedBy *uuid.UUID     `gorm:"type:uuid" json:"processed_by,omitempty"`
	Refund      datatypes.JSON `gorm:"type:jsonb" json:"refund,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PaymentModel) TableName() string {
	return "payments"
}
