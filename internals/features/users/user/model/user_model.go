package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserName string    `gorm:"type:varchar(50);unique;not null" json:"user_name"`
	FullName string    `gorm:"type:varchar(100);not null" json:"full_name"`
	Email    string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password string    `gorm:"type:varchar(250);not null" json:"-"`

	// admin | teacher | parent
	Role  string `gorm:"type:varchar(20);not null;default:'parent'" json:"role"`
	Phone string `gorm:"type:varchar(20)" json:"phone,omitempty"`

	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserModel) TableName() string {
	return "users"
}
