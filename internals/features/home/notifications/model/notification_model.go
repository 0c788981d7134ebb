package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status notifikasi
const (
	NotificationDraft     = "draft"
	NotificationPublished = "published"
)

type NotificationModel struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`

	Title   string `gorm:"type:varchar(100);not null" json:"title"`
	Content string `gorm:"type:varchar(2000);not null" json:"content"`

	// general | urgent | event | academic | health | payment
	Type string `gorm:"type:varchar(20);not null;default:'general'" json:"type"`
	// low | medium | high
	Priority string `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`

	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`

	// Tagged union {type: all|role|individual, roles?, user_ids?}.
	// Target class diekspansi ke individual saat pembuatan.
	Recipients datatypes.JSON `gorm:"type:jsonb;not null" json:"recipients"`

	Status      string     `gorm:"type:varchar(10);not null;default:'draft'" json:"status"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// NotificationReadModel mencatat pembacaan — append-only.
type NotificationReadModel struct {
	NotificationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"notification_id"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ReadAt         time.Time `gorm:"not null;default:now()" json:"read_at"`
}

func (NotificationReadModel) TableName() string {
	return "notification_reads"
}
