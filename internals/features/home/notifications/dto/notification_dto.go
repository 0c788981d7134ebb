package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"paudku_backend/internals/features/home/notifications/model"
	authscope "paudku_backend/internals/helpers/auth"
)

/* =========================================================
   RECIPIENTS (tagged union)
========================================================= */

type Recipients struct {
	Type     string   `json:"type" validate:"required,oneof=all role class individual"`
	Roles    []string `json:"roles,omitempty"`
	ClassIDs []string `json:"class_ids,omitempty"`
	UserIDs  []string `json:"user_ids,omitempty"`
}

// Validate memastikan varian yang dipilih membawa daftar targetnya.
func (r *Recipients) Validate() error {
	switch r.Type {
	case "all":
		return nil
	case "role":
		if len(r.Roles) == 0 {
			return errors.New("recipients.roles wajib diisi untuk target role")
		}
	case "class":
		if len(r.ClassIDs) == 0 {
			return errors.New("recipients.class_ids wajib diisi untuk target class")
		}
	case "individual":
		if len(r.UserIDs) == 0 {
			return errors.New("recipients.user_ids wajib diisi untuk target individual")
		}
	default:
		return errors.New("recipients.type tidak dikenal")
	}
	return nil
}

/* =========================================================
   REQUEST DTO
========================================================= */

type CreateNotificationRequest struct {
	Title       string     `json:"title" validate:"required,max=100"`
	Content     string     `json:"content" validate:"required,max=2000"`
	Type        string     `json:"type" validate:"omitempty,oneof=general urgent event academic health payment"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	Recipients  Recipients `json:"recipients" validate:"required"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft published"`
	PublishDate *time.Time `json:"publish_date"`
	ExpiryDate  *time.Time `json:"expiry_date"`
}

type UpdateNotificationRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=100"`
	Content     *string    `json:"content" validate:"omitempty,max=2000"`
	Type        *string    `json:"type" validate:"omitempty,oneof=general urgent event academic health payment"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      *string    `json:"status" validate:"omitempty,oneof=draft published"`
	PublishDate *time.Time `json:"publish_date"`
	ExpiryDate  *time.Time `json:"expiry_date"`
}

/* =========================================================
   RESPONSE DTO
========================================================= */

type NotificationResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Type        string     `json:"type"`
	Priority    string     `json:"priority"`
	AuthorID    string     `json:"author_id"`
	Recipients  Recipients `json:"recipients"`
	Status      string     `json:"status"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	IsRead      bool       `json:"is_read"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

/* =========================================================
   KONVERSI
========================================================= */

func (r *CreateNotificationRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	if r.Type == "" {
		r.Type = "general"
	}
	if r.Priority == "" {
		r.Priority = "medium"
	}
	if r.Status == "" {
		r.Status = model.NotificationDraft
	}
}

func DecodeRecipients(raw []byte) Recipients {
	var rec Recipients
	_ = json.Unmarshal(raw, &rec)
	return rec
}

// ToRecipientsView mengubah recipients tersimpan ke bentuk yang
// dipakai pengecekan akses (varian class sudah tidak ada di storage).
func ToRecipientsView(rec Recipients) authscope.RecipientsView {
	return authscope.RecipientsView{
		Type:    rec.Type,
		Roles:   rec.Roles,
		UserIDs: rec.UserIDs,
	}
}

func ToNotificationResponse(m *model.NotificationModel, isRead bool) NotificationResponse {
	return NotificationResponse{
		ID:          m.ID.String(),
		Title:       m.Title,
		Content:     m.Content,
		Type:        m.Type,
		Priority:    m.Priority,
		AuthorID:    m.AuthorID.String(),
		Recipients:  DecodeRecipients(m.Recipients),
		Status:      m.Status,
		PublishDate: m.PublishDate,
		ExpiryDate:  m.ExpiryDate,
		IsRead:      isRead,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
