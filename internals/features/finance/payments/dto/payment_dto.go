package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"paudku_backend/internals/features/finance/payments/model"
)

/* =========================================================
   BENTUK JSONB
========================================================= */

type Receipt struct {
	Number string `json:"number"`
	URL    string `json:"url,omitempty"`
}

type Refund struct {
	Amount      float64   `json:"amount"`
	Reason      string    `json:"reason"`
	RefundedAt  time.Time `json:"refunded_at"`
	ProcessedBy string    `json:"processed_by"`
}

/* =========================================================
   REQUEST DTO
========================================================= */

type CreatePaymentRequest struct {
	StudentID    string     `json:"student_id" validate:"required,uuid"`
	Type         string     `json:"type" validate:"required,oneof=tuition meal activity material transportation other"`
	Description  string     `json:"description" validate:"required,max=200"`
	Amount       float64    `json:"amount" validate:"min=0"`
	Currency     string     `json:"currency" validate:"omitempty,len=3"`
	DueDate      time.Time  `json:"due_date" validate:"required"`
	AcademicYear string     `json:"academic_year" validate:"required,len=9"`
	Semester     string     `json:"semester" validate:"required,oneof=spring fall"`
	Notes        string     `json:"notes" validate:"omitempty,max=500"`
}

type UpdatePaymentRequest struct {
	Type        *string    `json:"type" validate:"omitempty,oneof=tuition meal activity material transportation other"`
	Description *string    `json:"description" validate:"omitempty,max=200"`
	Amount      *float64   `json:"amount" validate:"omitempty,min=0"`
	DueDate     *time.Time `json:"due_date"`
	// Status paid sengaja tidak ada di sini — transisi ke paid hanya
	// lewat endpoint pembayaran supaya nomor kuitansi selalu dibuat.
	Status *string    `json:"status" validate:"omitempty,oneof=pending overdue cancelled refunded"`
	Notes  *string    `json:"notes" validate:"omitempty,max=500"`
}

type PayRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,max=30"`
	TransactionID string `json:"transaction_id" validate:"omitempty,max=100"`
}

type BatchCreateRequest struct {
	StudentIDs   []string  `json:"student_ids" validate:"required,min=1,dive,uuid"`
	Type         string    `json:"type" validate:"required,oneof=tuition meal activity material transportation other"`
	Description  string    `json:"description" validate:"required,max=200"`
	Amount       float64   `json:"amount" validate:"min=0"`
	DueDate      time.Time `json:"due_date" validate:"required"`
	AcademicYear string    `json:"academic_year" validate:"required,len=9"`
	Semester     string    `json:"semester" validate:"required,oneof=spring fall"`
}

/* =========================================================
   RESPONSE DTO
========================================================= */

type PaymentResponse struct {
	ID            string     `json:"id"`
	StudentID     string     `json:"student_id"`
	PayerUserID   *uuid.UUID `json:"payer_user_id,omitempty"`
	Type          string     `json:"type"`
	Description   string     `json:"description"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	DueDate       time.Time  `json:"due_date"`
	Status        string     `json:"status"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	Receipt       *Receipt   `json:"receipt,omitempty"`
	AcademicYear  string     `json:"academic_year"`
	Semester      string     `json:"semester"`
	Notes         string     `json:"notes,omitempty"`
	ProcessedBy   *uuid.UUID `json:"processed_by,omitempty"`
	Refund        *Refund    `json:"refund,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

/* =========================================================
   KONVERSI
========================================================= */

func (r *CreatePaymentRequest) Normalize() {
	r.Description = strings.TrimSpace(r.Description)
	if r.Currency == "" {
		r.Currency = "IDR"
	}
}

func (r *CreatePaymentRequest) ToModel() *model.PaymentModel {
	return &model.PaymentModel{
		StudentID:    uuid.MustParse(r.StudentID),
		Type:         r.Type,
		Description:  r.Description,
		Amount:       r.Amount,
		Currency:     r.Currency,
		DueDate:      r.DueDate,
		Status:       model.PaymentPending,
		AcademicYear: r.AcademicYear,
		Semester:     r.Semester,
		Notes:        r.Notes,
	}
}

func ToPaymentResponse(m *model.PaymentModel) PaymentResponse {
	resp := PaymentResponse{
		ID:            m.ID.String(),
		StudentID:     m.StudentID.String(),
		PayerUserID:   m.PayerUserID,
		Type:          m.Type,
		Description:   m.Description,
		Amount:        m.Amount,
		Currency:      m.Currency,
		DueDate:       m.DueDate,
		Status:        m.Status,
		PaymentDate:   m.PaymentDate,
		PaymentMethod: m.PaymentMethod,
		TransactionID: m.TransactionID,
		AcademicYear:  m.AcademicYear,
		Semester:      m.Semester,
		Notes:         m.Notes,
		ProcessedBy:   m.ProcessedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if len(m.Receipt) > 0 {
		var receipt Receipt
		if err := json.Unmarshal(m.Receipt, &receipt); err == nil && receipt.Number != "" {
			resp.Receipt = &receipt
		}
	}
	if len(m.Refund) > 0 {
		var refund Refund
		if err := json.Unmarshal(m.Refund, &refund); err == nil {
			resp.Refund = &refund
		}
	}
	return resp
}

func ToPaymentResponses(list []model.PaymentModel) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(list))
	for i := range list {
		out = append(out, ToPaymentResponse(&list[i]))
	}
	return out
}
