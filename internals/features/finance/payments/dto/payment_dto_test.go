package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

// Transisi ke paid harus lewat endpoint pembayaran (kuitansi dibuat di
// sana) — jalur update biasa tidak boleh menerimanya.
func TestUpdatePaymentRequestRejectsPaidStatus(t *testing.T) {
	validate := validator.New()

	paid := "paid"
	req := UpdatePaymentRequest{Status: &paid}
	if err := validate.Struct(req); err == nil {
		t.Fatal("status=paid lolos validasi jalur update, seharusnya ditolak")
	}

	for _, allowed := range []string{"pending", "overdue", "cancelled", "refunded"} {
		s := allowed
		req := UpdatePaymentRequest{Status: &s}
		if err := validate.Struct(req); err != nil {
			t.Errorf("status=%s ditolak padahal sah untuk jalur update: %v", allowed, err)
		}
	}
}

func TestCreatePaymentRequestNormalizeDefaultsCurrency(t *testing.T) {
	req := CreatePaymentRequest{Description: "  SPP Maret  "}
	req.Normalize()

	if req.Currency != "IDR" {
		t.Errorf("Currency default = %q, want IDR", req.Currency)
	}
	if req.Description != "SPP Maret" {
		t.Errorf("Description = %q", req.Description)
	}
}
