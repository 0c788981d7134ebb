package service

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateReceiptNumber(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	number, err := GenerateReceiptNumber(at)
	if err != nil {
		t.Fatalf("GenerateReceiptNumber: %v", err)
	}

	if !strings.HasPrefix(number, "RCP202603") {
		t.Errorf("prefix = %q, want RCP202603...", number)
	}
	if len(number) != 15 {
		t.Errorf("panjang = %d, want 15 (%q)", len(number), number)
	}
	if !ReceiptPattern.MatchString(number) {
		t.Errorf("nomor %q tidak cocok pola %s", number, ReceiptPattern)
	}
}

func TestGenerateReceiptNumberUnique(t *testing.T) {
	at := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number, err := GenerateReceiptNumber(at)
		if err != nil {
			t.Fatalf("GenerateReceiptNumber: %v", err)
		}
		if seen[number] {
			t.Fatalf("nomor duplikat dalam 100 percobaan: %q", number)
		}
		seen[number] = true
	}
}

func TestReceiptPatternRejects(t *testing.T) {
	bad := []string{
		"RCP202603ABCDE",   // suffix 5 karakter
		"RCP20263ABCDEF",   // tahun-bulan kurang digit
		"rcp202603ABCDEF",  // huruf kecil
		"RCP202603abcdef",  // suffix huruf kecil
		"RCP202603ABCDEFG", // terlalu panjang
		"XXX202603ABCDEF",  // prefix salah
	}
	for _, s := range bad {
		if ReceiptPattern.MatchString(s) {
			t.Errorf("pola seharusnya menolak %q", s)
		}
	}
}
