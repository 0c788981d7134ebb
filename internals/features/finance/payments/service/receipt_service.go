package service

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"time"
)

const receiptCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ReceiptPattern memvalidasi nomor kuitansi: RCP{yyyy}{mm}{6 alfanumerik}.
var ReceiptPattern = regexp.MustCompile(`^RCP\d{6}[A-Z0-9]{6}$`)

// GenerateReceiptNumber membuat nomor kuitansi baru untuk bulan berjalan.
func GenerateReceiptNumber(at time.Time) (string, error) {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	for i := range suffix {
		suffix[i] = receiptCharset[int(suffix[i])%len(receiptCharset)]
	}
	return fmt.Sprintf("RCP%04d%02d%s", at.Year(), int(at.Month()), suffix), nil
}
