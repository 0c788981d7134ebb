package authscope

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanViewNotification(t *testing.T) {
	me := uuid.New()
	other := uuid.New()

	tests := []struct {
		name   string
		role   string
		author uuid.UUID
		rec    RecipientsView
		want   bool
	}{
		{"admin selalu boleh", "admin", other, RecipientsView{Type: "individual", UserIDs: []string{other.String()}}, true},
		{"role tidak dikenal ditolak", "superuser", other, RecipientsView{Type: "all"}, false},
		{"target all untuk parent", "parent", other, RecipientsView{Type: "all"}, true},
		{"target role cocok", "parent", other, RecipientsView{Type: "role", Roles: []string{"parent"}}, true},
		{"target role tidak cocok", "parent", other, RecipientsView{Type: "role", Roles: []string{"teacher"}}, false},
		{"target individual cocok", "parent", other, RecipientsView{Type: "individual", UserIDs: []string{me.String()}}, true},
		{"target individual tidak cocok", "parent", other, RecipientsView{Type: "individual", UserIDs: []string{other.String()}}, false},
		{"teacher melihat notifikasi sendiri", "teacher", me, RecipientsView{Type: "individual", UserIDs: []string{other.String()}}, true},
		{"teacher bukan penulis, bukan target", "teacher", other, RecipientsView{Type: "individual", UserIDs: []string{other.String()}}, false},
		{"parent tidak ikut aturan penulis", "parent", me, RecipientsView{Type: "individual", UserIDs: []string{other.String()}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanViewNotification(tt.role, me, tt.author, tt.rec)
			if got != tt.want {
				t.Errorf("CanViewNotification(%s) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}
