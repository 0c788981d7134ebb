package authscope

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"paudku_backend/internals/constants"
)

/* =========================================================
   Pembatas query per-role.
   Semua fungsi di sini murni membangun kondisi *gorm.DB —
   tidak pernah mengeksekusi query sendiri.
========================================================= */

// ScopeStudents membatasi query tabel students sesuai role pemanggil.
// Parent hanya melihat siswa yang terhubung via student_parents.
func ScopeStudents(db *gorm.DB, role string, userID uuid.UUID) *gorm.DB {
	switch role {
	case constants.RoleAdmin, constants.RoleTeacher:
		return db
	case constants.RoleParent:
		containment := fmt.Sprintf(`[{"user_id": %q}]`, userID.String())
		return db.Where("student_parents @> ?::jsonb", containment)
	default:
		return db.Where("1 = 0")
	}
}

// ScopePayments membatasi query tabel payments.
// Teacher tidak punya akses finance sama sekali.
func ScopePayments(db *gorm.DB, role string, userID uuid.UUID) *gorm.DB {
	switch role {
	case constants.RoleAdmin:
		return db
	case constants.RoleParent:
		containment := fmt.Sprintf(`[{"user_id": %q}]`, userID.String())
		return db.Where(
			"student_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Table("students").
				Select("id").
				Where("student_parents @> ?::jsonb", containment),
		)
	default:
		return db.Where("1 = 0")
	}
}

// ScopeNotifications membatasi query tabel notifications.
// Non-admin melihat: target semua, target role-nya, target individual
// dirinya, atau notifikasi yang ia tulis sendiri (teacher).
func ScopeNotifications(db *gorm.DB, role string, userID uuid.UUID) *gorm.DB {
	switch role {
	case constants.RoleAdmin:
		return db
	case constants.RoleTeacher:
		return db.Where(
			`recipients @> '{"type":"all"}'::jsonb
			 OR (recipients->>'type' = 'role' AND recipients->'roles' @> to_jsonb(?::text))
			 OR (recipients->>'type' = 'individual' AND recipients->'user_ids' @> to_jsonb(?::text))
			 OR author_id = ?`,
			role, userID.String(), userID,
		)
	case constants.RoleParent:
		return db.Where(
			`recipients @> '{"type":"all"}'::jsonb
			 OR (recipients->>'type' = 'role' AND recipients->'roles' @> to_jsonb(?::text))
			 OR (recipients->>'type' = 'individual' AND recipients->'user_ids' @> to_jsonb(?::text))`,
			role, userID.String(),
		)
	default:
		return db.Where("1 = 0")
	}
}

/* =========================================================
   Keputusan akses murni — dipakai handler detail
   supaya logika visibilitas bisa diuji tanpa DB.
========================================================= */

// RecipientsView adalah bentuk recipients yang sudah di-decode
// dari JSONB untuk pengecekan akses per-dokumen.
type RecipientsView struct {
	Type    string   `json:"type"` // all | role | class | individual
	Roles   []string `json:"roles,omitempty"`
	UserIDs []string `json:"user_ids,omitempty"`
}

// CanViewNotification memutuskan apakah user boleh membaca satu notifikasi.
func CanViewNotification(role string, userID uuid.UUID, authorID uuid.UUID, rec RecipientsView) bool {
	if role == constants.RoleAdmin {
		return true
	}
	if !constants.IsKnownRole(role) {
		return false
	}
	if role == constants.RoleTeacher && authorID == userID {
		return true
	}
	switch rec.Type {
	case "all":
		return true
	case "role":
		for _, r := range rec.Roles {
			if r == role {
				return true
			}
		}
	case "individual":
		for _, id := range rec.UserIDs {
			if id == userID.String() {
				return true
			}
		}
	}
	return false
}
