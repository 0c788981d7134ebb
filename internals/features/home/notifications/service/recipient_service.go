package service

import (
	"gorm.io/gorm"

	"paudku_backend/internals/features/home/notifications/dto"
)

// ExpandClassRecipients mengubah target class menjadi daftar user_id
// orang tua siswa aktif di kelas tersebut. Ekspansi terjadi SEKALI di
// sini — perpindahan siswa setelahnya tidak mengubah target notifikasi.
func ExpandClassRecipients(db *gorm.DB, rec dto.Recipients) (dto.Recipients, error) {
	if rec.Type != "class" {
		return rec, nil
	}

	var userIDs []string
	err := db.Raw(`
		SELECT DISTINCT p->>'user_id'
		FROM students s,
		     jsonb_array_elements(s.student_parents) p
		WHERE s.class_id IN ?
		  AND s.status = 'active'
		  AND s.deleted_at IS NULL
	`, rec.ClassIDs).Scan(&userIDs).Error
	if err != nil {
		return rec, err
	}
	if userIDs == nil {
		userIDs = []string{}
	}

	return dto.Recipients{
		Type:    "individual",
		UserIDs: userIDs,
	}, nil
}
