package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestGuardStudentUnenrolled(t *testing.T) {
	if err := guardStudentUnenrolled(nil); err != nil {
		t.Errorf("siswa tanpa kelas seharusnya boleh didaftarkan: %v", err)
	}

	// Siswa yang sudah punya kelas — kelas mana pun — ditolak,
	// bukan dipindahkan diam-diam.
	other := uuid.New()
	if err := guardStudentUnenrolled(&other); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("siswa dengan kelas lain: err = %v, want ErrAlreadyEnrolled", err)
	}
}

func TestGuardClassEmpty(t *testing.T) {
	if err := guardClassEmpty(0); err != nil {
		t.Errorf("kelas kosong seharusnya bisa dihapus: %v", err)
	}

	// Satu anggota saja sudah memblokir — termasuk siswa nonaktif,
	// karena class_id mereka tidak dilepas oleh perubahan status.
	if err := guardClassEmpty(1); !errors.Is(err, ErrClassNotEmpty) {
		t.Errorf("kelas beranggota: err = %v, want ErrClassNotEmpty", err)
	}
	if err := guardClassEmpty(7); !errors.Is(err, ErrClassNotEmpty) {
		t.Errorf("kelas beranggota banyak: err = %v, want ErrClassNotEmpty", err)
	}
}
