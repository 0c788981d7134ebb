package controller

import (
	"testing"

	"github.com/google/uuid"

	"paudku_backend/internals/constants"
	"paudku_backend/internals/features/users/user/model"
)

func TestCanDeleteUser(t *testing.T) {
	me := uuid.New()
	other := uuid.New()

	tests := []struct {
		name    string
		target  model.UserModel
		wantErr bool
	}{
		{"hapus akun sendiri ditolak", model.UserModel{ID: me, Role: constants.RoleAdmin}, true},
		{"hapus akun sendiri non-admin juga ditolak", model.UserModel{ID: me, Role: constants.RoleTeacher}, true},
		{"hapus admin lain ditolak", model.UserModel{ID: other, Role: constants.RoleAdmin}, true},
		{"hapus teacher lain boleh", model.UserModel{ID: other, Role: constants.RoleTeacher}, false},
		{"hapus parent lain boleh", model.UserModel{ID: other, Role: constants.RoleParent}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := canDeleteUser(me, &tt.target)
			if (err != nil) != tt.wantErr {
				t.Errorf("canDeleteUser = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
