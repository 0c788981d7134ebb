package dto

import (
	"strings"
	"time"

	"paudku_backend/internals/features/users/user/model"
)

/* =========================================================
   REQUEST DTO
========================================================= */

type CreateUserRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	FullName string `json:"full_name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin teacher parent"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

type UpdateUserRequest struct {
	UserName *string `json:"user_name" validate:"omitempty,min=3,max=50"`
	FullName *string `json:"full_name" validate:"omitempty,min=3,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin teacher parent"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

/* =========================================================
   RESPONSE DTO
========================================================= */

type UserResponse struct {
	ID        string     `json:"id"`
	UserName  string     `json:"user_name"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Phone     string     `json:"phone,omitempty"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

/* =========================================================
   KONVERSI
========================================================= */

func (r *CreateUserRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
}

func (r *CreateUserRequest) ToModel() *model.UserModel {
	return &model.UserModel{
		UserName: r.UserName,
		FullName: r.FullName,
		Email:    r.Email,
		Password: r.Password, // di-hash di controller
		Role:     r.Role,
		Phone:    r.Phone,
		IsActive: true,
	}
}

func (r *UpdateUserRequest) Normalize() {
	if r.UserName != nil {
		v := strings.TrimSpace(*r.UserName)
		r.UserName = &v
	}
	if r.FullName != nil {
		v := strings.TrimSpace(*r.FullName)
		r.FullName = &v
	}
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
	if r.Phone != nil {
		v := strings.TrimSpace(*r.Phone)
		r.Phone = &v
	}
}

// ApplyToModel hanya menimpa field yang dikirim.
func (r *UpdateUserRequest) ApplyToModel(m *model.UserModel) {
	if r.UserName != nil {
		m.UserName = *r.UserName
	}
	if r.FullName != nil {
		m.FullName = *r.FullName
	}
	if r.Email != nil {
		m.Email = *r.Email
	}
	if r.Role != nil {
		m.Role = *r.Role
	}
	if r.Phone != nil {
		m.Phone = *r.Phone
	}
}

func ToUserResponse(m *model.UserModel) UserResponse {
	return UserResponse{
		ID:        m.ID.String(),
		UserName:  m.UserName,
		FullName:  m.FullName,
		Email:     m.Email,
		Role:      m.Role,
		Phone:     m.Phone,
		IsActive:  m.IsActive,
		LastLogin: m.LastLogin,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToUserResponses(list []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, ToUserResponse(&list[i]))
	}
	return out
}
