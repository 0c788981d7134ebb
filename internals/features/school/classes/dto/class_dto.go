package dto

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"paudku_backend/internals/features/school/classes/model"
)

/* =========================================================
   REQUEST DTO
========================================================= */

type CreateClassRequest struct {
	Name         string          `json:"name" validate:"required,min=2,max=50"`
	Grade        string          `json:"grade" validate:"required,max=20"`
	Capacity     int             `json:"capacity" validate:"required,min=1,max=50"`
	AcademicYear string          `json:"academic_year" validate:"required,len=9"` // YYYY-YYYY
	Semester     string          `json:"semester" validate:"required,oneof=spring fall"`
	Classroom    json.RawMessage `json:"classroom"`
	Schedule     json.RawMessage `json:"schedule"`
}

type UpdateClassRequest struct {
	Name      *string         `json:"name" validate:"omitempty,min=2,max=50"`
	Grade     *string         `json:"grade" validate:"omitempty,max=20"`
	Capacity  *int            `json:"capacity" validate:"omitempty,min=1,max=50"`
	Classroom json.RawMessage `json:"classroom"`
	Schedule  json.RawMessage `json:"schedule"`
	Status    *string         `json:"status" validate:"omitempty,oneof=active inactive"`
}

type MembershipRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
}

type AssignTeacherRequest struct {
	TeacherID string `json:"teacher_id" validate:"required,uuid"`
}

/* =========================================================
   RESPONSE DTO
========================================================= */

type ClassTeacherView struct {
	TeacherID  string    `json:"teacher_id"`
	FullName   string    `json:"full_name"`
	Position   string    `json:"position"`
	AssignedAt time.Time `json:"assigned_at"`
}

type ClassResponse struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Grade             string             `json:"grade"`
	Capacity          int                `json:"capacity"`
	CurrentEnrollment int                `json:"current_enrollment"`
	AvailableSeats    int                `json:"available_seats"`
	AcademicYear      string             `json:"academic_year"`
	Semester          string             `json:"semester"`
	Classroom         json.RawMessage    `json:"classroom,omitempty"`
	Schedule          json.RawMessage    `json:"schedule,omitempty"`
	Status            string             `json:"status"`
	Teachers          []ClassTeacherView `json:"teachers,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

/* =========================================================
   KONVERSI
========================================================= */

func (r *CreateClassRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Grade = strings.TrimSpace(r.Grade)
	r.AcademicYear = strings.TrimSpace(r.AcademicYear)
}

func (r *CreateClassRequest) ToModel() *model.ClassModel {
	m := &model.ClassModel{
		Name:         r.Name,
		Grade:        r.Grade,
		Capacity:     r.Capacity,
		AcademicYear: r.AcademicYear,
		Semester:     r.Semester,
		Status:       "active",
	}
	if len(r.Classroom) > 0 {
		m.Classroom = datatypes.JSON(r.Classroom)
	}
	if len(r.Schedule) > 0 {
		m.Schedule = datatypes.JSON(r.Schedule)
	}
	return m
}

func (r *UpdateClassRequest) ApplyToModel(m *model.ClassModel) {
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
	}
	if r.Grade != nil {
		m.Grade = *r.Grade
	}
	if r.Capacity != nil {
		m.Capacity = *r.Capacity
	}
	if len(r.Classroom) > 0 {
		m.Classroom = datatypes.JSON(r.Classroom)
	}
	if len(r.Schedule) > 0 {
		m.Schedule = datatypes.JSON(r.Schedule)
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
}

func ToClassResponse(m *model.ClassModel, teachers []ClassTeacherView) ClassResponse {
	seats := m.Capacity - m.CurrentEnrollment
	if seats < 0 {
		seats = 0
	}
	return ClassResponse{
		ID:                m.ID.String(),
		Name:              m.Name,
		Grade:             m.Grade,
		Capacity:          m.Capacity,
		CurrentEnrollment: m.CurrentEnrollment,
		AvailableSeats:    seats,
		AcademicYear:      m.AcademicYear,
		Semester:          m.Semester,
		Classroom:         json.RawMessage(m.Classroom),
		Schedule:          json.RawMessage(m.Schedule),
		Status:            m.Status,
		Teachers:          teachers,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func ToClassResponses(list []model.ClassModel) []ClassResponse {
	out := make([]ClassResponse, 0, len(list))
	for i := range list {
		out = append(out, ToClassResponse(&list[i], nil))
	}
	return out
}
