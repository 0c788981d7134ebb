package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"

	"paudku_backend/internals/features/school/teachers/model"
)

/* =========================================================
   REQUEST DTO
========================================================= */

type CreateTeacherRequest struct {
	EmployeeID       string          `json:"employee_id" validate:"required,max=20"`
	FullName         string          `json:"full_name" validate:"required,min=2,max=100"`
	Gender           string          `json:"gender" validate:"required,oneof=male female"`
	DateOfBirth      time.Time       `json:"date_of_birth" validate:"required"`
	Phone            string          `json:"phone" validate:"omitempty,max=20"`
	Email            string          `json:"email" validate:"omitempty,email,max=255"`
	Position         string          `json:"position" validate:"required,max=50"`
	Department       string          `json:"department" validate:"omitempty,max=50"`
	HireDate         time.Time       `json:"hire_date" validate:"required"`
	Salary           float64         `json:"salary" validate:"min=0"`
	Education        json.RawMessage `json:"education"`
	Certificates     json.RawMessage `json:"certificates"`
	Subjects         []string        `json:"subjects"`
	Status           string          `json:"status" validate:"omitempty,oneof=active leave resigned retired"`
	EmergencyContact json.RawMessage `json:"emergency_contact"`
}

type UpdateTeacherRequest struct {
	FullName         *string         `json:"full_name" validate:"omitempty,min=2,max=100"`
	Gender           *string         `json:"gender" validate:"omitempty,oneof=male female"`
	DateOfBirth      *time.Time      `json:"date_of_birth"`
	Phone            *string         `json:"phone" validate:"omitempty,max=20"`
	Email            *string         `json:"email" validate:"omitempty,email,max=255"`
	Position         *string         `json:"position" validate:"omitempty,max=50"`
	Department       *string         `json:"department" validate:"omitempty,max=50"`
	HireDate         *time.Time      `json:"hire_date"`
	Salary           *float64        `json:"salary" validate:"omitempty,min=0"`
	Education        json.RawMessage `json:"education"`
	Certificates     json.RawMessage `json:"certificates"`
	Subjects         []string        `json:"subjects"`
	Status           *string         `json:"status" validate:"omitempty,oneof=active leave resigned retired"`
	EmergencyContact json.RawMessage `json:"emergency_contact"`
}

type AssignClassRequest struct {
	ClassID string `json:"class_id" validate:"required,uuid"`
}

/* =========================================================
   RESPONSE DTO
========================================================= */

type AssignedClassView struct {
	ClassID      string    `json:"class_id"`
	Name         string    `json:"name"`
	Grade        string    `json:"grade"`
	AcademicYear string    `json:"academic_year"`
	AssignedAt   time.Time `json:"assigned_at"`
}

type TeacherResponse struct {
	ID               string              `json:"id"`
	EmployeeID       string              `json:"employee_id"`
	FullName         string              `json:"full_name"`
	Gender           string              `json:"gender"`
	DateOfBirth      time.Time           `json:"date_of_birth"`
	Phone            string              `json:"phone,omitempty"`
	Email            string              `json:"email,omitempty"`
	Position         string              `json:"position"`
	Department       string              `json:"department,omitempty"`
	HireDate         time.Time           `json:"hire_date"`
	Salary           float64             `json:"salary"`
	Education        json.RawMessage     `json:"education,omitempty"`
	Certificates     json.RawMessage     `json:"certificates,omitempty"`
	Subjects         []string            `json:"subjects"`
	Status           string              `json:"status"`
	EmergencyContact json.RawMessage     `json:"emergency_contact,omitempty"`
	AssignedClasses  []AssignedClassView `json:"assigned_classes,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

/* =========================================================
   KONVERSI
========================================================= */

func (r *CreateTeacherRequest) Normalize() {
	r.EmployeeID = strings.ToUpper(strings.TrimSpace(r.EmployeeID))
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Status == "" {
		r.Status = model.TeacherActive
	}
}

func (r *CreateTeacherRequest) ToModel() *model.TeacherModel {
	m := &model.TeacherModel{
		EmployeeID:  r.EmployeeID,
		FullName:    r.FullName,
		Gender:      r.Gender,
		DateOfBirth: r.DateOfBirth,
		Phone:       r.Phone,
		Email:       r.Email,
		Position:    r.Position,
		Department:  r.Department,
		HireDate:    r.HireDate,
		Salary:      r.Salary,
		Subjects:    pq.StringArray(r.Subjects),
		Status:      r.Status,
	}
	if len(r.Education) > 0 {
		m.Education = datatypes.JSON(r.Education)
	}
	if len(r.Certificates) > 0 {
		m.Certificates = datatypes.JSON(r.Certificates)
	} else {
		m.Certificates = datatypes.JSON([]byte("[]"))
	}
	if len(r.EmergencyContact) > 0 {
		m.EmergencyContact = datatypes.JSON(r.EmergencyContact)
	}
	return m
}

func (r *UpdateTeacherRequest) ApplyToModel(m *model.TeacherModel) {
	if r.FullName != nil {
		m.FullName = strings.TrimSpace(*r.FullName)
	}
	if r.Gender != nil {
		m.Gender = *r.Gender
	}
	if r.DateOfBirth != nil {
		m.DateOfBirth = *r.DateOfBirth
	}
	if r.Phone != nil {
		m.Phone = *r.Phone
	}
	if r.Email != nil {
		m.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Position != nil {
		m.Position = *r.Position
	}
	if r.Department != nil {
		m.Department = *r.Department
	}
	if r.HireDate != nil {
		m.HireDate = *r.HireDate
	}
	if r.Salary != nil {
		m.Salary = *r.Salary
	}
	if len(r.Education) > 0 {
		m.Education = datatypes.JSON(r.Education)
	}
	if len(r.Certificates) > 0 {
		m.Certificates = datatypes.JSON(r.Certificates)
	}
	if r.Subjects != nil {
		m.Subjects = pq.StringArray(r.Subjects)
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
	if len(r.EmergencyContact) > 0 {
		m.EmergencyContact = datatypes.JSON(r.EmergencyContact)
	}
}

func ToTeacherResponse(m *model.TeacherModel, classes []AssignedClassView) TeacherResponse {
	subjects := []string(m.Subjects)
	if subjects == nil {
		subjects = []string{}
	}
	return TeacherResponse{
		ID:               m.ID.String(),
		EmployeeID:       m.EmployeeID,
		FullName:         m.FullName,
		Gender:           m.Gender,
		DateOfBirth:      m.DateOfBirth,
		Phone:            m.Phone,
		Email:            m.Email,
		Position:         m.Position,
		Department:       m.Department,
		HireDate:         m.HireDate,
		Salary:           m.Salary,
		Education:        json.RawMessage(m.Education),
		Certificates:     json.RawMessage(m.Certificates),
		Subjects:         subjects,
		Status:           m.Status,
		EmergencyContact: json.RawMessage(m.EmergencyContact),
		AssignedClasses:  classes,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func ToTeacherResponses(list []model.TeacherModel) []TeacherResponse {
	out := make([]TeacherResponse, 0, len(list))
	for i := range list {
		out = append(out, ToTeacherResponse(&list[i], nil))
	}
	return out
}

/* =========================================================
   STATISTIK
========================================================= */

// AgeBucket mengelompokkan umur guru untuk statistik kepegawaian.
func AgeBucket(age int) string {
	switch {
	case age < 25:
		return "<25"
	case age < 35:
		return "25-35"
	case age < 45:
		return "35-45"
	case age < 55:
		return "45-55"
	default:
		return ">=55"
	}
}
