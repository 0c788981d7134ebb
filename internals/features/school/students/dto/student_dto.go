package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"paudku_backend/internals/features/school/students/model"
)

/* =========================================================
   BENTUK JSONB
========================================================= */

// ParentLink adalah satu entri di kolom student_parents.
type ParentLink struct {
	UserID       string `json:"user_id" validate:"required,uuid"`
	Relationship string `json:"relationship" validate:"required,oneof=father mother guardian"`
	IsPrimary    bool   `json:"is_primary"`
}

// StudentNote adalah satu entri catatan perkembangan siswa.
type StudentNote struct {
	Date     time.Time `json:"date"`
	Content  string    `json:"content"`
	AuthorID string    `json:"author_id"`
	Type     string    `json:"type"` // academic | behavior | health | general
}

/* =========================================================
   REQUEST DTO
========================================================= */

type CreateStudentRequest struct {
	StudentID      string          `json:"student_id" validate:"required,max=20"`
	FullName       string          `json:"full_name" validate:"required,min=2,max=100"`
	NickName       string          `json:"nick_name" validate:"omitempty,max=50"`
	Gender         string          `json:"gender" validate:"required,oneof=male female"`
	DateOfBirth    time.Time       `json:"date_of_birth" validate:"required"`
	Profile        json.RawMessage `json:"profile"`
	Parents        []ParentLink    `json:"parents" validate:"required,min=1,dive"`
	ClassID        *uuid.UUID      `json:"class_id"`
	Grade          string          `json:"grade" validate:"required,max=20"`
	EnrollmentDate time.Time       `json:"enrollment_date" validate:"required"`
	HealthInfo     json.RawMessage `json:"health_info"`
	Status         string          `json:"status" validate:"omitempty,oneof=active inactive graduated transferred"`
}

type UpdateStudentRequest struct {
	FullName    *string         `json:"full_name" validate:"omitempty,min=2,max=100"`
	NickName    *string         `json:"nick_name" validate:"omitempty,max=50"`
	Gender      *string         `json:"gender" validate:"omitempty,oneof=male female"`
	DateOfBirth *time.Time      `json:"date_of_birth"`
	Profile     json.RawMessage `json:"profile"`
	Parents     []ParentLink    `json:"parents" validate:"omitempty,min=1,dive"`
	ClassID     *uuid.UUID      `json:"class_id"`
	Grade       *string         `json:"grade" validate:"omitempty,max=20"`
	HealthInfo  json.RawMessage `json:"health_info"`
	Status      *string         `json:"status" validate:"omitempty,oneof=active inactive graduated transferred"`
}

type AddNoteRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
	Type    string `json:"type" validate:"required,oneof=academic behavior health general"`
}

/* =========================================================
   RESPONSE DTO
========================================================= */

type StudentResponse struct {
	ID             string          `json:"id"`
	StudentID      string          `json:"student_id"`
	FullName       string          `json:"full_name"`
	NickName       string          `json:"nick_name,omitempty"`
	Gender         string          `json:"gender"`
	DateOfBirth    time.Time       `json:"date_of_birth"`
	Age            int             `json:"age"`
	Profile        json.RawMessage `json:"profile,omitempty"`
	Parents        []ParentLink    `json:"parents"`
	ClassID        *uuid.UUID      `json:"class_id,omitempty"`
	Grade          string          `json:"grade"`
	EnrollmentDate time.Time       `json:"enrollment_date"`
	HealthInfo     json.RawMessage `json:"health_info,omitempty"`
	Status         string          `json:"status"`
	Notes          []StudentNote   `json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

/* =========================================================
   KONVERSI
========================================================= */

func (r *CreateStudentRequest) Normalize() {
	r.StudentID = strings.ToUpper(strings.TrimSpace(r.StudentID))
	r.FullName = strings.TrimSpace(r.FullName)
	r.NickName = strings.TrimSpace(r.NickName)
	if r.Status == "" {
		r.Status = model.StudentActive
	}
}

func (r *CreateStudentRequest) ToModel() (*model.StudentModel, error) {
	parentsJSON, err := json.Marshal(r.Parents)
	if err != nil {
		return nil, err
	}

	m := &model.StudentModel{
		StudentID:      r.StudentID,
		FullName:       r.FullName,
		NickName:       r.NickName,
		Gender:         r.Gender,
		DateOfBirth:    r.DateOfBirth,
		Parents:        datatypes.JSON(parentsJSON),
		ClassID:        r.ClassID,
		Grade:          r.Grade,
		EnrollmentDate: r.EnrollmentDate,
		Status:         r.Status,
		Notes:          datatypes.JSON([]byte("[]")),
	}
	if len(r.Profile) > 0 {
		m.Profile = datatypes.JSON(r.Profile)
	}
	if len(r.HealthInfo) > 0 {
		m.HealthInfo = datatypes.JSON(r.HealthInfo)
	}
	return m, nil
}

func (r *UpdateStudentRequest) Normalize() {
	if r.FullName != nil {
		v := strings.TrimSpace(*r.FullName)
		r.FullName = &v
	}
	if r.NickName != nil {
		v := strings.TrimSpace(*r.NickName)
		r.NickName = &v
	}
}

// ApplyToModel menimpa field yang dikirim. class_id sengaja TIDAK
// disentuh di sini — perpindahan kelas lewat jalur penjaga kapasitas.
func (r *UpdateStudentRequest) ApplyToModel(m *model.StudentModel) error {
	if r.FullName != nil {
		m.FullName = *r.FullName
	}
	if r.NickName != nil {
		m.NickName = *r.NickName
	}
	if r.Gender != nil {
		m.Gender = *r.Gender
	}
	if r.DateOfBirth != nil {
		m.DateOfBirth = *r.DateOfBirth
	}
	if len(r.Profile) > 0 {
		m.Profile = datatypes.JSON(r.Profile)
	}
	if r.Parents != nil {
		parentsJSON, err := json.Marshal(r.Parents)
		if err != nil {
			return err
		}
		m.Parents = datatypes.JSON(parentsJSON)
	}
	if r.Grade != nil {
		m.Grade = *r.Grade
	}
	if len(r.HealthInfo) > 0 {
		m.HealthInfo = datatypes.JSON(r.HealthInfo)
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
	return nil
}

// AgeAt menghitung umur penuh dalam tahun pada tanggal tertentu.
func AgeAt(birth, at time.Time) int {
	age := at.Year() - birth.Year()
	if at.Month() < birth.Month() ||
		(at.Month() == birth.Month() && at.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func ToStudentResponse(m *model.StudentModel) StudentResponse {
	var parents []ParentLink
	_ = json.Unmarshal(m.Parents, &parents)
	if parents == nil {
		parents = []ParentLink{}
	}

	var notes []StudentNote
	_ = json.Unmarshal(m.Notes, &notes)
	if notes == nil {
		notes = []StudentNote{}
	}

	return StudentResponse{
		ID:             m.ID.String(),
		StudentID:      m.StudentID,
		FullName:       m.FullName,
		NickName:       m.NickName,
		Gender:         m.Gender,
		DateOfBirth:    m.DateOfBirth,
		Age:            AgeAt(m.DateOfBirth, time.Now()),
		Profile:        json.RawMessage(m.Profile),
		Parents:        parents,
		ClassID:        m.ClassID,
		Grade:          m.Grade,
		EnrollmentDate: m.EnrollmentDate,
		HealthInfo:     json.RawMessage(m.HealthInfo),
		Status:         m.Status,
		Notes:          notes,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func ToStudentResponses(list []model.StudentModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(list))
	for i := range list {
		out = append(out, ToStudentResponse(&list[i]))
	}
	return out
}
