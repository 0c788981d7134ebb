package dto

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAgeAt(t *testing.T) {
	birth := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"sehari sebelum ulang tahun", time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), 4},
		{"tepat ulang tahun", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 5},
		{"sehari setelah ulang tahun", time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), 5},
		{"bulan sebelumnya", time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), 4},
		{"tanggal sebelum lahir", time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AgeAt(birth, tt.at)
			if got != tt.want {
				t.Errorf("AgeAt(%v) = %d, want %d", tt.at, got, tt.want)
			}
		})
	}
}

func TestCreateStudentRequestNormalize(t *testing.T) {
	req := CreateStudentRequest{
		StudentID: "  stu001  ",
		FullName:  "  Budi Santoso ",
		NickName:  " Budi ",
	}
	req.Normalize()

	if req.StudentID != "STU001" {
		t.Errorf("StudentID = %q, want STU001", req.StudentID)
	}
	if req.FullName != "Budi Santoso" {
		t.Errorf("FullName = %q, want Budi Santoso", req.FullName)
	}
	if req.Status != "active" {
		t.Errorf("Status default = %q, want active", req.Status)
	}
}

func TestParentLinkRoundTrip(t *testing.T) {
	req := CreateStudentRequest{
		StudentID:      "STU001",
		FullName:       "Budi Santoso",
		Gender:         "male",
		DateOfBirth:    time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
		Grade:          "A",
		EnrollmentDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Status:         "active",
		Parents: []ParentLink{
			{UserID: "5e1a1c9e-0d8f-4f6a-9a7e-111111111111", Relationship: "father", IsPrimary: true},
			{UserID: "5e1a1c9e-0d8f-4f6a-9a7e-222222222222", Relationship: "mother", IsPrimary: false},
		},
	}

	m, err := req.ToModel()
	if err != nil {
		t.Fatalf("ToModel: %v", err)
	}

	var got []ParentLink
	if err := json.Unmarshal(m.Parents, &got); err != nil {
		t.Fatalf("unmarshal parents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("jumlah parent = %d, want 2", len(got))
	}
	if got[0].UserID != req.Parents[0].UserID || !got[0].IsPrimary {
		t.Errorf("parent pertama tidak utuh: %+v", got[0])
	}
	if got[1].Relationship != "mother" {
		t.Errorf("relationship = %q, want mother", got[1].Relationship)
	}

	resp := ToStudentResponse(m)
	if len(resp.Parents) != 2 {
		t.Fatalf("response parents = %d, want 2", len(resp.Parents))
	}
	if resp.Parents[1].UserID != req.Parents[1].UserID {
		t.Errorf("response parent kedua = %+v", resp.Parents[1])
	}
}
