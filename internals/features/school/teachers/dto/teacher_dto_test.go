package dto

import "testing"

func TestAgeBucket(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{22, "<25"},
		{24, "<25"},
		{25, "25-35"},
		{34, "25-35"},
		{35, "35-45"},
		{44, "35-45"},
		{45, "45-55"},
		{54, "45-55"},
		{55, ">=55"},
		{63, ">=55"},
	}

	for _, tt := range tests {
		got := AgeBucket(tt.age)
		if got != tt.want {
			t.Errorf("AgeBucket(%d) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestCreateTeacherRequestNormalize(t *testing.T) {
	req := CreateTeacherRequest{
		EmployeeID: " emp01 ",
		FullName:   " Siti Aminah ",
		Email:      " Siti@Example.COM ",
	}
	req.Normalize()

	if req.EmployeeID != "EMP01" {
		t.Errorf("EmployeeID = %q, want EMP01", req.EmployeeID)
	}
	if req.Email != "siti@example.com" {
		t.Errorf("Email = %q", req.Email)
	}
	if req.Status != "active" {
		t.Errorf("Status default = %q, want active", req.Status)
	}
}
