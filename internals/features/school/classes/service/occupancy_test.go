package service

import "testing"

func TestOccupancyBucket(t *testing.T) {
	tests := []struct {
		name       string
		capacity   int
		enrollment int
		want       string
	}{
		{"kelas kosong", 20, 0, OccupancyLow},
		{"di bawah 50 persen", 20, 9, OccupancyLow},
		{"tepat 50 persen", 20, 10, OccupancyMedium},
		{"di bawah 80 persen", 20, 15, OccupancyMedium},
		{"tepat 80 persen", 20, 16, OccupancyHigh},
		{"di bawah 100 persen", 20, 19, OccupancyHigh},
		{"tepat penuh", 20, 20, OccupancyFull},
		{"over-enrolled tetap full", 20, 25, OccupancyFull},
		{"kapasitas satu kosong", 1, 0, OccupancyLow},
		{"kapasitas satu terisi", 1, 1, OccupancyFull},
		{"kapasitas nol dianggap full", 0, 0, OccupancyFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OccupancyBucket(tt.capacity, tt.enrollment)
			if got != tt.want {
				t.Errorf("OccupancyBucket(%d, %d) = %q, want %q",
					tt.capacity, tt.enrollment, got, tt.want)
			}
		})
	}
}
