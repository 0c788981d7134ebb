package helper

import "testing"

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name      string
		paging    Paging
		total     int64
		wantPages int
	}{
		{"habis dibagi", Paging{Page: 1, Limit: 10}, 30, 3},
		{"ada sisa", Paging{Page: 2, Limit: 10}, 31, 4},
		{"kosong tetap satu halaman", Paging{Page: 1, Limit: 10}, 0, 1},
		{"satu item", Paging{Page: 1, Limit: 10}, 1, 1},
		{"tepat satu halaman", Paging{Page: 1, Limit: 25}, 25, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPagination(tt.paging, tt.total)
			if got.Pages != tt.wantPages {
				t.Errorf("Pages = %d, want %d", got.Pages, tt.wantPages)
			}
			if got.Page != tt.paging.Page || got.Limit != tt.paging.Limit {
				t.Errorf("Page/Limit tidak diteruskan: %+v", got)
			}
			if got.Total != tt.total {
				t.Errorf("Total = %d, want %d", got.Total, tt.total)
			}
		})
	}
}

func TestStatusToErrorCode(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{400, "BAD_REQUEST"},
		{401, "UNAUTHORIZED"},
		{403, "FORBIDDEN"},
		{404, "NOT_FOUND"},
		{409, "CONFLICT"},
		{422, "VALIDATION_ERROR"},
		{500, "INTERNAL_ERROR"},
		{502, "INTERNAL_ERROR"},
		{418, "ERROR"},
	}

	for _, tt := range tests {
		got := statusToErrorCode(tt.status)
		if got != tt.want {
			t.Errorf("statusToErrorCode(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
