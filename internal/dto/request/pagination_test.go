package request

import "testing"

func TestPaginatedRequestWindow(t *testing.T) {
	tests := []struct {
		name        string
		req         PaginatedRequest
		limit, skip int
	}{
		{"first page", PaginatedRequest{Page: 1, PerPage: 15}, 15, 0},
		{"third page", PaginatedRequest{Page: 3, PerPage: 10}, 10, 20},
		{"zero values", PaginatedRequest{}, 15, 0},
		{"per page clamped", PaginatedRequest{Page: 2, PerPage: 500}, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Limit(); got != tt.limit {
				t.Errorf("Limit = %d, want %d", got, tt.limit)
			}
			if got := tt.req.Offset(); got != tt.skip {
				t.Errorf("Offset = %d, want %d", got, tt.skip)
			}
		})
	}
}
