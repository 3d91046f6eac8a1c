package utils

import "testing"

func TestCalculateTotalPages(t *testing.T) {
	tests := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 15, 0},
		{1, 15, 1},
		{15, 15, 1},
		{16, 15, 2},
		{100, 0, 0},
	}

	for _, tt := range tests {
		if got := CalculateTotalPages(tt.total, tt.perPage); got != tt.want {
			t.Errorf("CalculateTotalPages(%d, %d) = %d, want %d", tt.total, tt.perPage, got, tt.want)
		}
	}
}

func TestCalculateOffset(t *testing.T) {
	tests := []struct {
		page, perPage, want int
	}{
		{1, 15, 0},
		{3, 10, 20},
		{0, 10, 0},
		{-2, 10, 0},
	}

	for _, tt := range tests {
		if got := CalculateOffset(tt.page, tt.perPage); got != tt.want {
			t.Errorf("CalculateOffset(%d, %d) = %d, want %d", tt.page, tt.perPage, got, tt.want)
		}
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 7},
		{"3", 3},
		{"abc", 7},
		{"0", 7},
		{"-4", 7},
	}

	for _, tt := range tests {
		if got := ParseInt(tt.value, 7); got != tt.want {
			t.Errorf("ParseInt(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}
