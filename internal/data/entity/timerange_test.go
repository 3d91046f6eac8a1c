package entity

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 1, 10, hour, minute, 0, 0, time.UTC)
}

func TestTimeRangeOverlaps(t *testing.T) {
	base := TimeRange{Start: at(18, 0), End: at(20, 0)}

	tests := []struct {
		name  string
		other TimeRange
		want  bool
	}{
		{"inside", TimeRange{at(18, 30), at(19, 0)}, true},
		{"straddles start", TimeRange{at(17, 0), at(18, 30)}, true},
		{"straddles end", TimeRange{at(19, 0), at(21, 0)}, true},
		{"covers", TimeRange{at(17, 0), at(21, 0)}, true},
		{"identical", TimeRange{at(18, 0), at(20, 0)}, true},
		{"adjacent after", TimeRange{at(20, 0), at(22, 0)}, false},
		{"adjacent before", TimeRange{at(16, 0), at(18, 0)}, false},
		{"disjoint", TimeRange{at(21, 0), at(22, 0)}, false},
		{"zero width inside", InstantRange(at(19, 0)), true},
		{"zero width at start", InstantRange(at(18, 0)), false},
		{"zero width at end", InstantRange(at(20, 0)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Fatalf("Overlaps(%s, %s) = %v, want %v", base, tt.other, got, tt.want)
			}
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Fatalf("overlap is not symmetric for %s", tt.other)
			}
		})
	}
}

func TestZeroWidthRangesNeverOverlapEachOther(t *testing.T) {
	a := InstantRange(at(19, 0))
	if a.Overlaps(a) {
		t.Fatal("two zero-width ranges at the same instant must not overlap")
	}
}

func TestNewTimeRangeRejectsInverted(t *testing.T) {
	if _, err := NewTimeRange(at(20, 0), at(18, 0)); err == nil {
		t.Fatal("expected error for end before start")
	}
	r, err := NewTimeRange(at(18, 0), at(18, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.IsZeroWidth() {
		t.Fatal("expected zero-width range")
	}
}
