package entity

import (
	"fmt"
	"time"
)

// TimeRange is the half-open interval [Start, End). Adjacent ranges share a
// boundary without overlapping.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if end.Before(start) {
		return TimeRange{}, fmt.Errorf("range end %s is before start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return TimeRange{Start: start, End: end}, nil
}

// InstantRange is the zero-width window used when only a single instant is known.
func InstantRange(t time.Time) TimeRange {
	return TimeRange{Start: t, End: t}
}

// Overlaps implements s1 < e2 AND s2 < e1.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

func (r TimeRange) IsZeroWidth() bool {
	return r.Start.Equal(r.End)
}

func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}
