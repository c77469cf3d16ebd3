package booking

import (
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/datex"
)

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange truncates both ends to calendar dates.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: datex.Truncate(start), End: datex.Truncate(end)}
}

// ParseDateRange parses two YYYY-MM-DD dates. It does not check ordering.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := datex.Parse(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := datex.Parse(end)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: s, End: e}, nil
}

// Valid reports whether the range is non-empty (start on or before end).
func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// Overlaps is the single overlap test used everywhere availability is decided:
// two closed ranges overlap when each starts on or before the other ends.
// A range ending on the 15th and one starting on the 16th do not overlap.
// The SQL in pgxRepository.HasConflict mirrors this exactly.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// Days is the number of calendar days covered, 0 for an invalid range.
func (r DateRange) Days() int {
	if !r.Valid() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) Equal(o DateRange) bool {
	return r.Start.Equal(o.Start) && r.End.Equal(o.End)
}

func (r DateRange) String() string {
	return datex.Format(r.Start) + ".." + datex.Format(r.End)
}
