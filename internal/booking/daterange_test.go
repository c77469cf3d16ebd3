package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	dr, err := ParseDateRange(start, end)
	require.NoError(t, err)
	return dr
}

func TestDateRange_Overlaps(t *testing.T) {
	booked := mustRange(t, "2024-06-10", "2024-06-15")

	tests := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"Partial overlap at the end", mustRange(t, "2024-06-12", "2024-06-20"), true},
		{"Partial overlap at the start", mustRange(t, "2024-06-05", "2024-06-10"), true},
		{"Same last day", mustRange(t, "2024-06-15", "2024-06-15"), true},
		{"Identical", mustRange(t, "2024-06-10", "2024-06-15"), true},
		{"Inside", mustRange(t, "2024-06-11", "2024-06-13"), true},
		{"Around", mustRange(t, "2024-06-01", "2024-06-30"), true},
		{"Starts the day after", mustRange(t, "2024-06-16", "2024-06-20"), false},
		{"Ends the day before", mustRange(t, "2024-06-01", "2024-06-09"), false},
		{"A month earlier", mustRange(t, "2024-05-01", "2024-05-05"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booked.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(booked), "overlap must be symmetric")
		})
	}
}

func TestDateRange(t *testing.T) {
	t.Run("Parse rejects malformed dates", func(t *testing.T) {
		_, err := ParseDateRange("2024-06-10", "June 12")
		assert.Error(t, err)
		_, err = ParseDateRange("", "2024-06-10")
		assert.Error(t, err)
	})

	t.Run("Parse keeps an inverted range", func(t *testing.T) {
		dr := mustRange(t, "2024-06-15", "2024-06-10")
		assert.False(t, dr.Valid())
		assert.Zero(t, dr.Days())
	})

	t.Run("Days is inclusive", func(t *testing.T) {
		assert.Equal(t, 1, mustRange(t, "2024-06-10", "2024-06-10").Days())
		assert.Equal(t, 6, mustRange(t, "2024-06-10", "2024-06-15").Days())
		assert.Equal(t, 3, mustRange(t, "2024-02-28", "2024-03-01").Days())
	})

	t.Run("NewDateRange drops the time of day", func(t *testing.T) {
		dr := NewDateRange(
			time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC),
			time.Date(2024, 6, 11, 0, 1, 0, 0, time.UTC),
		)
		assert.Equal(t, "2024-06-10..2024-06-11", dr.String())
		assert.Equal(t, 2, dr.Days())
	})
}
