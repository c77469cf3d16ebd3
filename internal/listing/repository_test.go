package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestFromRow(t *testing.T) {
	valid := func() row {
		return row{
			ID:       "l1",
			OwnerID:  "o1",
			Title:    strPtr(" Tesla Model 3 "),
			Location: strPtr("Palo Alto, CA"),
			Category: strPtr("electric"),
			Price:    floatPtr(89.5),
			Status:   strPtr("approved"),
		}
	}

	t.Run("Valid row is normalized", func(t *testing.T) {
		l, err := fromRow(valid())
		require.NoError(t, err)
		assert.Equal(t, "Tesla Model 3", l.Title)
		assert.Equal(t, CategoryElectric, l.Category)
		assert.Equal(t, 89.5, l.PricePerDay)
		assert.Equal(t, StatusApproved, l.Status)
	})

	t.Run("Missing location becomes empty", func(t *testing.T) {
		r := valid()
		r.Location = nil
		l, err := fromRow(r)
		require.NoError(t, err)
		assert.Equal(t, "", l.Location)
	})

	t.Run("Missing status defaults to pending", func(t *testing.T) {
		r := valid()
		r.Status = nil
		l, err := fromRow(r)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, l.Status)
	})

	rejected := []struct {
		name   string
		mutate func(*row)
	}{
		{"Missing category", func(r *row) { r.Category = nil }},
		{"Unknown category", func(r *row) { r.Category = strPtr("Hovercraft") }},
		{"Missing price", func(r *row) { r.Price = nil }},
		{"Negative price", func(r *row) { r.Price = floatPtr(-1) }},
		{"Unknown status", func(r *row) { r.Status = strPtr("archived") }},
	}
	for _, tc := range rejected {
		t.Run("Rejected: "+tc.name, func(t *testing.T) {
			r := valid()
			tc.mutate(&r)
			_, err := fromRow(r)
			assert.ErrorIs(t, err, errMalformedRow)
		})
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, ok := ParseCategory(string(c))
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}

	got, ok := ParseCategory("  sports car ")
	assert.True(t, ok)
	assert.Equal(t, CategorySportsCar, got)

	_, ok = ParseCategory("Boat")
	assert.False(t, ok)
	assert.Equal(t, -1, Category("Boat").Rank())
}
