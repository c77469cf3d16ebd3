package search

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	"github.com/nekogravitycat/car-rental-backend/internal/listing"
)

func car(id, location string, cat listing.Category, price float64) *listing.Listing {
	return &listing.Listing{
		ID:          id,
		Title:       id,
		Location:    location,
		Category:    cat,
		PricePerDay: price,
		Status:      listing.StatusApproved,
	}
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dates(start, end string) *booking.DateRange {
	dr := booking.NewDateRange(day(start), day(end))
	return &dr
}

func testCatalog() []*listing.Listing {
	return []*listing.Listing{
		car("a", "San Francisco, CA", listing.CategorySedan, 45),
		car("b", "Los Angeles, CA", listing.CategorySUV, 80),
		car("c", "san diego", listing.CategorySportsCar, 150),
		car("d", "", listing.CategoryElectric, 60),
		car("e", "Seattle, WA", listing.CategoryTruck, 100),
	}
}

func ids(listings []*listing.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}

func TestMatches(t *testing.T) {
	l := car("x", "San Francisco, CA", listing.CategorySedan, 45)

	tests := []struct {
		name  string
		c     Criteria
		avail Availability
		want  bool
	}{
		{"Default criteria", DefaultCriteria(), nil, true},
		{"Location substring, different case", Criteria{Location: "FRANCISCO", MaxPrice: math.Inf(1)}, nil, true},
		{"Location not contained", Criteria{Location: "Oakland", MaxPrice: math.Inf(1)}, nil, false},
		{"Category in set", Criteria{Categories: []listing.Category{listing.CategorySUV, listing.CategorySedan}, MaxPrice: math.Inf(1)}, nil, true},
		{"Category not in set", Criteria{Categories: []listing.Category{listing.CategoryVan}, MaxPrice: math.Inf(1)}, nil, false},
		{"Price on lower bound", Criteria{MinPrice: 45, MaxPrice: 100}, nil, true},
		{"Price on upper bound", Criteria{MinPrice: 0, MaxPrice: 45}, nil, true},
		{"Price below range", Criteria{MinPrice: 45.01, MaxPrice: 100}, nil, false},
		{"Price above range", Criteria{MinPrice: 0, MaxPrice: 44.99}, nil, false},
		{"Min above max matches nothing", Criteria{MinPrice: 100, MaxPrice: 10}, nil, false},
		{"Dates set and listing available", Criteria{MaxPrice: math.Inf(1), Dates: dates("2024-06-01", "2024-06-03")}, NewAvailability("x"), true},
		{"Dates set and listing not available", Criteria{MaxPrice: math.Inf(1), Dates: dates("2024-06-01", "2024-06-03")}, NewAvailability("y"), false},
		{"Dates unset ignores availability", DefaultCriteria(), NewAvailability(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Matches(l, tt.c, tt.avail)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Matches(l, tt.c, tt.avail), "re-evaluation must agree")
		})
	}
}

func TestFilter(t *testing.T) {
	catalog := testCatalog()

	t.Run("Default criteria returns the whole catalog in order", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids(Filter(catalog, DefaultCriteria(), nil)))
	})

	t.Run("Every returned listing passes each predicate", func(t *testing.T) {
		c := Criteria{
			Location:   "ca",
			Categories: []listing.Category{listing.CategorySedan, listing.CategorySUV},
			MinPrice:   50,
			MaxPrice:   100,
		}
		got := Filter(catalog, c, nil)
		assert.Equal(t, []string{"b"}, ids(got))
		for _, l := range got {
			assert.True(t, matchLocation(l, c))
			assert.True(t, matchCategory(l, c))
			assert.True(t, matchPrice(l, c))
		}
	})

	t.Run("Empty location never excludes a listing without location", func(t *testing.T) {
		got := Filter(catalog, Criteria{Categories: []listing.Category{listing.CategoryElectric}, MaxPrice: math.Inf(1)}, nil)
		assert.Equal(t, []string{"d"}, ids(got))
	})

	t.Run("Location filter excludes listing without location", func(t *testing.T) {
		got := Filter(catalog, Criteria{Location: "san", MaxPrice: math.Inf(1)}, nil)
		assert.Equal(t, []string{"a", "c"}, ids(got))
	})

	t.Run("Availability set restricts results when dates are set", func(t *testing.T) {
		c := Criteria{MaxPrice: math.Inf(1), Dates: dates("2024-06-10", "2024-06-15")}
		got := Filter(catalog, c, NewAvailability("e", "a"))
		assert.Equal(t, []string{"a", "e"}, ids(got))
	})

	t.Run("Empty catalog", func(t *testing.T) {
		assert.Empty(t, Filter(nil, DefaultCriteria(), nil))
	})
}

func TestCriteriaNormalize(t *testing.T) {
	t.Run("Categories are deduplicated, unknown dropped, canonical order", func(t *testing.T) {
		c := Criteria{Categories: []listing.Category{
			listing.CategoryTruck, "Spaceship", listing.CategorySedan, listing.CategoryTruck,
		}}.Normalize()
		assert.Equal(t, []listing.Category{listing.CategorySedan, listing.CategoryTruck}, c.Categories)
	})

	t.Run("Invalid prices fall back to defaults", func(t *testing.T) {
		c := Criteria{MinPrice: -5, MaxPrice: math.NaN()}.Normalize()
		assert.Equal(t, 0.0, c.MinPrice)
		assert.True(t, math.IsInf(c.MaxPrice, 1))
	})

	t.Run("Min above max is kept as is", func(t *testing.T) {
		c := Criteria{MinPrice: 200, MaxPrice: 100}.Normalize()
		assert.Equal(t, 200.0, c.MinPrice)
		assert.Equal(t, 100.0, c.MaxPrice)
	})

	t.Run("Dates lose their time of day", func(t *testing.T) {
		dr := booking.DateRange{
			Start: time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC),
			End:   time.Date(2024, 6, 12, 1, 0, 0, 0, time.UTC),
		}
		c := Criteria{MaxPrice: math.Inf(1), Dates: &dr}.Normalize()
		assert.Equal(t, day("2024-06-10"), c.Dates.Start)
		assert.Equal(t, day("2024-06-12"), c.Dates.End)
		assert.Equal(t, 15, dr.Start.Hour(), "input must not be mutated")
	})

	t.Run("Default criteria are default", func(t *testing.T) {
		assert.True(t, DefaultCriteria().IsDefault())
		assert.True(t, Criteria{Location: "  ", MaxPrice: math.Inf(1)}.Normalize().IsDefault())
		assert.False(t, Criteria{MinPrice: 1, MaxPrice: math.Inf(1)}.IsDefault())
	})
}
