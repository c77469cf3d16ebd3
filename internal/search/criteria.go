// Package search filters the approved car catalog against renter criteria,
// including availability for a requested range of dates.
package search

import (
	"math"
	"sort"
	"strings"

	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	"github.com/nekogravitycat/car-rental-backend/internal/listing"
)

// Criteria is the set of filters a renter applies to the catalog.
type Criteria struct {
	Location   string             // case-insensitive substring, empty matches all
	Categories []listing.Category // OR semantics, empty matches all
	MinPrice   float64            // inclusive
	MaxPrice   float64            // inclusive, +Inf when unbounded
	Dates      *booking.DateRange // nil disables the availability filter
}

// DefaultCriteria matches every approved listing.
func DefaultCriteria() Criteria {
	return Criteria{MinPrice: 0, MaxPrice: math.Inf(1)}
}

// Normalize returns the canonical form of c: trimmed location, known
// categories deduplicated in catalog order, prices made finite where a NaN
// or negative bound would otherwise leak in, dates truncated to calendar days.
func (c Criteria) Normalize() Criteria {
	out := Criteria{
		Location: strings.TrimSpace(c.Location),
		MinPrice: c.MinPrice,
		MaxPrice: c.MaxPrice,
	}

	if len(c.Categories) > 0 {
		seen := make(map[listing.Category]bool, len(c.Categories))
		for _, cat := range c.Categories {
			if cat.Rank() < 0 || seen[cat] {
				continue
			}
			seen[cat] = true
			out.Categories = append(out.Categories, cat)
		}
		sort.Slice(out.Categories, func(i, j int) bool {
			return out.Categories[i].Rank() < out.Categories[j].Rank()
		})
	}

	if math.IsNaN(out.MinPrice) || math.IsInf(out.MinPrice, 0) || out.MinPrice < 0 {
		out.MinPrice = 0
	}
	if math.IsNaN(out.MaxPrice) || math.IsInf(out.MaxPrice, -1) {
		out.MaxPrice = math.Inf(1)
	}

	if c.Dates != nil {
		dr := booking.NewDateRange(c.Dates.Start, c.Dates.End)
		out.Dates = &dr
	}
	return out
}

// WithoutDates returns a copy of c with the availability filter disabled.
func (c Criteria) WithoutDates() Criteria {
	c.Dates = nil
	return c
}

// IsDefault reports whether c filters nothing out.
func (c Criteria) IsDefault() bool {
	return c.Location == "" && len(c.Categories) == 0 &&
		c.MinPrice == 0 && math.IsInf(c.MaxPrice, 1) && c.Dates == nil
}

// Equal compares two criteria field by field.
func (c Criteria) Equal(o Criteria) bool {
	if c.Location != o.Location || c.MinPrice != o.MinPrice || c.MaxPrice != o.MaxPrice {
		return false
	}
	if len(c.Categories) != len(o.Categories) {
		return false
	}
	for i := range c.Categories {
		if c.Categories[i] != o.Categories[i] {
			return false
		}
	}
	switch {
	case c.Dates == nil && o.Dates == nil:
		return true
	case c.Dates == nil || o.Dates == nil:
		return false
	}
	return c.Dates.Equal(*o.Dates)
}
