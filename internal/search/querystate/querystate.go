// Package querystate converts search criteria to and from the flat query
// string a shareable search URL carries.
//
// Fields at their default value are left out entirely, so the default search
// encodes to an empty query.
package querystate

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	"github.com/nekogravitycat/car-rental-backend/internal/listing"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/datex"
	"github.com/nekogravitycat/car-rental-backend/internal/search"
)

const (
	KeyLocation  = "location"
	KeyTypes     = "types"
	KeyMinPrice  = "minPrice"
	KeyMaxPrice  = "maxPrice"
	KeyStartDate = "startDate"
	KeyEndDate   = "endDate"
)

// Keys lists every key the codec reads or writes.
var Keys = []string{KeyLocation, KeyTypes, KeyMinPrice, KeyMaxPrice, KeyStartDate, KeyEndDate}

const typesSeparator = ","

// Encode serializes c in canonical form, omitting default fields.
func Encode(c search.Criteria) url.Values {
	c = c.Normalize()
	v := url.Values{}
	if c.IsDefault() {
		return v
	}

	if c.Location != "" {
		v.Set(KeyLocation, c.Location)
	}
	if len(c.Categories) > 0 {
		names := make([]string, len(c.Categories))
		for i, cat := range c.Categories {
			names[i] = string(cat)
		}
		v.Set(KeyTypes, strings.Join(names, typesSeparator))
	}
	if c.MinPrice != 0 {
		v.Set(KeyMinPrice, formatPrice(c.MinPrice))
	}
	if !math.IsInf(c.MaxPrice, 1) {
		v.Set(KeyMaxPrice, formatPrice(c.MaxPrice))
	}
	if c.Dates != nil {
		v.Set(KeyStartDate, datex.Format(c.Dates.Start))
		v.Set(KeyEndDate, datex.Format(c.Dates.End))
	}
	return v
}

// Decode parses v into criteria. Missing or unparseable fields keep their
// default; it never fails.
func Decode(v url.Values) search.Criteria {
	c := search.DefaultCriteria()

	c.Location = strings.TrimSpace(v.Get(KeyLocation))

	if raw := v.Get(KeyTypes); raw != "" {
		for _, name := range strings.Split(raw, typesSeparator) {
			if cat, ok := listing.ParseCategory(name); ok {
				c.Categories = append(c.Categories, cat)
			}
		}
	}

	if p, ok := parsePrice(v.Get(KeyMinPrice)); ok && p >= 0 {
		c.MinPrice = p
	}
	if p, ok := parsePrice(v.Get(KeyMaxPrice)); ok {
		c.MaxPrice = p
	}

	// A date range needs both ends.
	start, end := v.Get(KeyStartDate), v.Get(KeyEndDate)
	if start != "" && end != "" {
		if dr, err := booking.ParseDateRange(start, end); err == nil {
			c.Dates = &dr
		}
	}

	return c.Normalize()
}

// EncodeString is Encode rendered as a query string.
func EncodeString(c search.Criteria) string {
	return Encode(c).Encode()
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, false
	}
	return p, true
}

// Project keeps only the keys this codec owns, dropping unrelated parameters.
func Project(v url.Values) url.Values {
	out := url.Values{}
	for _, k := range Keys {
		if vals, ok := v[k]; ok && len(vals) > 0 {
			out[k] = []string{vals[0]}
		}
	}
	return out
}

// Equal compares two query states on the codec's keys.
func Equal(a, b url.Values) bool {
	for _, k := range Keys {
		av, aok := a[k]
		bv, bok := b[k]
		if aok != bok {
			return false
		}
		if aok && (len(av) == 0) != (len(bv) == 0) {
			return false
		}
		if aok && len(av) > 0 && av[0] != bv[0] {
			return false
		}
	}
	return true
}
