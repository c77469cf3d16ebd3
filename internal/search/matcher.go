package search

import (
	"strings"

	"github.com/nekogravitycat/car-rental-backend/internal/listing"
)

// Availability is the set of listing ids free for a requested date range.
type Availability map[string]struct{}

func NewAvailability(ids ...string) Availability {
	a := make(Availability, len(ids))
	for _, id := range ids {
		a.Add(id)
	}
	return a
}

func (a Availability) Add(id string) {
	a[id] = struct{}{}
}

func (a Availability) Has(id string) bool {
	_, ok := a[id]
	return ok
}

func (a Availability) IDs() []string {
	ids := make([]string, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	return ids
}

// Matches reports whether l passes every filter in c.
// available is only consulted when c carries a date range.
// A price range with MinPrice above MaxPrice matches nothing.
func Matches(l *listing.Listing, c Criteria, available Availability) bool {
	return matchLocation(l, c) &&
		matchCategory(l, c) &&
		matchPrice(l, c) &&
		matchAvailability(l, c, available)
}

func matchLocation(l *listing.Listing, c Criteria) bool {
	if c.Location == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Location), strings.ToLower(c.Location))
}

func matchCategory(l *listing.Listing, c Criteria) bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, cat := range c.Categories {
		if l.Category == cat {
			return true
		}
	}
	return false
}

func matchPrice(l *listing.Listing, c Criteria) bool {
	return l.PricePerDay >= c.MinPrice && l.PricePerDay <= c.MaxPrice
}

func matchAvailability(l *listing.Listing, c Criteria, available Availability) bool {
	if c.Dates == nil {
		return true
	}
	return available.Has(l.ID)
}

// Filter keeps the listings that match c, in catalog order.
func Filter(listings []*listing.Listing, c Criteria, available Availability) []*listing.Listing {
	out := make([]*listing.Listing, 0, len(listings))
	for _, l := range listings {
		if Matches(l, c, available) {
			out = append(out, l)
		}
	}
	return out
}
