package http

import (
	"math"

	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	"github.com/nekogravitycat/car-rental-backend/internal/listing"
	listingHttp "github.com/nekogravitycat/car-rental-backend/internal/listing/http"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/datex"
	"github.com/nekogravitycat/car-rental-backend/internal/search"
	"github.com/nekogravitycat/car-rental-backend/internal/search/querystate"
)

type CriteriaResponse struct {
	Location  string   `json:"location"`
	Types     []string `json:"types"`
	MinPrice  float64  `json:"min_price"`
	MaxPrice  *float64 `json:"max_price"` // null when unbounded
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
}

func NewCriteriaResponse(c search.Criteria) CriteriaResponse {
	resp := CriteriaResponse{
		Location: c.Location,
		Types:    make([]string, len(c.Categories)),
		MinPrice: c.MinPrice,
	}
	for i, cat := range c.Categories {
		resp.Types[i] = string(cat)
	}
	if !math.IsInf(c.MaxPrice, 1) {
		maxPrice := c.MaxPrice
		resp.MaxPrice = &maxPrice
	}
	if c.Dates != nil {
		resp.StartDate = datex.Format(c.Dates.Start)
		resp.EndDate = datex.Format(c.Dates.End)
	}
	return resp
}

type SearchResponse struct {
	Items               []listingHttp.ListingResponse `json:"items"`
	Total               int                           `json:"total"`
	Query               string                        `json:"query"`
	Criteria            CriteriaResponse              `json:"criteria"`
	AvailabilityChecked bool                          `json:"availability_checked"`
	Unchecked           int                           `json:"unchecked"`
}

func NewSearchResponse(r *search.Result) SearchResponse {
	items := make([]listingHttp.ListingResponse, len(r.Listings))
	for i, l := range r.Listings {
		items[i] = listingHttp.NewListingResponse(l)
	}
	return SearchResponse{
		Items:               items,
		Total:               len(items),
		Query:               querystate.EncodeString(r.Criteria),
		Criteria:            NewCriteriaResponse(r.Criteria),
		AvailabilityChecked: r.AvailabilityChecked,
		Unchecked:           r.Unchecked,
	}
}

type SessionResponse struct {
	ID           string         `json:"id"`
	Token        uint64         `json:"token"`
	Superseded   bool           `json:"superseded"`
	Query        string         `json:"query"`
	QueryChanged bool           `json:"query_changed"`
	Result       SearchResponse `json:"result"`
	Error        string         `json:"error,omitempty"`
}

// UpdateCriteriaRequest is the JSON form of search criteria.
// Omitted prices leave that bound open.
type UpdateCriteriaRequest struct {
	Location  string   `json:"location" binding:"max=200"`
	Types     []string `json:"types"`
	MinPrice  *float64 `json:"min_price" binding:"omitempty,min=0"`
	MaxPrice  *float64 `json:"max_price"`
	StartDate string   `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string   `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// Criteria converts the request. Unknown types are rejected rather than
// silently dropped, since this input is typed by the client, not a URL.
func (r *UpdateCriteriaRequest) Criteria() (search.Criteria, error) {
	c := search.DefaultCriteria()
	c.Location = r.Location
	for _, t := range r.Types {
		cat, ok := listing.ParseCategory(t)
		if !ok {
			return c, listing.ErrInvalidCategory
		}
		c.Categories = append(c.Categories, cat)
	}
	if r.MinPrice != nil {
		c.MinPrice = *r.MinPrice
	}
	if r.MaxPrice != nil {
		c.MaxPrice = *r.MaxPrice
	}

	switch {
	case r.StartDate == "" && r.EndDate == "":
	case r.StartDate == "" || r.EndDate == "":
		return c, booking.ErrInvalidDateRange
	default:
		dr, err := booking.ParseDateRange(r.StartDate, r.EndDate)
		if err != nil {
			return c, booking.ErrInvalidDateRange
		}
		c.Dates = &dr
	}
	return c.Normalize(), nil
}
