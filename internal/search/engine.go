package search

import (
	"context"
	"log"
	"net/http"

	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	"github.com/nekogravitycat/car-rental-backend/internal/listing"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

var (
	ErrCatalogUnavailable = apperror.New(http.StatusServiceUnavailable, "car catalog is temporarily unavailable")
	ErrInvalidDateRange   = booking.ErrInvalidDateRange
)

// Result is one evaluated search.
type Result struct {
	Criteria            Criteria
	Listings            []*listing.Listing
	AvailabilityChecked bool
	// Unchecked counts candidates dropped because their availability could
	// not be determined.
	Unchecked int
}

// EmptyResult is what a failed search displays.
func EmptyResult(c Criteria) *Result {
	return &Result{Criteria: c, Listings: []*listing.Listing{}}
}

// Searcher runs a search for a set of criteria.
type Searcher interface {
	Search(ctx context.Context, c Criteria) (*Result, error)
}

// Engine combines the catalog, the predicate evaluator and the availability resolver.
type Engine struct {
	catalog  listing.Catalog
	resolver *Resolver
}

func NewEngine(catalog listing.Catalog, resolver *Resolver) *Engine {
	return &Engine{catalog: catalog, resolver: resolver}
}

// Search returns the approved listings matching c.
// Listings are first filtered on everything but dates so the oracle is only
// asked about listings that could still match.
func (e *Engine) Search(ctx context.Context, c Criteria) (*Result, error) {
	c = c.Normalize()
	if c.Dates != nil && !c.Dates.Valid() {
		return nil, ErrInvalidDateRange
	}

	all, err := e.catalog.ListApproved(ctx)
	if err != nil {
		log.Printf("search: catalog load failed: %v", err)
		return nil, apperror.Wrap(err, ErrCatalogUnavailable.Code, ErrCatalogUnavailable.Message)
	}

	approved := make([]*listing.Listing, 0, len(all))
	for _, l := range all {
		if l.Searchable() {
			approved = append(approved, l)
		}
	}

	candidates := Filter(approved, c.WithoutDates(), nil)
	if c.Dates == nil {
		return &Result{Criteria: c, Listings: candidates}, nil
	}

	ids := make([]string, len(candidates))
	for i, l := range candidates {
		ids[i] = l.ID
	}
	res := e.resolver.Resolve(ctx, ids, c.Dates)

	return &Result{
		Criteria:            c,
		Listings:            Filter(candidates, c, res.Available),
		AvailabilityChecked: true,
		Unchecked:           len(res.Failed),
	}, nil
}
