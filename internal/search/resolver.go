package search

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/car-rental-backend/internal/booking"
)

const (
	DefaultResolveTimeout     = 5 * time.Second
	DefaultResolveConcurrency = 16
)

// Resolution is the outcome of one availability batch.
type Resolution struct {
	Available Availability
	Failed    []string // ids whose check errored or timed out, excluded from Available
}

// Resolver checks many listings against the booking oracle at once.
type Resolver struct {
	oracle      booking.Oracle
	timeout     time.Duration
	concurrency int
}

// NewResolver builds a resolver. Non-positive timeout or concurrency fall back to defaults.
func NewResolver(oracle booking.Oracle, timeout time.Duration, concurrency int) *Resolver {
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	if concurrency <= 0 {
		concurrency = DefaultResolveConcurrency
	}
	return &Resolver{
		oracle:      oracle,
		timeout:     timeout,
		concurrency: concurrency,
	}
}

// Resolve returns the ids among ids with no confirmed booking overlapping dates.
//
// With dates nil every id is available and the oracle is not called. An
// inverted range yields nothing. Each id is checked independently: an oracle
// error or the batch timeout only removes that id, the rest of the batch
// still completes.
func (r *Resolver) Resolve(ctx context.Context, ids []string, dates *booking.DateRange) Resolution {
	if dates == nil {
		return Resolution{Available: NewAvailability(ids...)}
	}
	if !dates.Valid() {
		return Resolution{Available: NewAvailability()}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	free := make([]bool, len(ids))
	failed := make([]bool, len(ids))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				log.Printf("availability: listing %s not checked for %s: %v", id, dates, err)
				failed[i] = true
				return nil
			}
			conflict, err := r.oracle.HasConflict(ctx, id, *dates)
			if err != nil {
				log.Printf("availability: listing %s check failed for %s: %v", id, dates, err)
				failed[i] = true
				return nil
			}
			free[i] = !conflict
			return nil
		})
	}
	// Workers never return errors; failures are recorded per id.
	_ = g.Wait()

	res := Resolution{Available: NewAvailability()}
	for i, id := range ids {
		switch {
		case failed[i]:
			res.Failed = append(res.Failed, id)
		case free[i]:
			res.Available.Add(id)
		}
	}
	return res
}
