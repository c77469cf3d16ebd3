// Package session keeps live search state for clients that refine a search
// step by step: the current criteria, their query string, and the displayed
// result, guarded so a slow stale search never replaces a newer one.
package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/search"
	"github.com/nekogravitycat/car-rental-backend/internal/search/querystate"
)

// Session is one search owner. Every Update gets a token from a monotonic
// counter and its result is displayed only if no later Update was issued
// in the meantime.
type Session struct {
	ID string

	searcher search.Searcher

	mu        sync.Mutex
	sync      *querystate.Synchronizer
	issued    uint64
	displayed *search.Result
	shownAt   uint64 // token of the displayed result
	lastUsed  time.Time
	now       func() time.Time
}

// Outcome describes one Update.
type Outcome struct {
	Token        uint64
	Superseded   bool // a newer Update was issued before this one finished
	Result       *search.Result
	Query        url.Values
	QueryChanged bool
}

func newSession(id string, searcher search.Searcher, now func() time.Time) *Session {
	return &Session{
		ID:       id,
		searcher: searcher,
		sync:     querystate.NewSynchronizer(),
		now:      now,
		lastUsed: now(),
	}
}

// Hydrate reads the initial criteria from the query the session was opened with.
func (s *Session) Hydrate(v url.Values) search.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sync.Hydrate(v)
}

// Update applies new criteria and runs the search for them.
// When the search fails and is still the latest, the displayed result is
// cleared to an empty one and the error is returned.
func (s *Session) Update(ctx context.Context, c search.Criteria) (Outcome, error) {
	s.mu.Lock()
	s.issued++
	token := s.issued
	query, changed := s.sync.Sync(c)
	s.lastUsed = s.now()
	s.mu.Unlock()

	res, err := s.searcher.Search(ctx, c)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := Outcome{Token: token, Query: query, QueryChanged: changed}
	if token != s.issued {
		out.Superseded = true
		out.Result = s.displayed
		return out, nil
	}

	if err != nil {
		s.displayed = search.EmptyResult(c.Normalize())
		s.shownAt = token
		out.Result = s.displayed
		return out, err
	}

	s.displayed = res
	s.shownAt = token
	out.Result = res
	return out, nil
}

// Snapshot returns the displayed result, the token it belongs to, and the
// current query. The result is nil before the first search completes.
func (s *Session) Snapshot() (*search.Result, uint64, url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	return s.displayed, s.shownAt, s.sync.Current()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
