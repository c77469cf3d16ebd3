package session

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/car-rental-backend/internal/search"
)

var (
	ErrNotFound = apperror.New(http.StatusNotFound, "search session not found")
	ErrClosed   = apperror.New(http.StatusServiceUnavailable, "search sessions are shutting down")
)

const DefaultIdleTTL = 30 * time.Minute

// Registry owns every live session. It is created with the application and
// closed on shutdown.
type Registry struct {
	searcher search.Searcher
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
	running  bool

	stop chan struct{}
	done chan struct{}
}

// NewRegistry builds a registry. Non-positive ttl falls back to DefaultIdleTTL.
func NewRegistry(searcher search.Searcher, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Registry{
		searcher: searcher,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Open creates a session hydrated from query and runs its first search.
// The session is registered even if that search fails.
func (r *Registry) Open(ctx context.Context, query url.Values) (*Session, Outcome, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, Outcome{}, ErrClosed
	}
	s := newSession(uuid.NewString(), r.searcher, r.now)
	r.sessions[s.ID] = s
	r.mu.Unlock()

	criteria := s.Hydrate(query)
	out, err := s.Update(ctx, criteria)
	return s, out, err
}

// Get returns a live session.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Close removes a session.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the ttl and returns how many went.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps idle sessions every interval until ctx is done or Shutdown is called.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	r.mu.Lock()
	if r.closed || r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()
	defer close(r.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("search sessions: expired %d idle sessions", n)
			}
		}
	}
}

// Shutdown rejects new sessions, drops the live ones and waits for Run to exit
// if it was started.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	running := r.running
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	close(r.stop)
	if !running {
		return nil
	}
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("search sessions: sweeper did not stop"), ctx.Err())
	}
}
