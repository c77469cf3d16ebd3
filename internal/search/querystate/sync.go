package querystate

import (
	"net/url"

	"github.com/nekogravitycat/car-rental-backend/internal/search"
)

// Synchronizer keeps criteria and their query-string form consistent.
//
// The query is read exactly once, by Hydrate. After that the query only ever
// follows the criteria, and Sync reports a change only when some key really
// differs, so unchanged criteria never produce a redundant write.
type Synchronizer struct {
	hydrated bool
	initial  search.Criteria
	current  url.Values
}

func NewSynchronizer() *Synchronizer {
	return &Synchronizer{current: url.Values{}}
}

// Hydrate derives the initial criteria from v. Later calls ignore their
// argument and return the criteria from the first call.
func (s *Synchronizer) Hydrate(v url.Values) search.Criteria {
	if s.hydrated {
		return s.initial
	}
	s.hydrated = true
	s.current = Project(v)
	s.initial = Decode(s.current)
	return s.initial
}

// Sync recomputes the query for c. It returns the query the boundary should
// now hold and whether that differs from what it held before.
func (s *Synchronizer) Sync(c search.Criteria) (url.Values, bool) {
	next := Encode(c)
	if Equal(next, s.current) {
		return clone(s.current), false
	}
	s.current = next
	return clone(next), true
}

// Current returns the query as last written.
func (s *Synchronizer) Current() url.Values {
	return clone(s.current)
}

func clone(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
