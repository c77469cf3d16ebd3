package listing

import (
	"context"
	"math"
	"strings"
)

type CreateRequest struct {
	OwnerID     string
	Title       string
	Location    string
	Category    string
	PricePerDay float64
}

type UpdateRequest struct {
	Title       *string
	Location    *string
	Category    *string
	PricePerDay *float64
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Listing, error)
	GetByID(ctx context.Context, id string) (*Listing, error)
	List(ctx context.Context, filter Filter) ([]*Listing, int, error)
	Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string) (*Listing, error)
}

// Invalidator is implemented by catalogs that keep a snapshot of approved listings.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type service struct {
	repo        Repository
	invalidator Invalidator
}

// NewService builds the owner-facing listing service. invalidator may be nil.
func NewService(repo Repository, invalidator Invalidator) Service {
	return &service{
		repo:        repo,
		invalidator: invalidator,
	}
}

func validPrice(p float64) bool {
	return p >= 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Listing, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	cat, ok := ParseCategory(req.Category)
	if !ok {
		return nil, ErrInvalidCategory
	}
	if !validPrice(req.PricePerDay) {
		return nil, ErrInvalidPrice
	}

	l := &Listing{
		OwnerID:     req.OwnerID,
		Title:       title,
		Location:    strings.TrimSpace(req.Location),
		Category:    cat,
		PricePerDay: req.PricePerDay,
		Status:      StatusPending, // listings enter moderation first
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Listing, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Listing, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != updaterUserID {
		return nil, ErrPermissionDenied
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		l.Title = title
	}
	if req.Location != nil {
		l.Location = strings.TrimSpace(*req.Location)
	}
	if req.Category != nil {
		cat, ok := ParseCategory(*req.Category)
		if !ok {
			return nil, ErrInvalidCategory
		}
		l.Category = cat
	}
	if req.PricePerDay != nil {
		if !validPrice(*req.PricePerDay) {
			return nil, ErrInvalidPrice
		}
		l.PricePerDay = *req.PricePerDay
	}

	// Any owner edit sends the listing back to moderation.
	wasSearchable := l.Searchable()
	l.Status = StatusPending

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	if wasSearchable && s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	return l, nil
}
