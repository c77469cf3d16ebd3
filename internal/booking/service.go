package booking

import (
	"context"
	"errors"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/listing"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/datex"
)

type CreateRequest struct {
	UserID    string
	ListingID string
	StartDate time.Time
	EndDate   time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string, viewerUserID string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status Status, updaterUserID string) (*Booking, error)
}

// ListingLookup is the part of the listing service bookings depend on.
type ListingLookup interface {
	GetByID(ctx context.Context, id string) (*listing.Listing, error)
}

type service struct {
	repo     Repository
	listings ListingLookup
	today    func() time.Time
}

func NewService(repo Repository, listings ListingLookup) Service {
	return &service{
		repo:     repo,
		listings: listings,
		today:    datex.Today,
	}
}

// Create records a pending booking.
// The overlap check here only gives early feedback; the exclusion constraint
// on confirmed bookings is what actually prevents double-booking.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// 1. Validate dates
	dates := NewDateRange(req.StartDate, req.EndDate)
	if !dates.Valid() {
		return nil, ErrInvalidDateRange
	}
	if dates.Start.Before(s.today()) {
		return nil, ErrStartDatePast
	}

	// 2. Validate listing
	l, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if !l.Searchable() {
		return nil, ErrListingNotBooking
	}
	if l.OwnerID == req.UserID {
		return nil, ErrOwnListing
	}

	// 3. Check for conflicts
	conflict, err := s.repo.HasConflict(ctx, req.ListingID, dates)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrDateConflict
	}

	// 4. Create booking
	b := &Booking{
		ListingID: req.ListingID,
		UserID:    req.UserID,
		OwnerID:   l.OwnerID,
		Dates:     dates,
		Status:    StatusPending,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string, viewerUserID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != viewerUserID && b.OwnerID != viewerUserID {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	if filter.Overlaps != nil && !filter.Overlaps.Valid() {
		return nil, 0, ErrInvalidDateRange
	}
	return s.repo.List(ctx, filter)
}

// transitions lists, per current status, the statuses each party may move to.
var transitions = map[Status]struct {
	owner  []Status
	renter []Status
}{
	StatusPending: {
		owner:  []Status{StatusConfirmed, StatusCancelled},
		renter: []Status{StatusCancelled},
	},
	StatusConfirmed: {
		owner:  []Status{StatusCompleted, StatusCancelled},
		renter: []Status{StatusCancelled},
	},
}

func allowed(list []Status, st Status) bool {
	for _, v := range list {
		if v == st {
			return true
		}
	}
	return false
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status, updaterUserID string) (*Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner := b.OwnerID == updaterUserID
	isRenter := b.UserID == updaterUserID
	if !isOwner && !isRenter {
		return nil, ErrPermissionDenied
	}

	t, ok := transitions[b.Status]
	if !ok {
		return nil, ErrInvalidTransition
	}
	switch {
	case isOwner && allowed(t.owner, status):
	case isRenter && allowed(t.renter, status):
	case allowed(t.owner, status) || allowed(t.renter, status):
		return nil, ErrPermissionDenied
	default:
		return nil, ErrInvalidTransition
	}

	if status == StatusConfirmed {
		conflict, err := s.repo.HasConflict(ctx, b.ListingID, b.Dates)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, ErrDateConflict
		}
	}

	b.Status = status
	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
