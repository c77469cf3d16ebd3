package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrDateConflict      = apperror.New(http.StatusConflict, "car is already booked for these dates")
	ErrInvalidDateRange  = apperror.New(http.StatusBadRequest, "start date must not be after end date")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "booking status cannot change this way")
	ErrListingNotFound   = apperror.New(http.StatusNotFound, "listing not found")
	ErrListingNotBooking = apperror.New(http.StatusConflict, "listing is not open for booking")
	ErrOwnListing        = apperror.New(http.StatusBadRequest, "cannot book your own listing")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrStartDatePast     = apperror.New(http.StatusBadRequest, "cannot create booking in the past")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// BlocksAvailability reports whether a booking in this state makes its dates
// unavailable to other renters.
func (s Status) BlocksAvailability() bool {
	return s == StatusConfirmed
}

// Booking is a reservation of a listing over an inclusive range of calendar dates.
type Booking struct {
	ID        string
	ListingID string
	UserID    string
	OwnerID   string // owner of the listing, joined in on reads
	Dates     DateRange
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Filter struct {
	UserID    string
	OwnerID   string
	ListingID string
	Status    Status
	Overlaps  *DateRange // bookings sharing at least one day with this range
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
