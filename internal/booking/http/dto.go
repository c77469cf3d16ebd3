package http

import (
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/datex"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	ListingID string `form:"listing_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	Role      string `form:"role" binding:"omitempty,oneof=renter owner"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=start_date end_date created_at status"`
}

// DateWindow returns the requested overlap window, nil when either end is missing.
func (r *ListBookingsRequest) DateWindow() (*booking.DateRange, error) {
	if r.From == "" || r.To == "" {
		return nil, nil
	}
	dr, err := booking.ParseDateRange(r.From, r.To)
	if err != nil {
		return nil, err
	}
	if !dr.Valid() {
		return nil, booking.ErrInvalidDateRange
	}
	return &dr, nil
}

type BookingResponse struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	UserID    string    `json:"user_id"`
	OwnerID   string    `json:"owner_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Days      int       `json:"days"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		ListingID: b.ListingID,
		UserID:    b.UserID,
		OwnerID:   b.OwnerID,
		StartDate: datex.Format(b.Dates.Start),
		EndDate:   datex.Format(b.Dates.End),
		Days:      b.Dates.Days(),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

type CreateBookingRequest struct {
	ListingID string `json:"listing_id" binding:"required,uuid"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

// Dates parses and checks the requested range.
func (r *CreateBookingRequest) Dates() (booking.DateRange, error) {
	dr, err := booking.ParseDateRange(r.StartDate, r.EndDate)
	if err != nil {
		return booking.DateRange{}, booking.ErrInvalidDateRange
	}
	if !dr.Valid() {
		return booking.DateRange{}, booking.ErrInvalidDateRange
	}
	return dr, nil
}

type UpdateBookingRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}
