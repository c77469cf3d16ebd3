package http

import (
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/listing"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/request"
)

// ListListingsRequest defines query parameters for paging through the catalog.
type ListListingsRequest struct {
	request.ListParams
	SortBy string `form:"sort_by" binding:"omitempty,oneof=created_at price_per_day title"`
}

type ListingResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	PricePerDay float64   `json:"price_per_day"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewListingResponse(l *listing.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Location:    l.Location,
		Category:    string(l.Category),
		PricePerDay: l.PricePerDay,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

type CreateListingRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Location    string  `json:"location" binding:"max=200"`
	Category    string  `json:"category" binding:"required"`
	PricePerDay float64 `json:"price_per_day" binding:"min=0"`
}

// Validate performs custom validation for CreateListingRequest.
func (r *CreateListingRequest) Validate() error {
	if _, ok := listing.ParseCategory(r.Category); !ok {
		return listing.ErrInvalidCategory
	}
	return nil
}

type UpdateListingRequest struct {
	Title       *string  `json:"title" binding:"omitempty,max=200"`
	Location    *string  `json:"location" binding:"omitempty,max=200"`
	Category    *string  `json:"category"`
	PricePerDay *float64 `json:"price_per_day" binding:"omitempty,min=0"`
}

// Validate performs custom validation for UpdateListingRequest.
func (r *UpdateListingRequest) Validate() error {
	if r.Category != nil {
		if _, ok := listing.ParseCategory(*r.Category); !ok {
			return listing.ErrInvalidCategory
		}
	}
	return nil
}
