package listing

import (
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "listing not found")
	ErrEmptyTitle       = apperror.New(http.StatusBadRequest, "title cannot be empty")
	ErrInvalidCategory  = apperror.New(http.StatusBadRequest, "invalid vehicle category")
	ErrInvalidPrice     = apperror.New(http.StatusBadRequest, "price per day must be non-negative")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Category is the vehicle category of a listing. The set is closed.
type Category string

const (
	CategorySedan       Category = "Sedan"
	CategorySUV         Category = "SUV"
	CategorySportsCar   Category = "Sports Car"
	CategoryLuxury      Category = "Luxury"
	CategoryElectric    Category = "Electric"
	CategoryConvertible Category = "Convertible"
	CategoryVan         Category = "Van"
	CategoryTruck       Category = "Truck"
)

// Categories lists every category in canonical order.
var Categories = []Category{
	CategorySedan,
	CategorySUV,
	CategorySportsCar,
	CategoryLuxury,
	CategoryElectric,
	CategoryConvertible,
	CategoryVan,
	CategoryTruck,
}

// ParseCategory matches s against the category labels, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Rank is the position of c in Categories, -1 when unknown.
func (c Category) Rank() int {
	for i, v := range Categories {
		if v == c {
			return i
		}
	}
	return -1
}

// ApprovalStatus is the moderation state of a listing.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Listing is a rentable car in the catalog.
type Listing struct {
	ID          string
	OwnerID     string
	Title       string
	Location    string
	Category    Category
	PricePerDay float64
	Status      ApprovalStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Searchable reports whether renters may see the listing.
func (l *Listing) Searchable() bool {
	return l.Status == StatusApproved
}

// Filter defines parameters for listing the catalog page by page.
type Filter struct {
	OwnerID   string
	Status    ApprovalStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
