package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/booking"
)

const listingID = "5d9c1b52-8f0e-4a43-9d55-0a6f3d1e7c21"

// fakeService records the last call and returns a canned booking.
type fakeService struct {
	created    booking.CreateRequest
	listFilter booking.Filter
	err        error
}

func (f *fakeService) Create(_ context.Context, req booking.CreateRequest) (*booking.Booking, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &booking.Booking{
		ID:        "b1",
		ListingID: req.ListingID,
		UserID:    req.UserID,
		Dates:     booking.NewDateRange(req.StartDate, req.EndDate),
		Status:    booking.StatusPending,
	}, nil
}

func (f *fakeService) GetByID(context.Context, string, string) (*booking.Booking, error) {
	return nil, f.err
}

func (f *fakeService) List(_ context.Context, filter booking.Filter) ([]*booking.Booking, int, error) {
	f.listFilter = filter
	return nil, 0, f.err
}

func (f *fakeService) UpdateStatus(context.Context, string, booking.Status, string) (*booking.Booking, error) {
	return nil, f.err
}

func newTestRouter(svc booking.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		auth.SetUser(c, "renter-1", "renter@example.com")
		c.Next()
	}
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), fakeAuth)
	return r
}

func executeRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBooking(t *testing.T) {
	t.Run("Create Booking: Success", func(t *testing.T) {
		svc := &fakeService{}
		r := newTestRouter(svc)

		w := executeRequest(r, http.MethodPost, "/v1/bookings", CreateBookingRequest{
			ListingID: listingID,
			StartDate: "2030-06-10",
			EndDate:   "2030-06-15",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "2030-06-10", resp.StartDate)
		assert.Equal(t, "2030-06-15", resp.EndDate)
		assert.Equal(t, 6, resp.Days)
		assert.Equal(t, "renter-1", svc.created.UserID)
	})

	t.Run("Create Booking: Conflict maps to 409", func(t *testing.T) {
		r := newTestRouter(&fakeService{err: booking.ErrDateConflict})
		w := executeRequest(r, http.MethodPost, "/v1/bookings", CreateBookingRequest{
			ListingID: listingID,
			StartDate: "2030-06-10",
			EndDate:   "2030-06-15",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	bad := map[string]CreateBookingRequest{
		"Inverted dates": {ListingID: listingID, StartDate: "2030-06-15", EndDate: "2030-06-10"},
		"Bad date":       {ListingID: listingID, StartDate: "2030-02-30", EndDate: "2030-03-02"},
		"Bad listing id": {ListingID: "car-1", StartDate: "2030-06-10", EndDate: "2030-06-15"},
		"Missing end":    {ListingID: listingID, StartDate: "2030-06-10"},
	}
	for name, body := range bad {
		t.Run("Create Booking: "+name, func(t *testing.T) {
			svc := &fakeService{}
			w := executeRequest(newTestRouter(svc), http.MethodPost, "/v1/bookings", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, svc.created.ListingID, "service must not be called")
		})
	}
}

func TestListBookings(t *testing.T) {
	t.Run("Role and window become filters", func(t *testing.T) {
		svc := &fakeService{}
		w := executeRequest(newTestRouter(svc), http.MethodGet, "/v1/bookings?role=owner&from=2030-06-01&to=2030-06-30", nil)
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, "renter-1", svc.listFilter.OwnerID)
		assert.Empty(t, svc.listFilter.UserID)
		require.NotNil(t, svc.listFilter.Overlaps)
		assert.Equal(t, "2030-06-01..2030-06-30", svc.listFilter.Overlaps.String())
	})

	t.Run("No role lists both sides", func(t *testing.T) {
		svc := &fakeService{}
		w := executeRequest(newTestRouter(svc), http.MethodGet, "/v1/bookings", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "renter-1", svc.listFilter.OwnerID)
		assert.Equal(t, "renter-1", svc.listFilter.UserID)
	})

	t.Run("Inverted window", func(t *testing.T) {
		w := executeRequest(newTestRouter(&fakeService{}), http.MethodGet, "/v1/bookings?from=2030-06-30&to=2030-06-01", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateBooking(t *testing.T) {
	r := newTestRouter(&fakeService{err: booking.ErrInvalidTransition})

	w := executeRequest(r, http.MethodPatch, "/v1/bookings/"+listingID, UpdateBookingRequest{Status: "completed"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = executeRequest(r, http.MethodPatch, "/v1/bookings/"+listingID, UpdateBookingRequest{Status: "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
