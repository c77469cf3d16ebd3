package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/listing"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/response"
)

type Handler struct {
	service listing.Service
}

func NewHandler(service listing.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) list(c *gin.Context, ownerID string, status listing.ApprovalStatus) {
	var req ListListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter := listing.Filter{
		OwnerID:   ownerID,
		Status:    status,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}

	listings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ListingResponse, len(listings))
	for i, l := range listings {
		items[i] = NewListingResponse(l)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

// List pages through the approved catalog.
func (h *Handler) List(c *gin.Context) {
	h.list(c, "", listing.StatusApproved)
}

// ListMine pages through the caller's own listings in every approval state.
func (h *Handler) ListMine(c *gin.Context) {
	h.list(c, auth.GetUserID(c), "")
}

// Get returns an approved listing. Pending and rejected listings are only
// reachable through ListMine.
func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !l.Searchable() {
		response.Error(c, listing.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, NewListingResponse(l))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateListingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	l, err := h.service.Create(c.Request.Context(), listing.CreateRequest{
		OwnerID:     auth.GetUserID(c),
		Title:       body.Title,
		Location:    body.Location,
		Category:    body.Category,
		PricePerDay: body.PricePerDay,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewListingResponse(l))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateListingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	req := listing.UpdateRequest{
		Title:       body.Title,
		Location:    body.Location,
		Category:    body.Category,
		PricePerDay: body.PricePerDay,
	}

	l, err := h.service.Update(c.Request.Context(), uri.ID, req, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewListingResponse(l))
}
