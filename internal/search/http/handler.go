package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/response"
	"github.com/nekogravitycat/car-rental-backend/internal/search"
	"github.com/nekogravitycat/car-rental-backend/internal/search/querystate"
	"github.com/nekogravitycat/car-rental-backend/internal/search/session"
)

type Handler struct {
	searcher search.Searcher
	sessions *session.Registry
}

func NewHandler(searcher search.Searcher, sessions *session.Registry) *Handler {
	return &Handler{
		searcher: searcher,
		sessions: sessions,
	}
}

// Search runs a one-off search described by the query string.
// Malformed query values fall back to their defaults.
func (h *Handler) Search(c *gin.Context) {
	criteria := querystate.Decode(c.Request.URL.Query())

	res, err := h.searcher.Search(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSearchResponse(res))
}

func newSessionResponse(id string, out session.Outcome, err error) SessionResponse {
	res := out.Result
	if res == nil {
		res = search.EmptyResult(search.DefaultCriteria())
	}
	resp := SessionResponse{
		ID:           id,
		Token:        out.Token,
		Superseded:   out.Superseded,
		Query:        out.Query.Encode(),
		QueryChanged: out.QueryChanged,
		Result:       NewSearchResponse(res),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// OpenSession starts a session hydrated from the query string.
func (h *Handler) OpenSession(c *gin.Context) {
	s, out, err := h.sessions.Open(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		if s == nil || errors.Is(err, search.ErrInvalidDateRange) {
			if s != nil {
				_ = h.sessions.Close(s.ID)
			}
			response.Error(c, err)
			return
		}
		// The session stays usable; its first result is just empty.
		log.Printf("search session %s: first search failed: %v", s.ID, err)
	}

	c.JSON(http.StatusCreated, newSessionResponse(s.ID, out, err))
}

func (h *Handler) GetSession(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	s, err := h.sessions.Get(req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, token, query := s.Snapshot()
	c.JSON(http.StatusOK, newSessionResponse(s.ID, session.Outcome{Token: token, Result: res, Query: query}, nil))
}

// UpdateSession applies new criteria. A response marked superseded carries
// the result of a newer update instead of this one.
func (h *Handler) UpdateSession(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateCriteriaRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	criteria, err := body.Criteria()
	if err != nil {
		response.Error(c, err)
		return
	}
	if criteria.Dates != nil && !criteria.Dates.Valid() {
		response.Error(c, search.ErrInvalidDateRange)
		return
	}

	s, err := h.sessions.Get(uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := s.Update(c.Request.Context(), criteria)
	if err != nil {
		log.Printf("search session %s: update failed: %v", s.ID, err)
	}

	c.JSON(http.StatusOK, newSessionResponse(s.ID, out, err))
}

func (h *Handler) CloseSession(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.sessions.Close(req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
