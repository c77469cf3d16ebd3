package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/search"
	"github.com/nekogravitycat/car-rental-backend/internal/search/session"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := search.NewEngine(nil, nil)
	sessions := session.NewRegistry(engine, time.Minute)
	return NewRouter(Config{
		Searcher:   engine,
		Sessions:   sessions,
		JWTManager: auth.NewJWTManager("secret", "", time.Minute),
	})
}

func TestRouter(t *testing.T) {
	r := newTestRouter(t)

	t.Run("Health check", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("Caller request id is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, "trace-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
	})

	t.Run("Protected routes need a token", func(t *testing.T) {
		for _, path := range []string{"/v1/bookings", "/v1/listings/mine"} {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}
	})
}
