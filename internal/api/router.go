package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/car-rental-backend/internal/booking/http"
	"github.com/nekogravitycat/car-rental-backend/internal/listing"
	listingHttp "github.com/nekogravitycat/car-rental-backend/internal/listing/http"
	"github.com/nekogravitycat/car-rental-backend/internal/search"
	searchHttp "github.com/nekogravitycat/car-rental-backend/internal/search/http"
	"github.com/nekogravitycat/car-rental-backend/internal/search/session"
)

// Config holds the dependencies required to build the router.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	ListingService listing.Service
	BookingService booking.Service
	Searcher       search.Searcher
	Sessions       *session.Registry
	JWTManager     *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (request id, logging, recovery, CORS, auth) and registers module routes.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - RequestID: tags every request so log lines can be correlated.
	// - RequestLogger: one log line per request carrying the request id.
	// - Recovery: captures panics and returns a 500 error.
	r.Use(RequestID(), RequestLogger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // web client
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", RequestIDHeader}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	listingHandler := listingHttp.NewHandler(cfg.ListingService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	searchHandler := searchHttp.NewHandler(cfg.Searcher, cfg.Sessions)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		searchHttp.RegisterRoutes(v1, searchHandler)
		listingHttp.RegisterRoutes(v1, listingHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
	}

	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
