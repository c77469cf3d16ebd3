package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nekogravitycat/car-rental-backend/internal/api"
	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	"github.com/nekogravitycat/car-rental-backend/internal/listing"
	"github.com/nekogravitycat/car-rental-backend/internal/search"
	"github.com/nekogravitycat/car-rental-backend/internal/search/session"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Redis        *redis.Client // optional
	JWTSecret    string
	JWTIssuer    string
	JWTTTL       time.Duration

	CatalogCacheTTL     time.Duration
	AvailabilityTimeout time.Duration
	SearchConcurrency   int
	SessionIdleTTL      time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router   *gin.Engine
	Sessions *session.Registry
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	// Listing Module
	listingRepo := listing.NewPgxRepository(cfg.DBPool)
	var store listing.SnapshotStore
	if cfg.Redis != nil {
		store = listing.NewRedisStore(cfg.Redis)
	}
	catalog := listing.NewCachedCatalog(listingRepo, store, cfg.CatalogCacheTTL)
	listingService := listing.NewService(listingRepo, catalog)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, listingService)

	// Search Module
	resolver := search.NewResolver(bookingRepo, cfg.AvailabilityTimeout, cfg.SearchConcurrency)
	engine := search.NewEngine(catalog, resolver)
	sessions := session.NewRegistry(engine, cfg.SessionIdleTTL)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		ListingService: listingService,
		BookingService: bookingService,
		Searcher:       engine,
		Sessions:       sessions,
		JWTManager:     jwtManager,
	})

	return &Container{
		Router:   router,
		Sessions: sessions,
	}
}

// Shutdown releases container-owned resources.
func (c *Container) Shutdown(ctx context.Context) error {
	return c.Sessions.Shutdown(ctx)
}
