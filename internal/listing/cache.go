package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const catalogCacheKey = "catalog:approved:v1"

// SnapshotStore is the slice of a key-value store the cached catalog needs.
// ErrCacheMiss is returned by Get when the key is absent.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

var ErrCacheMiss = errors.New("cache miss")

type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore adapts a go-redis client to SnapshotStore.
func NewRedisStore(rdb *redis.Client) SnapshotStore {
	return &redisStore{rdb: rdb}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	bs, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return bs, err
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// CachedCatalog serves the approved catalog from a short-lived snapshot.
// Store failures degrade to reading through to the wrapped catalog.
type CachedCatalog struct {
	next  Catalog
	store SnapshotStore
	ttl   time.Duration
}

// NewCachedCatalog wraps next. A nil store or non-positive ttl disables caching.
func NewCachedCatalog(next Catalog, store SnapshotStore, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{next: next, store: store, ttl: ttl}
}

func (c *CachedCatalog) enabled() bool {
	return c.store != nil && c.ttl > 0
}

type cachedListing struct {
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

func (c *CachedCatalog) ListApproved(ctx context.Context) ([]*Listing, error) {
	if !c.enabled() {
		return c.next.ListApproved(ctx)
	}

	bs, err := c.store.Get(ctx, catalogCacheKey)
	switch {
	case err == nil:
		listings, decErr := decodeSnapshot(bs)
		if decErr == nil {
			return listings, nil
		}
		log.Printf("catalog cache: discarding unreadable snapshot: %v", decErr)
	case !errors.Is(err, ErrCacheMiss):
		log.Printf("catalog cache: get failed: %v", err)
	}

	listings, err := c.next.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := encodeSnapshot(listings)
	if err != nil {
		log.Printf("catalog cache: encode failed: %v", err)
		return listings, nil
	}
	if err := c.store.Set(ctx, catalogCacheKey, payload, c.ttl); err != nil {
		log.Printf("catalog cache: set failed: %v", err)
	}
	return listings, nil
}

// Invalidate drops the snapshot so the next search reloads the catalog.
func (c *CachedCatalog) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.store.Del(ctx, catalogCacheKey); err != nil {
		log.Printf("catalog cache: invalidate failed: %v", err)
	}
}

func encodeSnapshot(listings []*Listing) ([]byte, error) {
	out := make([]cachedListing, len(listings))
	for i, l := range listings {
		out[i] = cachedListing{
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
	return json.Marshal(out)
}

// decodeSnapshot goes through the same row validation as the database path.
func decodeSnapshot(bs []byte) ([]*Listing, error) {
	var in []cachedListing
	if err := json.Unmarshal(bs, &in); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	out := make([]*Listing, 0, len(in))
	for _, cl := range in {
		cl := cl
		l, err := fromRow(row{
			ID:        cl.ID,
			OwnerID:   cl.OwnerID,
			Title:     &cl.Title,
			Location:  &cl.Location,
			Category:  &cl.Category,
			Price:     &cl.PricePerDay,
			Status:    &cl.Status,
			CreatedAt: cl.CreatedAt,
			UpdatedAt: cl.UpdatedAt,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
