package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/novafetch/novafetch/models"
)

const keyPrefix = "novafetch:review:"

// Composites mirrors persisted composite reviews into Redis, keyed by the
// literal search term. Persisted composites are immutable and never
// invalidated, so entries carry no TTL and can never go stale relative to
// the store. A nil *Composites is a valid no-op instance, which keeps the
// Redis layer strictly optional.
type Composites struct {
	rdb *redis.Client
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, addr, password string, db int) (*Composites, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed (%s): %w", addr, err)
	}
	return &Composites{rdb: rdb}, nil
}

// Get returns the mirrored composite for the term, or (nil, nil) on a miss.
func (c *Composites) Get(ctx context.Context, term string) (*models.CompositeReview, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := c.rdb.Get(ctx, keyPrefix+term).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read composite: %w", err)
	}
	var out models.CompositeReview
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode composite: %w", err)
	}
	return &out, nil
}

// Put mirrors a freshly persisted composite.
func (c *Composites) Put(ctx context.Context, term string, review models.CompositeReview) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("failed to encode composite: %w", err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+term, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write composite: %w", err)
	}
	return nil
}
