package articles

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/folio-cms/folio/internal/shared"
)

const countCacheKey = "folio:stats:articles"

// Cache wraps Redis backed caching for article statistics.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetCount loads the cached article count. Returns shared.ErrNotFound when
// the key is missing or no client is configured.
func (c *Cache) GetCount(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, shared.ErrNotFound
	}
	count, err := c.client.Get(ctx, countCacheKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, shared.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SetCount stores the article count with the configured TTL.
func (c *Cache) SetCount(ctx context.Context, count int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, countCacheKey, count, c.ttl).Err()
}
