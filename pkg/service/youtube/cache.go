package youtube

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheTTL bounds how long channel analytics and search results are reused
const CacheTTL = 15 * time.Minute

// Cache stores serialized YouTube responses. Lookups are best effort: a
// cache failure degrades to a fresh fetch, never to a request failure.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

type redisCache struct {
	client *redis.Client
}

// NewRedisCache wraps a redis client as a Cache
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.client.Set(ctx, key, value, ttl)
}

type noopCache struct{}

// NewNoopCache returns a Cache that never hits, for deployments without redis
func NewNoopCache() Cache {
	return &noopCache{}
}

func (noopCache) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }

func (noopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {}
