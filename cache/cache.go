// Package cache stores serialized map responses so repeated viewport queries
// skip filtering and clustering.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"restaurantmap/logger"
)

// Cache is a byte cache keyed by string. Misses and backend errors look the
// same to callers; a broken cache only costs recomputation.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
}

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis returns nil when addr is empty so callers can treat caching as
// disabled.
func NewRedis(addr, password string, db int, ttl time.Duration) *Redis {
	if addr == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		ttl:    ttl,
		prefix: "restaurantmap:",
	}
}

func (c *Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Debug("cache_get_error", "key", key, "err", err)
		}
		return nil, false
	}
	return b, true
}

func (c *Redis) Set(ctx context.Context, key string, val []byte) {
	if err := c.client.Set(ctx, c.prefix+key, val, c.ttl).Err(); err != nil {
		logger.L().Debug("cache_set_error", "key", key, "err", err)
	}
}

func (c *Redis) Close() error {
	return c.client.Close()
}
