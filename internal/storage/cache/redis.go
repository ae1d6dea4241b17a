package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomblance/drip/internal/common"
	"github.com/tomblance/drip/internal/interfaces"
)

const keyPrefix = "drip:"

// RedisCache stores entries in Redis so multiple instances share one quote
// cache and one rate-limit budget against the upstream.
type RedisCache struct {
	client *redis.Client
	logger *common.Logger
}

// NewRedisCache connects to Redis at addr and verifies the connection.
func NewRedisCache(logger *common.Logger, addr string) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logger.Info().Str("addr", addr).Msg("Redis cache connected")
	return &RedisCache{
		client: client,
		logger: logger,
	}, nil
}

// Get returns the cached value for the key, or ok=false on miss. Backend
// errors are logged and reported as misses so an unhealthy Redis degrades
// to fetching, never to failing.
func (c *RedisCache) Get(ctx context.Context, key interfaces.CacheKey) ([]byte, bool) {
	value, err := c.client.Get(ctx, keyPrefix+key.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key.String()).Msg("Redis get failed")
		}
		return nil, false
	}
	return value, true
}

// Set stores the value under the key for the given TTL. Expiry is handled
// by Redis itself.
func (c *RedisCache) Set(ctx context.Context, key interfaces.CacheKey, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, keyPrefix+key.String(), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache
var _ interfaces.Cache = (*RedisCache)(nil)
