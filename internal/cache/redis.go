package cache

import (
	"context"
	"time"

	"github.com/wonny/screener/pkg/logger"
	"github.com/wonny/screener/pkg/redis"
)

// Redis adapts the shared Redis cache helper to the Store contract.
// Errors from the backend are logged and degraded to misses so callers
// never see a cache failure.
type Redis struct {
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewRedis creates a Redis-backed store with the given TTL
func NewRedis(client *redis.Client, ttl time.Duration, log *logger.Logger) *Redis {
	return &Redis{
		cache:  redis.NewCache(client, "screener"),
		ttl:    ttl,
		logger: log,
	}
}

// Get implements Store
func (r *Redis) Get(ctx context.Context, key string, dest interface{}) bool {
	found, err := r.cache.Get(ctx, key, dest)
	if err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("Redis cache read failed, treating as miss")
		return false
	}
	return found
}

// Set implements Store
func (r *Redis) Set(ctx context.Context, key string, value interface{}) {
	if err := r.cache.Set(ctx, key, value, r.ttl); err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("Redis cache write failed")
	}
}
