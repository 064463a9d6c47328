// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"wth_backend/internal/shared/ratelimiter"
)

// NewRateLimiter returns a Redis-backed limiter when Redis is available.
// Otherwise, it falls back to a per-process in-memory limiter.
func NewRateLimiter(rdb *redis.Client, max int, window time.Duration, logger *zap.Logger) ratelimiter.Limiter {
	if rdb != nil {
		return ratelimiter.NewRedisLimiter(rdb, window, max, logger)
	}
	return ratelimiter.NewMemoryLimiter(max, window)
}
