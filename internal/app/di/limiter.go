// Package di は環境に応じた実装の選択を行います。
package di

import (
	"github.com/redis/go-redis/v9"

	"subscription_backend/internal/platform/config"
	"subscription_backend/internal/shared/ratelimiter"
)

// NewAuthLimiter creates the limiter for credential endpoints.
// If Redis is available, counts are shared across processes.
// Otherwise it falls back to an in-process limiter.
func NewAuthLimiter(rdb *redis.Client, cfg config.RateLimit) ratelimiter.Limiter {
	if rdb != nil {
		return ratelimiter.NewRedisLimiter(rdb, "authlimit", cfg.Limit, cfg.Window)
	}
	return ratelimiter.NewMemoryLimiter(cfg.Limit, cfg.Window)
}
