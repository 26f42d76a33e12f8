package cache

import (
	"time"

	"github.com/utilibill/backend/internal/application/billing"
	"github.com/utilibill/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewCartStore picks a cart store for the deployment: Redis when enabled and
// reachable, in-memory otherwise. A Redis connection failure falls back to
// in-memory with a warning so a missing cache never blocks startup.
func NewCartStore(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) billing.CartStore {
	if !cfg.Enabled {
		logger.Info("Using in-memory cart store")
		return NewInMemoryCartStore()
	}

	store, err := NewRedisCartStore(cfg, ttl)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory cart store",
			zap.String("addr", cfg.RedisAddr()),
			zap.Error(err),
		)
		return NewInMemoryCartStore()
	}

	logger.Info("Using Redis cart store", zap.String("addr", cfg.RedisAddr()))
	return store
}
