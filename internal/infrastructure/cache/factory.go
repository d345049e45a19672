// Package cache holds the stores that remember checkout idempotency keys.
package cache

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// OpenOption adjusts OpenIdempotencyStore
type OpenOption func(*openOptions)

type openOptions struct {
	logger       *zap.Logger
	requireRedis bool
}

func WithLogger(logger *zap.Logger) OpenOption {
	return func(o *openOptions) { o.logger = logger }
}

// RequireRedis makes an unreachable Redis an error instead of degrading to
// the per-process store.
func RequireRedis() OpenOption {
	return func(o *openOptions) { o.requireRedis = true }
}

// OpenIdempotencyStore returns the Redis store when Redis is enabled and
// answers a ping, and the in-memory store otherwise.
func OpenIdempotencyStore(ctx context.Context, cfg config.RedisConfig, opts ...OpenOption) (shared.IdempotencyStore, error) {
	o := openOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	if !cfg.Enabled {
		o.logger.Info("Idempotency keys kept in memory", zap.String("reason", "redis disabled"))
		return NewInMemoryIdempotencyStore(), nil
	}

	addr := cfg.Addr()
	store, err := NewRedisIdempotencyStore(ctx, RedisConfig{Addr: addr, Password: cfg.Password, DB: cfg.DB})
	switch {
	case err == nil:
		o.logger.Info("Idempotency keys kept in Redis", zap.String("addr", addr))
		return store, nil
	case o.requireRedis:
		return nil, fmt.Errorf("redis required for idempotency keys: %w", err)
	}

	// Replays are then only caught by the instance that saw the first request.
	o.logger.Warn("Redis unreachable, idempotency keys kept in memory",
		zap.String("addr", addr),
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}
