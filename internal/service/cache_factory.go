package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/bamic-rtp-server/internal/domain"
)

// NewResultCache builds the result cache described by cfg. A disabled cache
// yields nil. When a Redis URL is configured the in-memory cache is backed by
// Redis; an unreachable Redis is logged and the memory tier is used alone.
// The returned close function is never nil.
func NewResultCache(ctx context.Context, cfg domain.CacheConfig, logger *logrus.Logger) (ResultCache, func() error, error) {
	noop := func() error { return nil }
	if !cfg.Enabled {
		return nil, noop, nil
	}

	local, err := NewMemoryResultCache(cfg.MaxItems, cfg.DefaultTTL)
	if err != nil {
		return nil, noop, err
	}
	if cfg.RedisURL == "" {
		return local, noop, nil
	}

	shared, err := NewRedisResultCache(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable, using in-memory result cache only")
		return local, noop, nil
	}

	logger.Info("Using tiered result cache backed by Redis")
	return NewTieredResultCache(local, shared), shared.Close, nil
}
