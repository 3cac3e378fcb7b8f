package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/bamic-rtp-server/internal/domain"
)

// RedisResultCache shares assessments between server replicas. Every Redis
// call goes through a circuit breaker so an unavailable Redis degrades to
// cache misses instead of slowing evaluations down.
type RedisResultCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
	logger  *logrus.Logger
}

// NewRedisResultCache connects to Redis using the cache configuration
func NewRedisResultCache(ctx context.Context, cfg domain.CacheConfig, logger *logrus.Logger) (*RedisResultCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.PoolTimeout > 0 {
		opts.PoolTimeout = cfg.PoolTimeout
	}
	if cfg.MaxRetries > 0 {
		opts.MaxRetries = cfg.MaxRetries
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisResultCache(client, cfg.DefaultTTL, logger), nil
}

func newRedisResultCache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisResultCache {
	settings := gobreaker.Settings{
		Name:        "RedisResultCache",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit_breaker": name,
				"from_state":      from.String(),
				"to_state":        to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	return &RedisResultCache{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(settings),
		ttl:     ttl,
		logger:  logger,
	}
}

// Get returns a cached assessment. Errors and an open breaker count as misses.
func (c *RedisResultCache) Get(ctx context.Context, key string) (domain.Assessment, bool) {
	value, err := c.breaker.Execute(func() (interface{}, error) {
		data, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Debug("Redis cache lookup failed")
		return domain.Assessment{}, false
	}

	data, ok := value.([]byte)
	if !ok || data == nil {
		return domain.Assessment{}, false
	}

	var assessment domain.Assessment
	if err := json.Unmarshal(data, &assessment); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Discarding undecodable cache entry")
		return domain.Assessment{}, false
	}
	return assessment, true
}

// Set stores an assessment with the configured TTL
func (c *RedisResultCache) Set(ctx context.Context, key string, assessment domain.Assessment) {
	data, err := json.Marshal(assessment)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to encode assessment for cache")
		return
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, key, data, c.ttl).Err()
	})
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Debug("Redis cache write failed")
	}
}

// Close releases the Redis connection pool
func (c *RedisResultCache) Close() error {
	return c.client.Close()
}
