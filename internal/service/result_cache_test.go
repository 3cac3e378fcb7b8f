package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamic-rtp-server/internal/domain"
)

func TestCacheKey(t *testing.T) {
	record := minimalIntake()
	key := CacheKey(record)
	assert.Contains(t, key, "assessment:")

	relabeled := record
	relabeled.Muscle.Label = "Semitendinosus"
	relabeled.Timestamp = time.Now()
	assert.Equal(t, key, CacheKey(relabeled), "labels and timestamp must not affect the key")

	changed := record
	changed.VolumePercent = 3.5
	assert.NotEqual(t, key, CacheKey(changed))

	changed = record
	changed.ReinjuryLast6Mo.Code = 1
	assert.NotEqual(t, key, CacheKey(changed))
}

func TestMemoryResultCache(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryResultCache(2, time.Minute)
	require.NoError(t, err)

	a := Evaluate(minimalIntake()).Assessment()
	cache.Set(ctx, "a", a)

	got, ok := cache.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, a, got)

	_, ok = cache.Get(ctx, "missing")
	assert.False(t, ok)

	cache.Set(ctx, "b", a)
	cache.Set(ctx, "c", a)
	assert.Equal(t, 2, cache.Len())
	_, ok = cache.Get(ctx, "a")
	assert.False(t, ok, "least recently used entry should be evicted")
}

func TestMemoryResultCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryResultCache(10, 20*time.Millisecond)
	require.NoError(t, err)

	cache.Set(ctx, "a", domain.Assessment{Score: 10})
	time.Sleep(60 * time.Millisecond)

	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok)
}

func TestNewMemoryResultCache_InvalidSize(t *testing.T) {
	_, err := NewMemoryResultCache(0, time.Minute)
	assert.Error(t, err)
}

func TestTieredResultCache(t *testing.T) {
	ctx := context.Background()
	local, err := NewMemoryResultCache(10, time.Minute)
	require.NoError(t, err)
	shared, err := NewMemoryResultCache(10, time.Minute)
	require.NoError(t, err)

	tiered := NewTieredResultCache(local, shared)
	a := domain.Assessment{Score: 42, Grade: "3a"}

	shared.Set(ctx, "k", a)
	got, ok := tiered.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, a, got)

	got, ok = local.Get(ctx, "k")
	require.True(t, ok, "shared hit should back-fill the local tier")
	assert.Equal(t, a, got)

	tiered.Set(ctx, "w", a)
	_, ok = shared.Get(ctx, "w")
	assert.True(t, ok)
}

func TestRedisResultCache_UnavailableDegradesToMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cache := newRedisResultCache(client, time.Minute, quietLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, ok := cache.Get(ctx, "key")
		assert.False(t, ok)
	}
	assert.Equal(t, gobreaker.StateOpen, cache.breaker.State())

	// An open breaker short-circuits without touching Redis.
	cache.Set(ctx, "key", domain.Assessment{Score: 1})
	_, ok := cache.Get(ctx, "key")
	assert.False(t, ok)
}

func TestNewResultCache(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		cache, closeFn, err := NewResultCache(ctx, domain.CacheConfig{Enabled: false}, quietLogger())
		require.NoError(t, err)
		assert.Nil(t, cache)
		assert.NoError(t, closeFn())
	})

	t.Run("memory only", func(t *testing.T) {
		cache, closeFn, err := NewResultCache(ctx, domain.CacheConfig{Enabled: true, MaxItems: 10, DefaultTTL: time.Minute}, quietLogger())
		require.NoError(t, err)
		assert.IsType(t, &MemoryResultCache{}, cache)
		assert.NoError(t, closeFn())
	})

	t.Run("invalid size", func(t *testing.T) {
		_, _, err := NewResultCache(ctx, domain.CacheConfig{Enabled: true, MaxItems: 0}, quietLogger())
		assert.Error(t, err)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		cfg := domain.CacheConfig{
			Enabled:    true,
			MaxItems:   10,
			DefaultTTL: time.Minute,
			RedisURL:   "redis://127.0.0.1:1/0",
		}
		cache, closeFn, err := NewResultCache(ctx, cfg, quietLogger())
		require.NoError(t, err)
		assert.IsType(t, &MemoryResultCache{}, cache)
		assert.NoError(t, closeFn())
	})
}
