package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/bamic-rtp-server/internal/domain"
)

// ResultCache stores assessments keyed by the scoring-relevant content of an
// intake record. Implementations must be safe for concurrent use and must
// report failures as misses.
type ResultCache interface {
	Get(ctx context.Context, key string) (domain.Assessment, bool)
	Set(ctx context.Context, key string, assessment domain.Assessment)
}

// CacheKey derives a cache key from the codes and numeric fields of a record.
// Labels and the timestamp are excluded since they never affect scoring.
func CacheKey(record domain.IntakeRecord) string {
	parts := []string{
		strconv.Itoa(record.Muscle.Code),
		strconv.Itoa(record.Mechanism.Code),
		strconv.Itoa(record.Segment.Code),
		strconv.Itoa(record.Anatomic.Code),
		formatNumber(record.VolumePercent),
		formatNumber(record.EdemaLengthMM),
		formatNumber(record.RuptureGapMM),
		strconv.Itoa(record.MLGR.Code),
		strconv.Itoa(record.TendonInvolvement.Code),
		strconv.Itoa(record.CompleteTear.Code),
		strconv.Itoa(record.ReinjuryLast6Mo.Code),
	}
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return "assessment:" + hex.EncodeToString(hash[:])
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// MemoryResultCache is a bounded in-process LRU cache with per-entry TTL
type MemoryResultCache struct {
	lru *expirable.LRU[string, domain.Assessment]
}

// NewMemoryResultCache creates an LRU cache holding at most maxItems entries
func NewMemoryResultCache(maxItems int, ttl time.Duration) (*MemoryResultCache, error) {
	if maxItems <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", maxItems)
	}
	return &MemoryResultCache{
		lru: expirable.NewLRU[string, domain.Assessment](maxItems, nil, ttl),
	}, nil
}

// Get returns a cached assessment
func (c *MemoryResultCache) Get(_ context.Context, key string) (domain.Assessment, bool) {
	return c.lru.Get(key)
}

// Set stores an assessment
func (c *MemoryResultCache) Set(_ context.Context, key string, assessment domain.Assessment) {
	c.lru.Add(key, assessment)
}

// Len returns the number of live entries
func (c *MemoryResultCache) Len() int {
	return c.lru.Len()
}

// TieredResultCache checks a local cache before a shared one and back-fills
// the local tier on shared hits.
type TieredResultCache struct {
	local  ResultCache
	shared ResultCache
}

// NewTieredResultCache combines a local and a shared cache
func NewTieredResultCache(local, shared ResultCache) *TieredResultCache {
	return &TieredResultCache{local: local, shared: shared}
}

// Get looks up the local tier, then the shared tier
func (c *TieredResultCache) Get(ctx context.Context, key string) (domain.Assessment, bool) {
	if a, ok := c.local.Get(ctx, key); ok {
		return a, true
	}
	a, ok := c.shared.Get(ctx, key)
	if ok {
		c.local.Set(ctx, key, a)
	}
	return a, ok
}

// Set writes through to both tiers
func (c *TieredResultCache) Set(ctx context.Context, key string, assessment domain.Assessment) {
	c.local.Set(ctx, key, assessment)
	c.shared.Set(ctx, key, assessment)
}
