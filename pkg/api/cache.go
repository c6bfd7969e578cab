package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/platinummonkey/coral/pkg/graph"
	"github.com/platinummonkey/coral/pkg/observability"
)

// buildCache memoizes built graph models by input digest so unchanged
// inputs skip decode and build work on watch rebuilds. Entries expire
// after the configured TTL and the least recently used entry is evicted
// once the cache is full.
type buildCache struct {
	lru     *expirable.LRU[string, *graph.Model]
	metrics *observability.Metrics
	otel    *observability.OTelMetrics
}

func newBuildCache(size int, ttl time.Duration, metrics *observability.Metrics, otelMetrics *observability.OTelMetrics) *buildCache {
	c := &buildCache{
		metrics: metrics,
		otel:    otelMetrics,
	}
	c.lru = expirable.NewLRU[string, *graph.Model](size, c.onEvict, ttl)
	return c
}

// cacheKey digests raw input bytes into a stable cache key.
func cacheKey(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached model for key, if present.
func (c *buildCache) Get(ctx context.Context, key string) (*graph.Model, bool) {
	model, ok := c.lru.Get(key)

	if c.metrics != nil {
		if ok {
			c.metrics.CacheHitsTotal.Inc()
		} else {
			c.metrics.CacheMissesTotal.Inc()
		}
	}
	if c.otel != nil {
		if ok {
			c.otel.RecordCacheHit(ctx, "build")
		} else {
			c.otel.RecordCacheMiss(ctx, "build")
		}
	}

	return model, ok
}

// Add stores a built model under key.
func (c *buildCache) Add(key string, model *graph.Model) {
	c.lru.Add(key, model)
	if c.metrics != nil {
		c.metrics.CacheEntries.Set(float64(c.lru.Len()))
	}
}

// onEvict runs inside the LRU's lock, so it must not call back into the
// cache.
func (c *buildCache) onEvict(string, *graph.Model) {
	if c.metrics != nil {
		c.metrics.CacheEvictionsTotal.Inc()
	}
	if c.otel != nil {
		c.otel.RecordCacheEviction(context.Background(), "build")
	}
}
