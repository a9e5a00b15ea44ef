package readthrough

import (
	"context"

	"go.uber.org/zap"

	"go-catalog-cache/internal/interfaces"
	"go-catalog-cache/internal/metrics"
	"go-catalog-cache/internal/models"
)

// Loader fetches a value from the backing data source on a cache miss
type Loader[V any] func(ctx context.Context) (V, error)

// Coordinator implements read-through caching on top of a Cache.
// The loader runs outside the cache lock, so two callers missing on the same key
// may both load; the last Put wins. A load that overlaps an invalidation is returned
// to its caller but not stored.
type Coordinator[V any] struct {
	name   string
	cache  interfaces.Cache[V]
	logger *zap.Logger
}

// New creates a coordinator for the named cache
func New[V any](name string, cache interfaces.Cache[V], logger *zap.Logger) *Coordinator[V] {
	return &Coordinator[V]{
		name:   name,
		cache:  cache,
		logger: logger,
	}
}

// Name returns the cache name used in metrics and logs
func (c *Coordinator[V]) Name() string {
	return c.name
}

// GetOrLoad returns the cached value for key, or loads, stores and returns it.
// Loader errors are returned unchanged and nothing is cached.
func (c *Coordinator[V]) GetOrLoad(ctx context.Context, key string, loader Loader[V]) (V, error) {
	metrics.RecordCacheRequest(c.name)

	gen := c.cache.Generation()
	timer := metrics.TimeCacheOperation("get", c.name)
	val, found := c.cache.Get(key)
	timer()

	if found {
		metrics.RecordCacheHit(c.name)
		c.logger.Debug("Cache hit", zap.String("cache", c.name), zap.String("key", key))
		return val, nil
	}

	metrics.RecordCacheMiss(c.name)
	c.logger.Debug("Cache miss", zap.String("cache", c.name), zap.String("key", key))

	loadTimer := metrics.TimeCacheOperation("load", c.name)
	loaded, err := loader(ctx)
	loadTimer()
	if err != nil {
		metrics.RecordCacheLoadError(c.name)
		c.logger.Warn("Cache load failed", zap.String("cache", c.name), zap.String("key", key), zap.Error(err))
		var zero V
		return zero, err
	}

	if !c.cache.PutIfGeneration(key, loaded, gen) {
		c.logger.Debug("Discarded load overlapping an invalidation",
			zap.String("cache", c.name), zap.String("key", key))
	}
	return loaded, nil
}

// Invalidate drops a single key
func (c *Coordinator[V]) Invalidate(key string) {
	c.cache.Invalidate(key)
	metrics.RecordCacheInvalidation(c.name, "key")
}

// InvalidateOnWrite drops every entry. Called after any mutation of the data source.
func (c *Coordinator[V]) InvalidateOnWrite() {
	c.cache.InvalidateAll()
	metrics.RecordCacheInvalidation(c.name, "all")
	c.logger.Debug("Cache invalidated", zap.String("cache", c.name))
}

// MetricsSnapshot returns the cache counters
func (c *Coordinator[V]) MetricsSnapshot() models.CacheStats {
	return c.cache.Stats()
}

// Stats implements interfaces.StatsProvider
func (c *Coordinator[V]) Stats() models.CacheStats {
	return c.MetricsSnapshot()
}
