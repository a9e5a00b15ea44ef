package interfaces

import (
	"go-catalog-cache/internal/models"
)

// StatsProvider exposes cache counters for reporting
type StatsProvider interface {
	Stats() models.CacheStats
}

// Cache interface defines the contract for cache implementations.
// Get and Put exchange defensive copies; callers never share state with the cache.
type Cache[V any] interface {
	StatsProvider
	Get(key string) (V, bool) // returns value and found flag
	Put(key string, val V)
	// Generation changes on every Invalidate/InvalidateAll
	Generation() uint64
	// PutIfGeneration stores val unless an invalidation happened since gen was read,
	// in which case it returns false
	PutIfGeneration(key string, val V, gen uint64) bool
	Invalidate(key string)
	InvalidateAll()
	Size() int
}
