package noop

import (
	"go-catalog-cache/internal/interfaces"
	"go-catalog-cache/internal/models"
)

// Ensure NoOpCache implements interfaces.Cache
var _ interfaces.Cache[[]models.Product] = (*NoOpCache[[]models.Product])(nil)

// NoOpCache is a no-operation cache implementation for disabled caches.
// Every lookup misses, so read-through callers always reach the data source.
type NoOpCache[V any] struct{}

// NewNoOpCache creates a new no-operation cache instance
func NewNoOpCache[V any]() interfaces.Cache[V] {
	return &NoOpCache[V]{}
}

// Get always returns cache miss
func (n *NoOpCache[V]) Get(key string) (V, bool) {
	var zero V
	return zero, false
}

// Put does nothing
func (n *NoOpCache[V]) Put(key string, val V) {
	// No-op
}

// Generation is always zero
func (n *NoOpCache[V]) Generation() uint64 {
	return 0
}

// PutIfGeneration does nothing; there is never a stale load to reject
func (n *NoOpCache[V]) PutIfGeneration(key string, val V, gen uint64) bool {
	return true
}

// Invalidate does nothing
func (n *NoOpCache[V]) Invalidate(key string) {
	// No-op
}

// InvalidateAll does nothing
func (n *NoOpCache[V]) InvalidateAll() {
	// No-op
}

// Size is always zero
func (n *NoOpCache[V]) Size() int {
	return 0
}

// Stats reports an empty cache without capacity
func (n *NoOpCache[V]) Stats() models.CacheStats {
	return models.CacheStats{}
}
