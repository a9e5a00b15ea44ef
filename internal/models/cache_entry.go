package models

import "time"

// CacheEntry is an immutable snapshot of a cached value and the moment it was stored.
// The value must already be a defensive copy when the entry is built.
type CacheEntry[V any] struct {
	value     V
	createdAt time.Time
}

// NewCacheEntry creates an entry stamped with createdAt
func NewCacheEntry[V any](value V, createdAt time.Time) CacheEntry[V] {
	return CacheEntry[V]{value: value, createdAt: createdAt}
}

// Value returns the stored value. Callers that hand it out must clone it first.
func (e CacheEntry[V]) Value() V {
	return e.value
}

// Age returns how old the entry is at now
func (e CacheEntry[V]) Age(now time.Time) time.Duration {
	return now.Sub(e.createdAt)
}

// IsExpired reports whether the entry is stale under ttl.
// A zero ttl makes every entry stale immediately.
func (e CacheEntry[V]) IsExpired(now time.Time, ttl time.Duration) bool {
	return ttl == 0 || e.Age(now) > ttl
}
