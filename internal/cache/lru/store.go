package lru

import (
	"container/list"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-catalog-cache/internal/interfaces"
	"go-catalog-cache/internal/models"
)

var (
	// ErrInvalidCapacity is returned when the store is built with capacity <= 0
	ErrInvalidCapacity = errors.New("cache capacity must be positive")

	// ErrInvalidTTL is returned when the store is built with a negative ttl
	ErrInvalidTTL = errors.New("cache ttl must not be negative")
)

// Ensure Store implements interfaces.Cache
var _ interfaces.Cache[[]models.Product] = (*Store[[]models.Product])(nil)

// EvictionHook is called after an entry left the store for reason
type EvictionHook func(key string, reason models.EvictionReason)

// Option configures a Store
type Option[V any] func(*Store[V])

// WithCloner sets the copy policy applied on every Put and every hit.
// Without it values are shared, which is only safe for immutable values.
func WithCloner[V any](clone func(V) V) Option[V] {
	return func(s *Store[V]) {
		s.clone = clone
	}
}

// WithClock replaces the clock used for entry timestamps and TTL checks
func WithClock[V any](now func() time.Time) Option[V] {
	return func(s *Store[V]) {
		s.now = now
	}
}

// WithEvictionHook registers a callback for capacity, expiry and invalidation removals
func WithEvictionHook[V any](hook EvictionHook) Option[V] {
	return func(s *Store[V]) {
		s.onEvict = hook
	}
}

// node is the payload of a recency list element
type node[V any] struct {
	key   string
	entry models.CacheEntry[V]
}

type eviction struct {
	key    string
	reason models.EvictionReason
}

// Store is a size-bounded, time-expiring cache with least-recently-used eviction.
// The entry map and the recency list are guarded by one mutex; a read that refreshes
// recency is a mutation like any other.
type Store[V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	order    *list.List // front is most recently used

	clone   func(V) V
	now     func() time.Time
	onEvict EvictionHook

	generation uint64

	hits       uint64
	misses     uint64
	evictions  uint64
	lookupTime time.Duration
}

// New creates a store holding at most capacity keys, each for at most ttl
func New[V any](capacity int, ttl time.Duration, opts ...Option[V]) (*Store[V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidTTL, ttl)
	}

	s := &Store[V]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
		clone:    func(v V) V { return v },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get returns a copy of the value stored under key if it is present and fresh.
// An expired entry is removed and counted as a miss.
func (s *Store[V]) Get(key string) (V, bool) {
	var (
		zero    V
		evicted []eviction
	)

	s.mu.Lock()
	start := time.Now()

	elem, ok := s.items[key]
	if !ok {
		s.misses++
		s.lookupTime += time.Since(start)
		s.mu.Unlock()
		return zero, false
	}

	n := elem.Value.(*node[V])
	if n.entry.IsExpired(s.now(), s.ttl) {
		s.removeElement(elem)
		evicted = append(evicted, eviction{key: key, reason: models.EvictionExpired})
		s.evictions++
		s.misses++
		s.lookupTime += time.Since(start)
		s.mu.Unlock()
		s.notify(evicted)
		return zero, false
	}

	s.order.MoveToFront(elem)
	val := s.clone(n.entry.Value())
	s.hits++
	s.lookupTime += time.Since(start)
	s.mu.Unlock()

	return val, true
}

// Put stores a copy of val under key, replacing any previous entry, and evicts
// the least recently used key when the store grows past capacity.
func (s *Store[V]) Put(key string, val V) {
	s.mu.Lock()
	evicted := s.put(key, val)
	s.mu.Unlock()

	s.notify(evicted)
}

// Generation returns the invalidation generation
func (s *Store[V]) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// PutIfGeneration stores val like Put, unless the store was invalidated after gen
// was read. A load that started before a write must not repopulate the store.
func (s *Store[V]) PutIfGeneration(key string, val V, gen uint64) bool {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return false
	}
	evicted := s.put(key, val)
	s.mu.Unlock()

	s.notify(evicted)
	return true
}

// put inserts or replaces key. Caller holds the lock.
func (s *Store[V]) put(key string, val V) []eviction {
	var evicted []eviction
	entry := models.NewCacheEntry(s.clone(val), s.now())

	if elem, ok := s.items[key]; ok {
		elem.Value = &node[V]{key: key, entry: entry}
		s.order.MoveToFront(elem)
	} else {
		s.items[key] = s.order.PushFront(&node[V]{key: key, entry: entry})
	}

	if s.order.Len() > s.capacity {
		if oldest := s.order.Back(); oldest != nil {
			n := s.removeElement(oldest)
			evicted = append(evicted, eviction{key: n.key, reason: models.EvictionCapacity})
			s.evictions++
		}
	}
	return evicted
}

// Invalidate removes key if present
func (s *Store[V]) Invalidate(key string) {
	var evicted []eviction

	s.mu.Lock()
	s.generation++
	if elem, ok := s.items[key]; ok {
		s.removeElement(elem)
		evicted = append(evicted, eviction{key: key, reason: models.EvictionInvalidated})
	}
	s.mu.Unlock()

	s.notify(evicted)
}

// InvalidateAll drops every entry. Hit, miss and latency counters are kept.
func (s *Store[V]) InvalidateAll() {
	s.mu.Lock()
	s.generation++
	var evicted []eviction
	if s.onEvict != nil {
		evicted = make([]eviction, 0, len(s.items))
		for key := range s.items {
			evicted = append(evicted, eviction{key: key, reason: models.EvictionInvalidated})
		}
	}
	s.items = make(map[string]*list.Element, s.capacity)
	s.order.Init()
	s.mu.Unlock()

	s.notify(evicted)
}

// Size returns the current number of entries, expired ones included until they are touched
func (s *Store[V]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Capacity returns the configured maximum number of keys
func (s *Store[V]) Capacity() int {
	return s.capacity
}

// TTL returns the configured time-to-live
func (s *Store[V]) TTL() time.Duration {
	return s.ttl
}

// Hits returns the lifetime number of hits
func (s *Store[V]) Hits() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

// Misses returns the lifetime number of misses
func (s *Store[V]) Misses() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.misses
}

// Evictions returns the lifetime number of capacity and expiry removals
func (s *Store[V]) Evictions() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictions
}

// HitRatio returns hits/(hits+misses), 0 before the first lookup
func (s *Store[V]) HitRatio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return hitRatio(s.hits, s.misses)
}

// AverageLookupLatency returns the mean time spent inside Get, 0 before the first lookup
func (s *Store[V]) AverageLookupLatency() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return averageLatency(s.lookupTime, s.hits+s.misses)
}

// Stats returns a consistent snapshot of all counters
func (s *Store[V]) Stats() models.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.CacheStats{
		Size:         s.order.Len(),
		Capacity:     s.capacity,
		TTL:          s.ttl,
		TTLMillis:    s.ttl.Milliseconds(),
		Hits:         s.hits,
		Misses:       s.misses,
		Evictions:    s.evictions,
		HitRatio:     hitRatio(s.hits, s.misses),
		AvgLatencyMs: float64(averageLatency(s.lookupTime, s.hits+s.misses)) / float64(time.Millisecond),
	}
}

// removeElement unlinks elem from both structures. Caller holds the lock.
func (s *Store[V]) removeElement(elem *list.Element) *node[V] {
	n := s.order.Remove(elem).(*node[V])
	delete(s.items, n.key)
	return n
}

// notify runs the eviction hook outside the lock
func (s *Store[V]) notify(evicted []eviction) {
	if s.onEvict == nil {
		return
	}
	for _, e := range evicted {
		s.onEvict(e.key, e.reason)
	}
}

func hitRatio(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func averageLatency(total time.Duration, lookups uint64) time.Duration {
	if lookups == 0 {
		return 0
	}
	return total / time.Duration(lookups)
}
