package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-catalog-cache/internal/cache/lru"
	"go-catalog-cache/internal/models"
)

type staticStats struct {
	stats models.CacheStats
	calls int
}

func (s *staticStats) Stats() models.CacheStats {
	s.calls++
	return s.stats
}

func TestReporter_Snapshot(t *testing.T) {
	source := &staticStats{stats: models.CacheStats{Size: 25, Capacity: 100, Hits: 3, Misses: 1, HitRatio: 0.75}}
	reporter := NewReporter("products", source)

	snapshot := reporter.Snapshot()

	assert.Equal(t, "products", reporter.Name())
	assert.Equal(t, source.stats, snapshot)
	assert.InDelta(t, 0.25, reporter.Occupancy(), 1e-9)
}

func TestReporter_Format(t *testing.T) {
	source := &staticStats{stats: models.CacheStats{
		Size:         1,
		Capacity:     100,
		TTL:          5 * time.Minute,
		Hits:         1,
		Misses:       1,
		HitRatio:     0.5,
		AvgLatencyMs: 0.0021,
	}}

	got := NewReporter("products", source).Format()

	assert.Equal(t, "cache products: size=1/100 hits=1 misses=1 hit_ratio=50.00% avg_lookup=0.0021ms ttl=5m0s", got)
}

func TestReporter_ReflectsStore(t *testing.T) {
	store, err := lru.New[string](2, time.Minute)
	require.NoError(t, err)
	reporter := NewReporter("strings", store)

	store.Put("a", "1")
	store.Get("a")
	store.Get("b")

	snapshot := reporter.Snapshot()
	assert.Equal(t, 1, snapshot.Size)
	assert.Equal(t, 2, snapshot.Capacity)
	assert.Equal(t, uint64(1), snapshot.Hits)
	assert.Equal(t, uint64(1), snapshot.Misses)
	assert.InDelta(t, 0.5, snapshot.HitRatio, 1e-9)

	// Reporting has no side effects on the counters
	again := reporter.Snapshot()
	assert.Equal(t, snapshot.Hits, again.Hits)
	assert.Equal(t, snapshot.Misses, again.Misses)
}

func TestReporter_Collector(t *testing.T) {
	source := &staticStats{stats: models.CacheStats{
		Size:      2,
		Capacity:  10,
		Hits:      6,
		Misses:    2,
		Evictions: 1,
		HitRatio:  0.75,
	}}
	collector := NewReporter("products", source).Collector()

	expected := `
# HELP catalog_cache_capacity Maximum number of entries in the cache.
# TYPE catalog_cache_capacity gauge
catalog_cache_capacity{cache="products"} 10
# HELP catalog_cache_entries Current number of entries in the cache.
# TYPE catalog_cache_entries gauge
catalog_cache_entries{cache="products"} 2
# HELP catalog_cache_hit_ratio Hits divided by lookups.
# TYPE catalog_cache_hit_ratio gauge
catalog_cache_hit_ratio{cache="products"} 0.75
# HELP catalog_cache_hits_total Lifetime number of cache hits.
# TYPE catalog_cache_hits_total counter
catalog_cache_hits_total{cache="products"} 6
# HELP catalog_cache_misses_total Lifetime number of cache misses.
# TYPE catalog_cache_misses_total counter
catalog_cache_misses_total{cache="products"} 2
`

	err := testutil.CollectAndCompare(collector, strings.NewReader(expected),
		"catalog_cache_entries",
		"catalog_cache_capacity",
		"catalog_cache_hits_total",
		"catalog_cache_misses_total",
		"catalog_cache_hit_ratio",
	)
	require.NoError(t, err)
	assert.Equal(t, 7, testutil.CollectAndCount(collector))
}
