package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Core request/hit/miss counters
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Total number of read-through cache requests",
		},
		[]string{"cache"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// Loader failures never reach the cache
	CacheLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_load_errors_total",
			Help: "Total number of failed loads from the data source",
		},
		[]string{"cache"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of entries removed from the cache",
		},
		[]string{"cache", "reason"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of invalidation requests",
		},
		[]string{"cache", "scope"}, // scope: key or all
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of cache operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "cache"},
	)

	AuditErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_errors_total",
			Help: "Total number of audit records that could not be written",
		},
		[]string{"sink"},
	)
)

// RecordCacheRequest records a cache request
func RecordCacheRequest(cache string) {
	CacheRequests.WithLabelValues(cache).Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit(cache string) {
	CacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(cache string) {
	CacheMisses.WithLabelValues(cache).Inc()
}

// RecordCacheLoadError records a failed load
func RecordCacheLoadError(cache string) {
	CacheLoadErrors.WithLabelValues(cache).Inc()
}

// RecordCacheEviction records an entry removal
func RecordCacheEviction(cache, reason string) {
	CacheEvictions.WithLabelValues(cache, reason).Inc()
}

// RecordCacheInvalidation records an invalidation of one key or the whole cache
func RecordCacheInvalidation(cache, scope string) {
	CacheInvalidations.WithLabelValues(cache, scope).Inc()
}

// RecordAuditError records an audit write failure
func RecordAuditError(sink string) {
	AuditErrors.WithLabelValues(sink).Inc()
}

// TimeCacheOperation returns a timer function for measuring cache operation duration
func TimeCacheOperation(operation, cache string) func() {
	timer := prometheus.NewTimer(CacheOperationDuration.WithLabelValues(operation, cache))
	return func() {
		timer.ObserveDuration()
	}
}
