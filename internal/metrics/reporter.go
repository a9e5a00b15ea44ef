package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go-catalog-cache/internal/interfaces"
	"go-catalog-cache/internal/models"
)

// Reporter is a read-only view over cache counters
type Reporter struct {
	name   string
	source interfaces.StatsProvider
}

// NewReporter creates a reporter for the named cache
func NewReporter(name string, source interfaces.StatsProvider) *Reporter {
	return &Reporter{
		name:   name,
		source: source,
	}
}

// Name returns the cache name
func (r *Reporter) Name() string {
	return r.name
}

// Snapshot returns the current counters
func (r *Reporter) Snapshot() models.CacheStats {
	return r.source.Stats()
}

// Occupancy returns size/capacity
func (r *Reporter) Occupancy() float64 {
	return r.Snapshot().Occupancy()
}

// Format renders the counters for logs and the CLI
func (r *Reporter) Format() string {
	return FormatStats(r.name, r.Snapshot())
}

// FormatStats renders stats on one line
func FormatStats(name string, s models.CacheStats) string {
	return fmt.Sprintf("cache %s: size=%d/%d hits=%d misses=%d hit_ratio=%.2f%% avg_lookup=%.4fms ttl=%s",
		name, s.Size, s.Capacity, s.Hits, s.Misses, s.HitRatio*100, s.AvgLatencyMs, s.TTL)
}

// Collector exposes the counters as prometheus metrics
func (r *Reporter) Collector() prometheus.Collector {
	labels := prometheus.Labels{"cache": r.name}
	return &statsCollector{
		reporter: r,
		entries: prometheus.NewDesc("catalog_cache_entries",
			"Current number of entries in the cache.", nil, labels),
		capacity: prometheus.NewDesc("catalog_cache_capacity",
			"Maximum number of entries in the cache.", nil, labels),
		hits: prometheus.NewDesc("catalog_cache_hits_total",
			"Lifetime number of cache hits.", nil, labels),
		misses: prometheus.NewDesc("catalog_cache_misses_total",
			"Lifetime number of cache misses.", nil, labels),
		evictions: prometheus.NewDesc("catalog_cache_evictions_total",
			"Lifetime number of capacity and expiry evictions.", nil, labels),
		hitRatio: prometheus.NewDesc("catalog_cache_hit_ratio",
			"Hits divided by lookups.", nil, labels),
		avgLookup: prometheus.NewDesc("catalog_cache_avg_lookup_seconds",
			"Average time spent in a cache lookup.", nil, labels),
	}
}

// statsCollector reads a fresh snapshot on every scrape
type statsCollector struct {
	reporter *Reporter

	entries   *prometheus.Desc
	capacity  *prometheus.Desc
	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	hitRatio  *prometheus.Desc
	avgLookup *prometheus.Desc
}

func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.capacity
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.hitRatio
	ch <- c.avgLookup
}

func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.reporter.Snapshot()
	avg := time.Duration(s.AvgLatencyMs * float64(time.Millisecond))

	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions))
	ch <- prometheus.MustNewConstMetric(c.hitRatio, prometheus.GaugeValue, s.HitRatio)
	ch <- prometheus.MustNewConstMetric(c.avgLookup, prometheus.GaugeValue, avg.Seconds())
}
