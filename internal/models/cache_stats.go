package models

import "time"

// EvictionReason explains why an entry left the cache
type EvictionReason string

const (
	EvictionCapacity    EvictionReason = "capacity"
	EvictionExpired     EvictionReason = "expired"
	EvictionInvalidated EvictionReason = "invalidated"
)

// CacheStats is a point-in-time view of cache counters
type CacheStats struct {
	Size         int           `json:"size"`
	Capacity     int           `json:"capacity"`
	TTL          time.Duration `json:"-"`
	TTLMillis    int64         `json:"ttl_ms"`
	Hits         uint64        `json:"hits"`
	Misses       uint64        `json:"misses"`
	Evictions    uint64        `json:"evictions"`
	HitRatio     float64       `json:"hit_ratio"`
	AvgLatencyMs float64       `json:"avg_latency_ms"`
}

// Occupancy returns size/capacity, 0 for a cache without capacity
func (s CacheStats) Occupancy() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	return float64(s.Size) / float64(s.Capacity)
}
