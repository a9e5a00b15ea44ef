package httpserver

import "go-catalog-cache/internal/catalog"

// APIResponse is the envelope of every API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CountResponse carries the number of products
type CountResponse struct {
	Count int `json:"count"`
}

// AuditCountResponse carries the number of stored audit records
type AuditCountResponse struct {
	Count int64 `json:"count"`
}

// CacheStatsResponse carries cache counters and their one-line summaries
type CacheStatsResponse struct {
	catalog.CacheStats
	Report []string `json:"report"`
}

// InvalidateResponse confirms a cache flush
type InvalidateResponse struct {
	Invalidated bool `json:"invalidated"`
}
