// Package models defines data structures and domain types.
package models

// EndpointMetrics holds latency percentiles for one endpoint as
// computed by the metering service. Read-only passthrough; no local
// aggregation is performed on these values.
type EndpointMetrics struct {
	Count  int     `json:"count"`
	MeanMs float64 `json:"meanMs"`
	MaxMs  float64 `json:"maxMs"`
	P50Ms  float64 `json:"p50Ms"`
	P95Ms  float64 `json:"p95Ms"`
	P99Ms  float64 `json:"p99Ms"`
}

// MetricsResponse maps endpoint identifiers to their latency metrics.
type MetricsResponse map[string]EndpointMetrics
