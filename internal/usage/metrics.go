package usage

import "github.com/barkgg/barkdash/internal/models"

// LookupLatency returns latency metrics for an endpoint. The second
// return is false when the metering service has not yet reported for
// that endpoint; callers must treat "no data yet" differently from
// zero latency.
func LookupLatency(metrics models.MetricsResponse, endpointID string) (models.EndpointMetrics, bool) {
	m, ok := metrics[endpointID]
	return m, ok
}
