package models

import "time"

// UsageSnapshot holds the most recent usage and latency data fetched for a
// single API key, along with any error from the last refresh attempt.
type UsageSnapshot struct {
	KeyID     string
	Usage     UsageRecord
	Metrics   MetricsResponse
	FetchedAt time.Time
	Error     string
}

// HasData reports whether the snapshot carries a successfully fetched record.
func (s *UsageSnapshot) HasData() bool {
	return s != nil && s.Error == "" && !s.FetchedAt.IsZero()
}

// KeyWithUsage pairs a stored key with its latest usage snapshot.
type KeyWithUsage struct {
	Entry    KeyEntry
	Snapshot *UsageSnapshot
}
