// Package models defines data structures and domain types.
package models

import "time"

// DayUsage holds call counts for a single endpoint on a single day.
// Hours is sparse: only hours with recorded calls appear, keyed by a
// zero-padded two-digit hour ("00".."23"). Total is authoritative for
// the day; the hourly breakdown may be absent or incomplete.
type DayUsage struct {
	Total int            `json:"total"`
	Hours map[string]int `json:"hours"`
}

// EndpointUsage holds per-day usage for one endpoint. Days is sparse,
// keyed by ISO date strings ("YYYY-MM-DD").
type EndpointUsage struct {
	Total int                 `json:"total"`
	Days  map[string]DayUsage `json:"days"`
}

// UsageRecord is the full usage snapshot for one API key as returned
// by the metering service. Endpoint keys are path-like identifiers
// ("/tweet", "/user", ...); the set is open and grows over time.
type UsageRecord struct {
	Total            int                      `json:"total"`
	CreditsRemaining int                      `json:"creditsRemaining"`
	Endpoints        map[string]EndpointUsage `json:"endpoints"`
}

// DateRange is a closed interval of calendar days, both endpoints
// inclusive, represented as naive ISO dates with no timezone.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// KeyEntry is a stored API key with an optional display label.
type KeyEntry struct {
	ID      string    `json:"id"`
	Key     string    `json:"key"`
	Label   string    `json:"label,omitempty"`
	AddedAt time.Time `json:"addedAt,omitempty"`
}

// DisplayName returns the label if set, otherwise a masked form of the key.
func (k KeyEntry) DisplayName() string {
	if k.Label != "" {
		return k.Label
	}
	return MaskKey(k.Key)
}

// MaskKey hides the middle of an API key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
