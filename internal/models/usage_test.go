package models

import (
	"encoding/json"
	"testing"
)

func TestUsageRecordDecode(t *testing.T) {
	raw := `{
		"total": 42,
		"creditsRemaining": 1000,
		"endpoints": {
			"/tweet": {
				"total": 30,
				"days": {
					"2024-06-01": {"total": 30, "hours": {"09": 20, "10": 10}}
				}
			},
			"/user": {
				"total": 12,
				"days": {
					"2024-06-02": {"total": 12, "hours": {}}
				}
			}
		}
	}`

	var rec UsageRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if rec.Total != 42 {
		t.Errorf("Total = %d, want 42", rec.Total)
	}
	if rec.CreditsRemaining != 1000 {
		t.Errorf("CreditsRemaining = %d, want 1000", rec.CreditsRemaining)
	}
	if len(rec.Endpoints) != 2 {
		t.Fatalf("got %d endpoints, want 2", len(rec.Endpoints))
	}

	day, ok := rec.Endpoints["/tweet"].Days["2024-06-01"]
	if !ok {
		t.Fatal("missing day 2024-06-01 for /tweet")
	}
	if day.Total != 30 {
		t.Errorf("day total = %d, want 30", day.Total)
	}
	if day.Hours["09"] != 20 {
		t.Errorf("hour 09 = %d, want 20", day.Hours["09"])
	}
}

func TestUsageRecordDecodeOlderSchema(t *testing.T) {
	// Older responses carry no creditsRemaining field.
	raw := `{"total": 5, "endpoints": {"/tweet": {"total": 5, "days": {}}}}`

	var rec UsageRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if rec.CreditsRemaining != 0 {
		t.Errorf("CreditsRemaining = %d, want 0", rec.CreditsRemaining)
	}
}

func TestMetricsResponseDecode(t *testing.T) {
	raw := `{
		"/tweet": {"count": 100, "meanMs": 12.5, "maxMs": 250, "p50Ms": 10, "p95Ms": 40, "p99Ms": 120}
	}`

	var metrics MetricsResponse
	if err := json.Unmarshal([]byte(raw), &metrics); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	m, ok := metrics["/tweet"]
	if !ok {
		t.Fatal("missing /tweet metrics")
	}
	if m.Count != 100 || m.P99Ms != 120 {
		t.Errorf("unexpected metrics: %+v", m)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"Short", "abc", "****"},
		{"ExactlyEight", "12345678", "****"},
		{"Long", "sk-abcdef1234567890", "sk-a...7890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskKey(tt.key); got != tt.want {
				t.Errorf("MaskKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestKeyEntryDisplayName(t *testing.T) {
	withLabel := KeyEntry{ID: "1", Key: "sk-abcdef1234567890", Label: "prod"}
	if got := withLabel.DisplayName(); got != "prod" {
		t.Errorf("DisplayName() = %q, want %q", got, "prod")
	}

	noLabel := KeyEntry{ID: "2", Key: "sk-abcdef1234567890"}
	if got := noLabel.DisplayName(); got != "sk-a...7890" {
		t.Errorf("DisplayName() = %q, want %q", got, "sk-a...7890")
	}
}
