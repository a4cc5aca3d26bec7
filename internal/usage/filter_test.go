package usage

import (
	"reflect"
	"testing"

	"github.com/barkgg/barkdash/internal/models"
)

func TestFilterByRangeTotals(t *testing.T) {
	rec := record(map[string]models.EndpointUsage{
		"/tweet": endpoint(map[string]models.DayUsage{
			"2024-01-01": {Total: 5},
			"2024-01-05": {Total: 3},
		}),
	})

	got := FilterByRange(rec, "2024-01-01", "2024-01-01")

	ep := got.Endpoints["/tweet"]
	if ep.Total != 5 {
		t.Errorf("endpoint total = %d, want 5", ep.Total)
	}
	if got.Total != 5 {
		t.Errorf("grand total = %d, want 5", got.Total)
	}
	if _, present := ep.Days["2024-01-05"]; present {
		t.Error("day outside range must be dropped")
	}
	if _, present := ep.Days["2024-01-01"]; !present {
		t.Error("day inside range must be kept")
	}
}

func TestFilterByRangeIdempotent(t *testing.T) {
	rec := record(map[string]models.EndpointUsage{
		"/tweet": endpoint(map[string]models.DayUsage{
			"2024-01-01": {Total: 5, Hours: map[string]int{"10": 5}},
			"2024-01-05": {Total: 3},
			"2024-01-09": {Total: 2},
		}),
		"/user": endpoint(map[string]models.DayUsage{
			"2024-01-03": {Total: 7},
		}),
	})

	once := FilterByRange(rec, "2024-01-01", "2024-01-05")
	twice := FilterByRange(once, "2024-01-01", "2024-01-05")

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filter not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestFilterByRangeKeepsEmptyEndpoints(t *testing.T) {
	rec := record(map[string]models.EndpointUsage{
		"/tweet": endpoint(map[string]models.DayUsage{
			"2024-01-01": {Total: 5},
		}),
		"/user": endpoint(map[string]models.DayUsage{
			"2024-03-01": {Total: 9},
		}),
	})

	got := FilterByRange(rec, "2024-01-01", "2024-01-31")

	ep, present := got.Endpoints["/user"]
	if !present {
		t.Fatal("endpoint with no retained days must stay in the mapping")
	}
	if ep.Total != 0 || len(ep.Days) != 0 {
		t.Errorf("empty endpoint = %+v, want zero total and no days", ep)
	}
}

func TestFilterByRangeCreditsPassThrough(t *testing.T) {
	rec := models.UsageRecord{
		Total:            10,
		CreditsRemaining: 777,
		Endpoints: map[string]models.EndpointUsage{
			"/tweet": endpoint(map[string]models.DayUsage{"2024-01-01": {Total: 10}}),
		},
	}

	got := FilterByRange(rec, "2025-01-01", "2025-01-31")
	if got.CreditsRemaining != 777 {
		t.Errorf("CreditsRemaining = %d, want 777 (balance is not a usage sum)", got.CreditsRemaining)
	}
	if got.Total != 0 {
		t.Errorf("grand total = %d, want 0", got.Total)
	}
}

func TestFilterByRangeDoesNotMutateInput(t *testing.T) {
	rec := record(map[string]models.EndpointUsage{
		"/tweet": endpoint(map[string]models.DayUsage{
			"2024-01-01": {Total: 5},
			"2024-02-01": {Total: 3},
		}),
	})

	_ = FilterByRange(rec, "2024-01-01", "2024-01-31")

	if len(rec.Endpoints["/tweet"].Days) != 2 {
		t.Error("input record was mutated")
	}
	if rec.Endpoints["/tweet"].Total != 8 {
		t.Error("input endpoint total was mutated")
	}
}

func TestLookupLatency(t *testing.T) {
	metrics := models.MetricsResponse{
		"/tweet": {Count: 10, MeanMs: 12, P99Ms: 80},
		"/zero":  {},
	}

	m, ok := LookupLatency(metrics, "/tweet")
	if !ok {
		t.Fatal("expected /tweet metrics to be present")
	}
	if m.Count != 10 || m.P99Ms != 80 {
		t.Errorf("unexpected metrics: %+v", m)
	}

	// Zero metrics are present, not absent.
	if _, ok := LookupLatency(metrics, "/zero"); !ok {
		t.Error("zero-valued metrics must report present")
	}

	// Absent means no data yet, not zero latency.
	if _, ok := LookupLatency(metrics, "/user"); ok {
		t.Error("absent endpoint must report not-present")
	}
}
