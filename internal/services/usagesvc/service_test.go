package usagesvc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/barkgg/barkdash/internal/models"
)

// MockKeyProvider implements KeyProvider for testing.
type MockKeyProvider struct {
	keys []models.KeyEntry
	mu   sync.Mutex
}

func (m *MockKeyProvider) List() []models.KeyEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.KeyEntry, len(m.keys))
	copy(out, m.keys)
	return out
}

// MockFetcher implements Fetcher for testing.
type MockFetcher struct {
	mu          sync.Mutex
	usageCalls  int
	lastRange   models.DateRange
	usage       models.UsageRecord
	usageErr    error
	metrics     models.MetricsResponse
	metricsErr  error
	alertErr    error
	alertedKeys []string
}

func (m *MockFetcher) FetchUsage(_ context.Context, _ string, rng models.DateRange) (models.UsageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usageCalls++
	m.lastRange = rng
	return m.usage, m.usageErr
}

func (m *MockFetcher) FetchMetrics(_ context.Context, _ string) (models.MetricsResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics, m.metricsErr
}

func (m *MockFetcher) SendEmergencyAlert(_ context.Context, apiKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alertedKeys = append(m.alertedKeys, apiKey)
	return m.alertErr
}

func newTestService(t *testing.T, provider *MockKeyProvider, fetcher *MockFetcher) *Service {
	t.Helper()

	// Long poll interval so the test controls all refreshes.
	cfg := Config{PollInterval: time.Hour, RangeDays: 14, MaxConcurrent: 2}
	svc := New(provider, fetcher, cfg)
	t.Cleanup(func() {
		_ = svc.Close()
	})
	return svc
}

func drainUntil(t *testing.T, svc *Service, want EventType) Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-svc.Events():
			if ev.Type == want {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event type %v", want)
		}
	}
}

func TestRefresh_CachesSnapshot(t *testing.T) {
	provider := &MockKeyProvider{}
	fetcher := &MockFetcher{
		usage: models.UsageRecord{
			Total:            42,
			CreditsRemaining: 900,
			Endpoints: map[string]models.EndpointUsage{
				"/tweet": {Total: 42, Days: map[string]models.DayUsage{
					"2026-08-29": {Total: 42},
				}},
			},
		},
		metrics: models.MetricsResponse{
			"/tweet": {Count: 42, MeanMs: 12.5},
		},
	}
	svc := newTestService(t, provider, fetcher)

	entry := models.KeyEntry{ID: "key_1", Key: "bark_live_abcdef123456"}
	snap, err := svc.Refresh(entry)
	if err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}

	if snap.Usage.Total != 42 {
		t.Errorf("snapshot total = %d, want 42", snap.Usage.Total)
	}
	if snap.Metrics["/tweet"].Count != 42 {
		t.Errorf("snapshot metrics count = %d, want 42", snap.Metrics["/tweet"].Count)
	}

	cached := svc.GetSnapshot("key_1")
	if cached == nil || !cached.HasData() {
		t.Fatal("GetSnapshot() should return a healthy cached snapshot")
	}

	ev := drainUntil(t, svc, EventUsageUpdated)
	if ev.KeyID != "key_1" {
		t.Errorf("event key = %q, want key_1", ev.KeyID)
	}
}

func TestRefresh_UsageError(t *testing.T) {
	provider := &MockKeyProvider{}
	fetcher := &MockFetcher{usageErr: errors.New("boom")}
	svc := newTestService(t, provider, fetcher)

	entry := models.KeyEntry{ID: "key_1", Key: "bark_live_abcdef123456"}
	snap, err := svc.Refresh(entry)
	if err == nil {
		t.Fatal("Refresh() should propagate the fetch error")
	}

	if snap.Error == "" {
		t.Error("snapshot should record the error")
	}
	if snap.HasData() {
		t.Error("errored snapshot should not report data")
	}

	ev := drainUntil(t, svc, EventUsageError)
	if ev.Error == nil {
		t.Error("error event should carry the error")
	}
}

func TestRefresh_MetricsErrorKeepsUsage(t *testing.T) {
	provider := &MockKeyProvider{}
	fetcher := &MockFetcher{
		usage:      models.UsageRecord{Total: 7, Endpoints: map[string]models.EndpointUsage{}},
		metricsErr: errors.New("metrics down"),
	}
	svc := newTestService(t, provider, fetcher)

	snap, err := svc.Refresh(models.KeyEntry{ID: "key_1", Key: "k"})
	if err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}

	if snap.Usage.Total != 7 {
		t.Errorf("usage total = %d, want 7", snap.Usage.Total)
	}
	if snap.Error != "" {
		t.Errorf("metrics failure should not mark the snapshot errored, got %q", snap.Error)
	}
}

func TestRefreshAll(t *testing.T) {
	provider := &MockKeyProvider{keys: []models.KeyEntry{
		{ID: "key_1", Key: "k1"},
		{ID: "key_2", Key: "k2"},
		{ID: "key_3", Key: "k3"},
	}}
	fetcher := &MockFetcher{usage: models.UsageRecord{Total: 1}}
	svc := newTestService(t, provider, fetcher)

	svc.RefreshAll()

	snaps := svc.GetAllSnapshots()
	if len(snaps) != 3 {
		t.Fatalf("GetAllSnapshots() returned %d entries, want 3", len(snaps))
	}

	stats := svc.GetStats()
	if stats.HealthyKeys != 3 {
		t.Errorf("HealthyKeys = %d, want 3", stats.HealthyKeys)
	}
	if stats.TotalCalls != 3 {
		t.Errorf("TotalCalls = %d, want 3", stats.TotalCalls)
	}
}

func TestSetRangeDays(t *testing.T) {
	provider := &MockKeyProvider{}
	fetcher := &MockFetcher{}
	svc := newTestService(t, provider, fetcher)

	svc.SetRangeDays(7)

	if svc.RangeDays() != 7 {
		t.Errorf("RangeDays() = %d, want 7", svc.RangeDays())
	}

	rng := svc.Range()
	if rng.From == "" || rng.To == "" || rng.From > rng.To {
		t.Errorf("invalid range after SetRangeDays: %+v", rng)
	}

	// Zero and negative widths are ignored.
	svc.SetRangeDays(0)
	if svc.RangeDays() != 7 {
		t.Errorf("RangeDays() after SetRangeDays(0) = %d, want 7", svc.RangeDays())
	}
}

func TestRefresh_UsesCurrentRange(t *testing.T) {
	provider := &MockKeyProvider{}
	fetcher := &MockFetcher{}
	svc := newTestService(t, provider, fetcher)

	svc.SetRangeDays(7)
	if _, err := svc.Refresh(models.KeyEntry{ID: "key_1", Key: "k"}); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}

	fetcher.mu.Lock()
	got := fetcher.lastRange
	fetcher.mu.Unlock()

	want := svc.Range()
	if got != want {
		t.Errorf("fetch used range %+v, want %+v", got, want)
	}
}

func TestSendEmergencyAlert(t *testing.T) {
	provider := &MockKeyProvider{}
	fetcher := &MockFetcher{}
	svc := newTestService(t, provider, fetcher)

	entry := models.KeyEntry{ID: "key_1", Key: "bark_live_abcdef123456"}
	if err := svc.SendEmergencyAlert(entry); err != nil {
		t.Fatalf("SendEmergencyAlert() failed: %v", err)
	}

	ev := drainUntil(t, svc, EventAlertSent)
	if ev.KeyID != "key_1" {
		t.Errorf("alert event key = %q, want key_1", ev.KeyID)
	}
}

func TestSendEmergencyAlert_Error(t *testing.T) {
	provider := &MockKeyProvider{}
	fetcher := &MockFetcher{alertErr: errors.New("denied")}
	svc := newTestService(t, provider, fetcher)

	if err := svc.SendEmergencyAlert(models.KeyEntry{ID: "key_1", Key: "k"}); err == nil {
		t.Fatal("SendEmergencyAlert() should propagate the error")
	}

	drainUntil(t, svc, EventAlertError)
}
