// Package usagesvc provides background usage fetching and caching per API key.
package usagesvc

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/barkgg/barkdash/internal/logger"
	"github.com/barkgg/barkdash/internal/models"
	"github.com/barkgg/barkdash/internal/usage"
)

// KeyProvider is an interface for listing the configured API keys.
type KeyProvider interface {
	List() []models.KeyEntry
}

// Fetcher is the API surface the service needs. Satisfied by *api.Client.
type Fetcher interface {
	FetchUsage(ctx context.Context, apiKey string, rng models.DateRange) (models.UsageRecord, error)
	FetchMetrics(ctx context.Context, apiKey string) (models.MetricsResponse, error)
	SendEmergencyAlert(ctx context.Context, apiKey string) error
}

// Event represents a usage service event.
type Event struct {
	Error    error
	Snapshot *models.UsageSnapshot
	KeyID    string
	Type     EventType
}

// EventType defines the type of usage event.
type EventType int

const (
	// EventUsageUpdated indicates that usage data has been refreshed for a key.
	EventUsageUpdated EventType = iota
	// EventUsageRefreshing indicates that a refresh is in progress.
	EventUsageRefreshing
	// EventUsageError indicates that an error occurred during refresh.
	EventUsageError
	// EventAlertSent indicates an emergency alert was delivered.
	EventAlertSent
	// EventAlertError indicates an emergency alert failed.
	EventAlertError
)

// Config holds configuration for the usage service.
type Config struct {
	PollInterval  time.Duration
	RangeDays     int
	MaxConcurrent int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval:  60 * time.Second,
		RangeDays:     14,
		MaxConcurrent: 5,
	}
}

// Service fetches usage and latency data for every configured key on a
// timer and caches the latest snapshot per key.
type Service struct {
	keyProvider KeyProvider
	fetcher     Fetcher
	cache       map[string]*models.UsageSnapshot
	eventChan   chan Event
	stopChan    chan struct{}
	pollTicker  *time.Ticker
	refreshSem  chan struct{}
	config      Config
	rng         models.DateRange
	mu          sync.RWMutex
}

// New creates a new usage service and starts the polling goroutine.
func New(provider KeyProvider, fetcher Fetcher, config Config) *Service {
	if config.PollInterval == 0 {
		config = DefaultConfig()
	}
	if config.RangeDays <= 0 {
		config.RangeDays = DefaultConfig().RangeDays
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = DefaultConfig().MaxConcurrent
	}

	s := &Service{
		keyProvider: provider,
		fetcher:     fetcher,
		cache:       make(map[string]*models.UsageSnapshot),
		eventChan:   make(chan Event, 100),
		stopChan:    make(chan struct{}),
		config:      config,
		rng:         rangeEndingToday(config.RangeDays),
		refreshSem:  make(chan struct{}, config.MaxConcurrent),
	}

	go s.poll()

	return s
}

// rangeEndingToday builds a date range covering the last n days including today.
func rangeEndingToday(days int) models.DateRange {
	now := time.Now()
	return models.DateRange{
		From: usage.FormatISODate(now.AddDate(0, 0, -(days - 1))),
		To:   usage.FormatISODate(now),
	}
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Range returns the date range currently being fetched.
func (s *Service) Range() models.DateRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rng
}

// RangeDays returns the width of the current range in days.
func (s *Service) RangeDays() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.RangeDays
}

// SetRangeDays changes the fetch window and refreshes all keys.
func (s *Service) SetRangeDays(days int) {
	if days <= 0 {
		return
	}

	s.mu.Lock()
	s.config.RangeDays = days
	s.rng = rangeEndingToday(days)
	s.mu.Unlock()

	go s.RefreshAll()
}

// GetSnapshot returns the cached snapshot for a key, or nil.
func (s *Service) GetSnapshot(keyID string) *models.UsageSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[keyID]
}

// GetAllSnapshots returns all cached snapshots keyed by key ID.
func (s *Service) GetAllSnapshots() map[string]*models.UsageSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*models.UsageSnapshot, len(s.cache))
	maps.Copy(result, s.cache)
	return result
}

// Refresh fetches fresh usage and latency data for a single key.
func (s *Service) Refresh(entry models.KeyEntry) (*models.UsageSnapshot, error) {
	s.sendEvent(Event{Type: EventUsageRefreshing, KeyID: entry.ID})

	rng := s.Range()
	ctx := context.Background()

	record, err := s.fetcher.FetchUsage(ctx, entry.Key, rng)
	if err != nil {
		return s.handleError(entry.ID, err)
	}

	snapshot := &models.UsageSnapshot{
		KeyID:     entry.ID,
		Usage:     record,
		FetchedAt: time.Now(),
	}

	// Latency metrics are best-effort: a failure here keeps the usage data.
	metrics, err := s.fetcher.FetchMetrics(ctx, entry.Key)
	if err != nil {
		logger.Warn("failed to fetch metrics", "key", entry.ID, "error", err)
	} else {
		snapshot.Metrics = metrics
	}

	s.mu.Lock()
	s.cache[entry.ID] = snapshot
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventUsageUpdated, KeyID: entry.ID, Snapshot: snapshot})
	return snapshot, nil
}

func (s *Service) handleError(keyID string, err error) (*models.UsageSnapshot, error) {
	snapshot := &models.UsageSnapshot{
		KeyID:     keyID,
		FetchedAt: time.Now(),
		Error:     err.Error(),
	}
	s.mu.Lock()
	s.cache[keyID] = snapshot
	s.mu.Unlock()
	s.sendEvent(Event{Type: EventUsageError, KeyID: keyID, Snapshot: snapshot, Error: err})
	return snapshot, err
}

// RefreshAll refreshes usage for all configured keys concurrently.
func (s *Service) RefreshAll() {
	if s.keyProvider == nil {
		return
	}

	entries := s.keyProvider.List()
	var wg sync.WaitGroup

	for i := range entries {
		entry := entries[i]
		wg.Add(1)
		go func(entry models.KeyEntry) {
			defer wg.Done()

			// Acquire semaphore
			s.refreshSem <- struct{}{}
			defer func() { <-s.refreshSem }()

			if _, err := s.Refresh(entry); err != nil {
				logger.Error("failed to refresh usage", "key", entry.ID, "error", err)
			}
		}(entry)
	}

	wg.Wait()
}

// SendEmergencyAlert triggers an emergency alert for the given key.
func (s *Service) SendEmergencyAlert(entry models.KeyEntry) error {
	err := s.fetcher.SendEmergencyAlert(context.Background(), entry.Key)
	if err != nil {
		s.sendEvent(Event{Type: EventAlertError, KeyID: entry.ID, Error: err})
		return err
	}

	s.sendEvent(Event{Type: EventAlertSent, KeyID: entry.ID})
	return nil
}

// poll runs the background polling goroutine.
func (s *Service) poll() {
	// Initial refresh
	s.RefreshAll()

	s.pollTicker = time.NewTicker(s.config.PollInterval)
	defer s.pollTicker.Stop()

	for {
		select {
		case <-s.pollTicker.C:
			s.RefreshAll()
		case <-s.stopChan:
			return
		}
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the service and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)
	return nil
}

// Stats returns statistics about cached snapshots.
type Stats struct {
	CachedKeys  int
	HealthyKeys int
	TotalCalls  int
}

// GetStats returns current statistics.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{CachedKeys: len(s.cache)}
	for _, snap := range s.cache {
		if snap.HasData() {
			stats.HealthyKeys++
			stats.TotalCalls += snap.Usage.Total
		}
	}
	return stats
}
