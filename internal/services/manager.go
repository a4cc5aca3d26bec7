// Package services provides service orchestration for the TUI.
package services

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/barkgg/barkdash/internal/api"
	"github.com/barkgg/barkdash/internal/config"
	"github.com/barkgg/barkdash/internal/db"
	"github.com/barkgg/barkdash/internal/logger"
	"github.com/barkgg/barkdash/internal/models"
	"github.com/barkgg/barkdash/internal/services/keys"
	"github.com/barkgg/barkdash/internal/services/usagesvc"
)

// lowCreditsThreshold is the credit balance below which a desktop
// notification fires on a downward crossing.
const lowCreditsThreshold = 100

type (
	// KeysChangedEvent is emitted when the key ring changes.
	KeysChangedEvent struct {
		Keys []models.KeyEntry
	}

	// UsageUpdatedEvent is emitted when usage data is refreshed for a key.
	UsageUpdatedEvent struct {
		KeyID    string
		Snapshot *models.UsageSnapshot
	}

	// UsageRefreshingEvent is emitted when a usage refresh starts for a key.
	UsageRefreshingEvent struct {
		KeyID string
	}

	// AlertSentEvent is emitted when an emergency alert is delivered.
	AlertSentEvent struct {
		KeyID string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}

	// StatsEvent is emitted when global statistics change.
	StatsEvent struct {
		KeyCount    int
		CachedKeys  int
		HealthyKeys int
		TotalCalls  int
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (KeysChangedEvent) isServiceEvent()     {}
func (UsageUpdatedEvent) isServiceEvent()    {}
func (UsageRefreshingEvent) isServiceEvent() {}
func (AlertSentEvent) isServiceEvent()       {}
func (ErrorEvent) isServiceEvent()           {}
func (StatsEvent) isServiceEvent()           {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu            sync.RWMutex
	keys          *keys.Service
	usage         *usagesvc.Service
	database      *db.DB
	client        *api.Client
	eventChan     chan ServiceEvent
	stopChan      chan struct{}
	subscribers   []chan<- ServiceEvent
	previousSnaps map[string]*models.UsageSnapshot
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		eventChan:     make(chan ServiceEvent, 100),
		stopChan:      make(chan struct{}),
		previousSnaps: make(map[string]*models.UsageSnapshot),
	}

	var err error
	m.keys, err = keys.New(cfg.KeysPath)
	if err != nil {
		return nil, err
	}

	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.client = api.New(cfg.APIBaseURL, cfg.RequestTimeout)

	usageConfig := usagesvc.DefaultConfig()
	usageConfig.PollInterval = cfg.RefreshInterval
	usageConfig.RangeDays = cfg.RangeDays

	m.usage = usagesvc.New(m.keys, m.client, usageConfig)

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.keys.Events():
			m.handleKeyEvent(event)

		case event := <-m.usage.Events():
			m.handleUsageEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleKeyEvent converts and broadcasts key ring events.
func (m *Manager) handleKeyEvent(event keys.Event) {
	switch event.Type {
	case keys.EventKeysLoaded, keys.EventKeysChanged,
		keys.EventKeyAdded, keys.EventKeyUpdated, keys.EventKeyDeleted:

		if event.Type == keys.EventKeyDeleted && event.Key != nil {
			if err := m.database.DeleteSnapshot(event.Key.ID); err != nil {
				logger.Warn("failed to drop cached snapshot", "key", event.Key.ID, "error", err)
			}
		}

		if event.Type == keys.EventKeyAdded && event.Key != nil {
			entry := *event.Key
			go func() {
				if _, err := m.usage.Refresh(entry); err != nil {
					logger.Error("failed to refresh new key", "key", entry.ID, "error", err)
				}
			}()
		}

		m.broadcast(KeysChangedEvent{Keys: m.keys.List()})

	case keys.EventError:
		m.broadcast(ErrorEvent{
			Service: "keys",
			Error:   event.Error,
		})
	}
}

func (m *Manager) handleUsageEvent(event usagesvc.Event) {
	switch event.Type {
	case usagesvc.EventUsageUpdated:
		m.broadcast(UsageUpdatedEvent{
			KeyID:    event.KeyID,
			Snapshot: event.Snapshot,
		})

		if event.Snapshot != nil {
			m.checkNotifications(event.KeyID, event.Snapshot)
			go m.persistSnapshot(event.Snapshot)
		}

	case usagesvc.EventUsageRefreshing:
		m.broadcast(UsageRefreshingEvent{KeyID: event.KeyID})

	case usagesvc.EventAlertSent:
		m.broadcast(AlertSentEvent{KeyID: event.KeyID})
		m.notifyAlertSent(event.KeyID)

	case usagesvc.EventUsageError, usagesvc.EventAlertError:
		m.broadcast(ErrorEvent{
			Service: "usage",
			Error:   event.Error,
		})
	}
}

// checkNotifications fires desktop notifications on credit threshold crossings.
func (m *Manager) checkNotifications(keyID string, snap *models.UsageSnapshot) {
	m.mu.Lock()
	prev, exists := m.previousSnaps[keyID]
	m.previousSnaps[keyID] = snap
	m.mu.Unlock()

	if !exists || !prev.HasData() || !snap.HasData() {
		return
	}

	name := m.keyDisplayName(keyID)

	// Only notify on a downward crossing of the threshold
	newCredits := snap.Usage.CreditsRemaining
	oldCredits := prev.Usage.CreditsRemaining
	if newCredits < lowCreditsThreshold && oldCredits >= lowCreditsThreshold {
		title := fmt.Sprintf("Low Credits: %s", name)
		body := fmt.Sprintf("Only %d credits remaining", newCredits)
		_ = beeep.Notify(title, body, "")
	}

	// Notify when the balance jumps back up (top-up or renewal)
	if oldCredits < lowCreditsThreshold && newCredits >= lowCreditsThreshold && newCredits >= oldCredits*2 {
		title := fmt.Sprintf("Credits Restored: %s", name)
		body := fmt.Sprintf("Balance is back to %d credits", newCredits)
		_ = beeep.Notify(title, body, "")
	}
}

func (m *Manager) notifyAlertSent(keyID string) {
	title := fmt.Sprintf("Emergency Alert Sent: %s", m.keyDisplayName(keyID))
	_ = beeep.Notify(title, "The API operator has been notified.", "")
}

func (m *Manager) keyDisplayName(keyID string) string {
	if entry, ok := m.keys.Get(keyID); ok {
		return entry.DisplayName()
	}
	return keyID
}

// persistSnapshot writes a refreshed snapshot to the local cache database.
func (m *Manager) persistSnapshot(snap *models.UsageSnapshot) {
	if m.database == nil {
		return
	}
	if err := m.database.SaveSnapshot(snap); err != nil {
		logger.Error("failed to persist snapshot", "key", snap.KeyID, "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// GetKeysWithUsage returns all keys paired with their latest snapshots.
// Keys with no fresh data fall back to the cached snapshot on disk.
func (m *Manager) GetKeysWithUsage() []models.KeyWithUsage {
	entries := m.keys.List()
	snaps := m.usage.GetAllSnapshots()

	result := make([]models.KeyWithUsage, len(entries))
	for i, entry := range entries {
		snap := snaps[entry.ID]
		if snap == nil && m.database != nil {
			if cached, err := m.database.LoadSnapshot(entry.ID); err == nil {
				snap = cached
			}
		}
		result[i] = models.KeyWithUsage{
			Entry:    entry,
			Snapshot: snap,
		}
	}
	return result
}

// RefreshUsage forces a refresh of usage for all keys.
func (m *Manager) RefreshUsage() {
	m.usage.RefreshAll()
}

// RefreshUsageForKey forces a refresh of usage for a specific key.
func (m *Manager) RefreshUsageForKey(keyID string) (*models.UsageSnapshot, error) {
	entry, ok := m.keys.Get(keyID)
	if !ok {
		return nil, fmt.Errorf("key not found: %s", keyID)
	}
	return m.usage.Refresh(entry)
}

// SetRangeDays changes the fetch window for all keys.
func (m *Manager) SetRangeDays(days int) {
	m.usage.SetRangeDays(days)
}

// SendEmergencyAlert triggers an emergency alert for a specific key.
func (m *Manager) SendEmergencyAlert(keyID string) error {
	entry, ok := m.keys.Get(keyID)
	if !ok {
		return fmt.Errorf("key not found: %s", keyID)
	}
	return m.usage.SendEmergencyAlert(entry)
}

// GetStats returns aggregated statistics.
func (m *Manager) GetStats() StatsEvent {
	usageStats := m.usage.GetStats()

	return StatsEvent{
		KeyCount:    m.keys.Count(),
		CachedKeys:  usageStats.CachedKeys,
		HealthyKeys: usageStats.HealthyKeys,
		TotalCalls:  usageStats.TotalCalls,
	}
}

// Keys returns the key ring service.
func (m *Manager) Keys() *keys.Service {
	return m.keys
}

// Usage returns the usage service.
func (m *Manager) Usage() *usagesvc.Service {
	return m.usage
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.keys.Close(); err != nil {
		errs = append(errs, err)
	}

	if err := m.usage.Close(); err != nil {
		errs = append(errs, err)
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// InitialState returns the initial state of all services for TUI initialization.
func (m *Manager) InitialState() ([]models.KeyWithUsage, StatsEvent) {
	keysWithUsage := m.GetKeysWithUsage()
	stats := m.GetStats()

	return keysWithUsage, stats
}
