// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/barkgg/barkdash/internal/models"
	"github.com/barkgg/barkdash/internal/services"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Keys    bool
	Usage   bool
	Stats   bool
}

// State is the shared application state consumed by all tabs.
type State struct {
	mu sync.RWMutex

	Keys             []models.KeyWithUsage
	Stats            *services.StatsEvent
	SelectedKeyIndex int
	RangeDays        int

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the initial application state.
func NewState() *State {
	return &State{
		Keys:          make([]models.KeyWithUsage, 0),
		RangeDays:     14,
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "keys":
		s.Loading.Keys = loading
	case "usage":
		s.Loading.Usage = loading
	case "stats":
		s.Loading.Stats = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Keys ||
		s.Loading.Usage ||
		s.Loading.Stats
}

// GetLoadingResources returns the names of resources currently loading.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Keys {
		resources = append(resources, "keys")
	}
	if s.Loading.Usage {
		resources = append(resources, "usage")
	}
	if s.Loading.Stats {
		resources = append(resources, "stats")
	}
	return resources
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// SetKeys updates the keys list, clamping the selection to the new length.
func (s *State) SetKeys(keysWithUsage []models.KeyWithUsage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Keys = keysWithUsage
	s.LastUpdated = time.Now()

	if s.SelectedKeyIndex >= len(keysWithUsage) {
		s.SelectedKeyIndex = len(keysWithUsage) - 1
	}
	if s.SelectedKeyIndex < 0 {
		s.SelectedKeyIndex = 0
	}
}

// GetKeys returns a copy of the keys list.
func (s *State) GetKeys() []models.KeyWithUsage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keysWithUsage := make([]models.KeyWithUsage, len(s.Keys))
	copy(keysWithUsage, s.Keys)
	return keysWithUsage
}

// GetKeyCount returns the number of keys.
func (s *State) GetKeyCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Keys)
}

// GetSelectedKey returns the currently selected key, or nil when empty.
func (s *State) GetSelectedKey() *models.KeyWithUsage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.Keys) == 0 || s.SelectedKeyIndex < 0 || s.SelectedKeyIndex >= len(s.Keys) {
		return nil
	}
	k := s.Keys[s.SelectedKeyIndex]
	return &k
}

// GetSelectedKeyIndex returns the currently selected key index.
func (s *State) GetSelectedKeyIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SelectedKeyIndex
}

// SetSelectedKeyIndex updates the selected key index.
func (s *State) SetSelectedKeyIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx < 0 {
		idx = 0
	}
	if len(s.Keys) > 0 && idx >= len(s.Keys) {
		idx = len(s.Keys) - 1
	}
	s.SelectedKeyIndex = idx
}

// SelectNextKey moves the selection forward, wrapping around.
func (s *State) SelectNextKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Keys) == 0 {
		return
	}
	s.SelectedKeyIndex = (s.SelectedKeyIndex + 1) % len(s.Keys)
}

// SelectPrevKey moves the selection backward, wrapping around.
func (s *State) SelectPrevKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Keys) == 0 {
		return
	}
	s.SelectedKeyIndex = (s.SelectedKeyIndex - 1 + len(s.Keys)) % len(s.Keys)
}

// GetRangeDays returns the current chart window width in days.
func (s *State) GetRangeDays() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RangeDays
}

// SetRangeDays updates the chart window width.
func (s *State) SetRangeDays(days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if days > 0 {
		s.RangeDays = days
	}
}

// SetStats updates the statistics.
func (s *State) SetStats(stats services.StatsEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stats = &stats
}

// GetStats returns the current statistics.
func (s *State) GetStats() *services.StatsEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Stats
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
