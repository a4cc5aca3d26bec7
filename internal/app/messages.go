package app

import (
	"time"

	"github.com/barkgg/barkdash/internal/models"
	"github.com/barkgg/barkdash/internal/services"
)

// TickMsg is sent periodically to refresh the UI.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a loading operation has started.
type StartLoadingMsg struct {
	Resource string
	Message  string
}

// StopLoadingMsg signals that a loading operation has completed.
type StopLoadingMsg struct {
	Resource string
}

// KeysLoadedMsg is sent when the key list with usage has been loaded.
type KeysLoadedMsg struct {
	Keys []models.KeyWithUsage
	Err  error
}

// UsageRefreshedMsg is sent when a usage refresh completes.
type UsageRefreshedMsg struct {
	Err error
}

// StatsLoadedMsg is sent when statistics have been loaded.
type StatsLoadedMsg struct {
	Stats services.StatsEvent
	Err   error
}

// AddKeyResultMsg is sent when an add-key operation completes.
type AddKeyResultMsg struct {
	Label string
	Err   error
}

// RenameKeyResultMsg is sent when a rename completes.
type RenameKeyResultMsg struct {
	KeyID string
	Label string
	Err   error
}

// RemoveKeyResultMsg is sent when a key removal completes.
type RemoveKeyResultMsg struct {
	KeyID string
	Err   error
}

// AlertResultMsg is sent when an emergency alert request completes.
type AlertResultMsg struct {
	KeyID string
	Err   error
}

// RangeChangedMsg is sent when the chart window width has been changed.
type RangeChangedMsg struct {
	Days int
}

// RefreshMsg triggers a manual refresh of a resource.
type RefreshMsg struct {
	Resource string
	Message  string
}

// AddNotificationMsg adds a notification to the state.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg removes a notification by ID.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg removes expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ToggleHelpMsg toggles the help overlay.
type ToggleHelpMsg struct{}

// CopyToClipboardMsg requests copying text to the system clipboard.
type CopyToClipboardMsg struct {
	Text string
}

// ServiceEventMsg wraps an event from a backend service.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg carries the subscription channel after subscribing.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// TabSwitchMsg requests a switch to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// WindowSizeChangedMsg is sent when the terminal window is resized.
type WindowSizeChangedMsg struct {
	Width  int
	Height int
}

// ErrorMsg wraps a generic application error.
type ErrorMsg struct {
	Err     error
	Context string
}

// Error implements the error interface.
func (e ErrorMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}
