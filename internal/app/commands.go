package app

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/barkgg/barkdash/internal/models"
	"github.com/barkgg/barkdash/internal/services"
)

const (
	// DefaultTickInterval is the interval for periodic UI updates.
	DefaultTickInterval = 2 * time.Second

	// NotificationDurationShort is for transient notifications.
	NotificationDurationShort = 3 * time.Second
	// NotificationDurationMedium is for standard notifications.
	NotificationDurationMedium = 5 * time.Second
	// NotificationDurationLong is for important notifications.
	NotificationDurationLong = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the tick interval.
func tickCmd() tea.Cmd {
	return tea.Tick(DefaultTickInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// loadInitialData loads keys and stats on startup.
func loadInitialData(manager *services.Manager) tea.Cmd {
	return tea.Batch(
		loadKeysCmd(manager),
		loadStatsCmd(manager),
	)
}

// loadKeysCmd loads the key list with cached usage from the manager.
func loadKeysCmd(manager *services.Manager) tea.Cmd {
	return func() tea.Msg {
		keysWithUsage := manager.GetKeysWithUsage()
		return KeysLoadedMsg{Keys: keysWithUsage}
	}
}

// loadStatsCmd loads statistics from the manager.
func loadStatsCmd(manager *services.Manager) tea.Cmd {
	return func() tea.Msg {
		stats := manager.GetStats()
		return StatsLoadedMsg{Stats: stats}
	}
}

// refreshUsageCmd triggers a usage refresh for all keys.
func refreshUsageCmd(manager *services.Manager) tea.Cmd {
	return func() tea.Msg {
		manager.RefreshUsage()
		return UsageRefreshedMsg{}
	}
}

// refreshKeyUsageCmd triggers a usage refresh for a single key.
func refreshKeyUsageCmd(manager *services.Manager, keyID string) tea.Cmd {
	return func() tea.Msg {
		if _, err := manager.RefreshUsageForKey(keyID); err != nil {
			return UsageRefreshedMsg{Err: err}
		}
		return UsageRefreshedMsg{}
	}
}

// setRangeCmd changes the chart window width and kicks off a refresh.
func setRangeCmd(manager *services.Manager, days int) tea.Cmd {
	return func() tea.Msg {
		manager.SetRangeDays(days)
		return RangeChangedMsg{Days: days}
	}
}

// sendAlertCmd sends an emergency alert for the given key.
func sendAlertCmd(manager *services.Manager, keyID string) tea.Cmd {
	return func() tea.Msg {
		err := manager.SendEmergencyAlert(keyID)
		return AlertResultMsg{KeyID: keyID, Err: err}
	}
}

// addKeyCmd adds a new API key.
func addKeyCmd(manager *services.Manager, apiKey, label string) tea.Cmd {
	return func() tea.Msg {
		err := manager.Keys().Add(models.KeyEntry{Key: apiKey, Label: label})
		return AddKeyResultMsg{Label: label, Err: err}
	}
}

// renameKeyCmd renames an API key.
func renameKeyCmd(manager *services.Manager, keyID, label string) tea.Cmd {
	return func() tea.Msg {
		err := manager.Keys().Rename(keyID, label)
		return RenameKeyResultMsg{KeyID: keyID, Label: label, Err: err}
	}
}

// removeKeyCmd removes an API key.
func removeKeyCmd(manager *services.Manager, keyID string) tea.Cmd {
	return func() tea.Msg {
		err := manager.Keys().Remove(keyID)
		return RemoveKeyResultMsg{KeyID: keyID, Err: err}
	}
}

// subscribeToServicesCmd subscribes to the manager's event stream.
func subscribeToServicesCmd(manager *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ch, _ := manager.Subscribe()
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd waits for the next service event on a subscription channel.
func waitForServiceEventCmd(ch chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// copyToClipboardCmd copies text to the system clipboard and reports the result.
func copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return AddNotificationMsg{
				Type:     NotificationError,
				Message:  fmt.Sprintf("Copy failed: %v", err),
				Duration: NotificationDurationMedium,
			}
		}
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  "Copied to clipboard",
			Duration: NotificationDurationShort,
		}
	}
}

// clearNotificationCmd removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd creates a success notification command.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: NotificationDurationShort,
		}
	}
}

// notifyErrorCmd creates an error notification command.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: NotificationDurationLong,
		}
	}
}

// notifyWarningCmd creates a warning notification command.
func notifyWarningCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: NotificationDurationMedium,
		}
	}
}

// notifyInfoCmd creates an info notification command.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: NotificationDurationShort,
		}
	}
}

// delayedCmd runs a command after a delay.
func delayedCmd(delay time.Duration, cmd tea.Cmd) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return cmd()
	})
}

// Commands provides tab code access to manager-backed commands.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a Commands instance for the given manager.
func NewCommands(manager *services.Manager) *Commands {
	return &Commands{manager: manager}
}

// Tick returns a command that ticks after the given duration.
func (c *Commands) Tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// DefaultTick returns a command that ticks at the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return tickCmd()
}

// ClearNotification removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Quit returns the quit command.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}

// Batch combines multiple commands into one.
func (c *Commands) Batch(cmds ...tea.Cmd) tea.Cmd {
	return tea.Batch(cmds...)
}

// Delayed returns a command that delivers msg after a delay.
func (c *Commands) Delayed(delay time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return msg
	})
}

// LoadKeys returns a command that loads the key list.
func (c *Commands) LoadKeys() tea.Cmd {
	return loadKeysCmd(c.manager)
}

// RefreshUsage returns a command that refreshes usage for all keys.
func (c *Commands) RefreshUsage() tea.Cmd {
	return refreshUsageCmd(c.manager)
}

// RefreshKeyUsage returns a command that refreshes usage for one key.
func (c *Commands) RefreshKeyUsage(keyID string) tea.Cmd {
	return refreshKeyUsageCmd(c.manager, keyID)
}

// SetRange returns a command that changes the chart window width.
func (c *Commands) SetRange(days int) tea.Cmd {
	return setRangeCmd(c.manager, days)
}

// SendAlert returns a command that sends an emergency alert.
func (c *Commands) SendAlert(keyID string) tea.Cmd {
	return sendAlertCmd(c.manager, keyID)
}

// AddKey returns a command that adds a new API key.
func (c *Commands) AddKey(apiKey, label string) tea.Cmd {
	return addKeyCmd(c.manager, apiKey, label)
}

// RenameKey returns a command that renames an API key.
func (c *Commands) RenameKey(keyID, label string) tea.Cmd {
	return renameKeyCmd(c.manager, keyID, label)
}

// RemoveKey returns a command that removes an API key.
func (c *Commands) RemoveKey(keyID string) tea.Cmd {
	return removeKeyCmd(c.manager, keyID)
}

// NotifySuccess returns a success notification command.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns an error notification command.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a warning notification command.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns an info notification command.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}
