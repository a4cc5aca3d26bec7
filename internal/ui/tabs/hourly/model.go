// Package hourly provides the per-day hourly breakdown tab.
package hourly

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/barkgg/barkdash/internal/app"
	"github.com/barkgg/barkdash/internal/models"
	"github.com/barkgg/barkdash/internal/usage"
)

// keyMap defines the key bindings specific to the hourly tab.
type keyMap struct {
	PrevDay key.Binding
	NextDay key.Binding
	NextKey key.Binding
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
}

// defaultKeyMap returns the default key bindings for the hourly tab.
func defaultKeyMap() keyMap {
	return keyMap{
		PrevDay: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "older day"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "newer day"),
		),
		NextKey: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next key"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the hourly tab state.
type Model struct {
	state    *app.State
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	// dateIndex selects from the available dates of the selected key,
	// most recent first. Reset when the key or its data changes.
	dateIndex int
}

// New creates a new hourly model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the hourly tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the hourly tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case app.KeysLoadedMsg:
		m.clampDateIndex()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PrevDay):
		dates := m.availableDates()
		if m.dateIndex < len(dates)-1 {
			m.dateIndex++
		}

	case key.Matches(msg, m.keys.NextDay):
		if m.dateIndex > 0 {
			m.dateIndex--
		}

	case key.Matches(msg, m.keys.NextKey):
		m.state.SelectNextKey()
		m.dateIndex = 0

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// selectedRecord returns the usage record of the selected key, if any.
func (m *Model) selectedRecord() (models.UsageRecord, bool) {
	selected := m.state.GetSelectedKey()
	if selected == nil || !selected.Snapshot.HasData() {
		return models.UsageRecord{}, false
	}
	return selected.Snapshot.Usage, true
}

// availableDates lists the selected key's days with data, newest first.
func (m *Model) availableDates() []string {
	rec, ok := m.selectedRecord()
	if !ok {
		return nil
	}
	return usage.AvailableDates(rec, usage.Descending)
}

// selectedDate returns the date the picker currently points at.
func (m *Model) selectedDate() string {
	dates := m.availableDates()
	if len(dates) == 0 {
		return ""
	}
	if m.dateIndex >= len(dates) {
		return dates[len(dates)-1]
	}
	return dates[m.dateIndex]
}

func (m *Model) clampDateIndex() {
	dates := m.availableDates()
	if len(dates) == 0 {
		m.dateIndex = 0
		return
	}
	if m.dateIndex >= len(dates) {
		m.dateIndex = len(dates) - 1
	}
}

// SetSize sets the available size for the hourly tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.PrevDay,
		m.keys.NextDay,
		m.keys.NextKey,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.PrevDay, m.keys.NextDay},
		{m.keys.NextKey, m.keys.Refresh},
		{m.keys.Up, m.keys.Down},
	}
}
