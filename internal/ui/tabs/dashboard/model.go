// Package dashboard provides the main usage overview tab.
package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/barkgg/barkdash/internal/app"
	"github.com/barkgg/barkdash/internal/ui/components"
)

type animationTickMsg time.Time

func animationTickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*40, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// rangeOptions are the selectable chart window widths in days.
var rangeOptions = []int{7, 14, 30, 90}

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	NextKey    key.Binding
	PrevKey    key.Binding
	FirstKey   key.Binding
	LastKey    key.Binding
	CycleRange key.Binding
	Refresh    key.Binding
}

// defaultKeyMap returns the default key bindings for the dashboard tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextKey: key.NewBinding(
			key.WithKeys("n", "j", "down"),
			key.WithHelp("j/n", "next key"),
		),
		PrevKey: key.NewBinding(
			key.WithKeys("p", "k", "up"),
			key.WithHelp("k/p", "prev key"),
		),
		FirstKey: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first key"),
		),
		LastKey: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last key"),
		),
		CycleRange: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "cycle window"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// Model represents the dashboard tab state.
type Model struct {
	state          *app.State
	commands       *app.Commands
	spinner        components.LoadingSpinner
	keys           keyMap
	viewport       viewport.Model
	creditsBar     components.CreditsBar
	width          int
	height         int
	animationFrame int
}

// New creates a new dashboard model.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:      state,
		commands:   commands,
		spinner:    components.NewSpinner("Loading usage..."),
		creditsBar: components.NewCreditsBar(),
		keys:       defaultKeyMap(),
		viewport:   viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Init(), animationTickCmd())
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case animationTickMsg:
		cmds = append(cmds, m.handleAnimationTick())

	case app.StartLoadingMsg:
		cmds = append(cmds, animationTickCmd())

	case app.KeysLoadedMsg, app.UsageRefreshedMsg, app.RefreshMsg:
		cmds = append(cmds, animationTickCmd())

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleAnimationTick() tea.Cmd {
	m.animationFrame++

	if m.state.AnyLoading() || m.hasPendingData() {
		return animationTickCmd()
	}
	return nil
}

// hasPendingData reports whether any key still has no snapshot at all.
func (m *Model) hasPendingData() bool {
	for _, k := range m.state.GetKeys() {
		if k.Snapshot == nil {
			return true
		}
	}
	return false
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	keyCount := m.state.GetKeyCount()

	switch {
	case key.Matches(msg, m.keys.NextKey):
		m.state.SelectNextKey()
	case key.Matches(msg, m.keys.PrevKey):
		m.state.SelectPrevKey()
	case key.Matches(msg, m.keys.FirstKey):
		if keyCount > 0 {
			m.state.SetSelectedKeyIndex(0)
		}
	case key.Matches(msg, m.keys.LastKey):
		if keyCount > 0 {
			m.state.SetSelectedKeyIndex(keyCount - 1)
		}
	case key.Matches(msg, m.keys.CycleRange):
		if m.commands != nil {
			return m.commands.SetRange(nextRange(m.state.GetRangeDays()))
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// nextRange returns the window width following current in rangeOptions,
// wrapping around. Unknown widths restart the cycle.
func nextRange(current int) int {
	for i, days := range rangeOptions {
		if days == current {
			return rangeOptions[(i+1)%len(rangeOptions)]
		}
	}
	return rangeOptions[0]
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextKey,
		m.keys.PrevKey,
		m.keys.CycleRange,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextKey, m.keys.PrevKey},
		{m.keys.FirstKey, m.keys.LastKey},
		{m.keys.CycleRange, m.keys.Refresh},
	}
}
