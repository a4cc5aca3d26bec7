// Package keys provides the API key management tab.
package keys

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/barkgg/barkdash/internal/app"
	"github.com/barkgg/barkdash/internal/models"
	"github.com/barkgg/barkdash/internal/ui/components"
	"github.com/barkgg/barkdash/internal/ui/styles"
)

// formField represents which field is currently focused in the add form.
type formField int

const (
	fieldAPIKey formField = iota
	fieldLabel
	fieldSubmit
	fieldCancel
)

// keyMap defines the key bindings specific to the keys tab.
type keyMap struct {
	Enter   key.Binding
	Delete  key.Binding
	Add     key.Binding
	Rename  key.Binding
	Alert   key.Binding
	Refresh key.Binding
	Escape  key.Binding
}

// defaultKeyMap returns the default key bindings for the keys tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select key"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "remove"),
		),
		Add: key.NewBinding(
			key.WithKeys("n", "a"),
			key.WithHelp("n", "add key"),
		),
		Rename: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rename"),
		),
		Alert: key.NewBinding(
			key.WithKeys("!"),
			key.WithHelp("!", "emergency alert"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh key"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Model represents the keys tab state.
type Model struct {
	state         *app.State
	commands      *app.Commands
	table         table.Model
	width         int
	height        int
	adding        bool
	focusedField  formField
	keyInput      textinput.Model
	labelInput    textinput.Model
	renaming      bool
	renameID      string
	renameName    string
	renameInput   textinput.Model
	spinner       components.LoadingSpinner
	keys          keyMap
	confirmDelete bool
	deleteID      string
	deleteName    string
	confirmAlert  bool
	alertID       string
	alertName     string
}

// New creates a new keys model.
func New(state *app.State, commands *app.Commands) *Model {
	keyInput := textinput.New()
	keyInput.Placeholder = "Paste API key..."
	keyInput.CharLimit = 200
	keyInput.Width = 40
	keyInput.EchoMode = textinput.EchoPassword

	labelInput := textinput.New()
	labelInput.Placeholder = "production (optional)"
	labelInput.CharLimit = 64
	labelInput.Width = 40

	renameInput := textinput.New()
	renameInput.Placeholder = "New label..."
	renameInput.CharLimit = 64
	renameInput.Width = 40

	columns := []table.Column{
		{Title: "Label", Width: 24},
		{Title: "Key", Width: 14},
		{Title: "Credits", Width: 9},
		{Title: "Calls", Width: 9},
		{Title: "Status", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Subtle).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.TextPrimary).
		Background(styles.BgAccent).
		Bold(true)
	t.SetStyles(s)

	return &Model{
		state:        state,
		commands:     commands,
		table:        t,
		keyInput:     keyInput,
		labelInput:   labelInput,
		renameInput:  renameInput,
		spinner:      components.NewSpinner("Loading keys..."),
		keys:         defaultKeyMap(),
		adding:       false,
		focusedField: fieldAPIKey,
	}
}

// Init initializes the keys tab.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the keys tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	if m.adding {
		return m.updateAddForm(msg)
	}
	if m.renaming {
		return m.updateRenameForm(msg)
	}
	if m.confirmDelete {
		return m.updateDeleteConfirm(msg)
	}
	if m.confirmAlert {
		return m.updateAlertConfirm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Enter):
			if len(m.state.GetKeys()) > 0 {
				m.state.SetSelectedKeyIndex(m.table.Cursor())
			}

		case key.Matches(msg, m.keys.Delete):
			if entry, ok := m.entryAtCursor(); ok {
				m.confirmDelete = true
				m.deleteID = entry.ID
				m.deleteName = entry.DisplayName()
			}

		case key.Matches(msg, m.keys.Rename):
			if entry, ok := m.entryAtCursor(); ok {
				m.renaming = true
				m.renameID = entry.ID
				m.renameName = entry.DisplayName()
				m.renameInput.SetValue(entry.Label)
				m.renameInput.CursorEnd()
				m.renameInput.Focus()
				return m, textinput.Blink
			}

		case key.Matches(msg, m.keys.Alert):
			if entry, ok := m.entryAtCursor(); ok {
				m.confirmAlert = true
				m.alertID = entry.ID
				m.alertName = entry.DisplayName()
			}

		case key.Matches(msg, m.keys.Refresh):
			if entry, ok := m.entryAtCursor(); ok {
				return m, m.commands.RefreshKeyUsage(entry.ID)
			}

		case key.Matches(msg, m.keys.Add):
			m.adding = true
			m.focusedField = fieldAPIKey
			m.keyInput.SetValue("")
			m.labelInput.SetValue("")
			m.updateFormFocus()
			return m, textinput.Blink

		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			cmds = append(cmds, cmd)
		}

	case app.KeysLoadedMsg:
		m.updateTableData()
	}

	return m, tea.Batch(cmds...)
}

// entryAtCursor returns the key entry under the table cursor.
func (m *Model) entryAtCursor() (models.KeyEntry, bool) {
	keys := m.state.GetKeys()
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(keys) {
		return models.KeyEntry{}, false
	}
	return keys[idx].Entry, true
}

// updateAddForm handles the add key form.
func (m *Model) updateAddForm(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.closeAddForm()
			return m, nil

		case "tab", "down":
			m.focusedField = (m.focusedField + 1) % 4
			m.updateFormFocus()
			return m, textinput.Blink

		case "shift+tab", "up":
			m.focusedField = (m.focusedField - 1 + 4) % 4
			m.updateFormFocus()
			return m, textinput.Blink

		case "enter":
			switch m.focusedField {
			case fieldSubmit:
				apiKey := m.keyInput.Value()
				label := m.labelInput.Value()
				if apiKey != "" {
					m.closeAddForm()
					return m, m.commands.AddKey(apiKey, label)
				}
			case fieldCancel:
				m.closeAddForm()
				return m, nil
			default:
				m.focusedField = (m.focusedField + 1) % 4
				m.updateFormFocus()
				return m, textinput.Blink
			}
		}
	}

	// Update the focused input
	var cmd tea.Cmd
	switch m.focusedField {
	case fieldAPIKey:
		m.keyInput, cmd = m.keyInput.Update(msg)
		cmds = append(cmds, cmd)
	case fieldLabel:
		m.labelInput, cmd = m.labelInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) closeAddForm() {
	m.adding = false
	m.keyInput.Blur()
	m.labelInput.Blur()
}

// updateRenameForm handles the rename prompt.
func (m *Model) updateRenameForm(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.closeRenameForm()
			return m, nil

		case "enter":
			keyID := m.renameID
			label := m.renameInput.Value()
			m.closeRenameForm()
			return m, m.commands.RenameKey(keyID, label)
		}
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m *Model) closeRenameForm() {
	m.renaming = false
	m.renameID = ""
	m.renameName = ""
	m.renameInput.Blur()
}

// updateDeleteConfirm handles the remove confirmation.
func (m *Model) updateDeleteConfirm(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			m.confirmDelete = false
			keyID := m.deleteID
			m.deleteID = ""
			m.deleteName = ""
			return m, m.commands.RemoveKey(keyID)
		case "n", "N", "esc":
			m.confirmDelete = false
			m.deleteID = ""
			m.deleteName = ""
			return m, nil
		}
	}
	return m, nil
}

// updateAlertConfirm handles the emergency alert confirmation.
func (m *Model) updateAlertConfirm(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			m.confirmAlert = false
			keyID := m.alertID
			m.alertID = ""
			m.alertName = ""
			return m, m.commands.SendAlert(keyID)
		case "n", "N", "esc":
			m.confirmAlert = false
			m.alertID = ""
			m.alertName = ""
			return m, nil
		}
	}
	return m, nil
}

// updateFormFocus updates which form field is focused.
func (m *Model) updateFormFocus() {
	m.keyInput.Blur()
	m.labelInput.Blur()

	switch m.focusedField {
	case fieldAPIKey:
		m.keyInput.Focus()
	case fieldLabel:
		m.labelInput.Focus()
	}
}

// updateTableData updates the table with current key data.
func (m *Model) updateTableData() {
	keys := m.state.GetKeys()
	rows := make([]table.Row, 0, len(keys))

	for i, k := range keys {
		credits := "-"
		calls := "-"
		status := "PENDING"

		if k.Snapshot != nil {
			if k.Snapshot.Error != "" {
				status = "ERROR"
			} else if k.Snapshot.HasData() {
				credits = fmt.Sprintf("%d", k.Snapshot.Usage.CreditsRemaining)
				calls = fmt.Sprintf("%d", k.Snapshot.Usage.Total)
				status = "OK"
			}
		}

		if i == m.state.GetSelectedKeyIndex() {
			status = "* " + status
		}

		rows = append(rows, table.Row{
			k.Entry.DisplayName(),
			models.MaskKey(k.Entry.Key),
			credits,
			calls,
			status,
		})
	}

	m.table.SetRows(rows)
}

// SetSize sets the available size for the keys tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(height - 10)

	// Adjust the label column based on available width
	labelWidth := width - 54
	if labelWidth < 18 {
		labelWidth = 18
	}
	if labelWidth > 32 {
		labelWidth = 32
	}

	columns := []table.Column{
		{Title: "Label", Width: labelWidth},
		{Title: "Key", Width: 14},
		{Title: "Credits", Width: 9},
		{Title: "Calls", Width: 9},
		{Title: "Status", Width: 12},
	}
	m.table.SetColumns(columns)
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	if m.adding || m.renaming {
		return []key.Binding{
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
			m.keys.Escape,
		}
	}
	return []key.Binding{
		m.keys.Enter,
		m.keys.Add,
		m.keys.Rename,
		m.keys.Delete,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Enter, m.keys.Delete, m.keys.Rename},
		{m.keys.Add, m.keys.Alert, m.keys.Refresh},
	}
}
