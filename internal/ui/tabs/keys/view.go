package keys

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/barkgg/barkdash/internal/ui/components"
	"github.com/barkgg/barkdash/internal/ui/styles"
)

// View renders the keys tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderLoading()
	}

	var sections []string

	// Title
	sections = append(sections, m.renderTitle())

	// Main content area
	switch {
	case m.adding:
		sections = append(sections, m.renderAddForm())
	case m.renaming:
		sections = append(sections, m.renderRenameForm())
	case m.confirmDelete:
		sections = append(sections, m.renderDeleteConfirm())
		sections = append(sections, m.renderTable())
	case m.confirmAlert:
		sections = append(sections, m.renderAlertConfirm())
		sections = append(sections, m.renderTable())
	default:
		sections = append(sections, m.renderTable())
	}

	// Footer with shortcuts
	sections = append(sections, m.renderFooter())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

// renderLoading renders the loading state.
func (m *Model) renderLoading() string {
	return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
}

// renderTitle renders the keys tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Key Management")

	keyCount := m.state.GetKeyCount()
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("%d keys configured", keyCount))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderTable renders the keys table.
func (m *Model) renderTable() string {
	keys := m.state.GetKeys()

	if len(keys) == 0 {
		return m.renderEmptyState()
	}

	// Update table data
	m.updateTableData()

	cardWidth := m.width - 6
	if cardWidth < 60 {
		cardWidth = 60
	}

	return styles.CardStyle.Width(cardWidth).Render(m.table.View())
}

// renderEmptyState renders the empty state when no keys exist.
func (m *Model) renderEmptyState() string {
	cardWidth := m.width - 6
	if cardWidth < 40 {
		cardWidth = 40
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.SubTitleStyle.Render("No API Keys Configured"),
		"",
		styles.HelpStyle.Render("Add a key to start tracking usage and credits."),
		"",
		styles.InfoTextStyle.Render("Press 'n' to add a new key"),
		"",
	)

	return styles.CardStyle.Width(cardWidth).Render(content)
}

// renderAddForm renders the add key form.
func (m *Model) renderAddForm() string {
	cardWidth := m.width - 10
	if cardWidth < 50 {
		cardWidth = 50
	}
	if cardWidth > 80 {
		cardWidth = 80
	}

	var rows []string

	// Form title
	rows = append(rows, styles.CardTitleStyle.Render("Add New Key"))
	rows = append(rows, "")

	// API key field
	keyLabel := "API Key:"
	if m.focusedField == fieldAPIKey {
		keyLabel = styles.FocusedStyle.Render("> API Key:")
	} else {
		keyLabel = styles.BlurredStyle.Render("  API Key:")
	}
	rows = append(rows, keyLabel)

	keyInputStyle := styles.BlurredBorderStyle
	if m.focusedField == fieldAPIKey {
		keyInputStyle = styles.FocusedBorderStyle
	}
	rows = append(rows, keyInputStyle.Width(cardWidth-10).Render(m.keyInput.View()))
	rows = append(rows, "")

	// Label field
	labelLabel := "Label:"
	if m.focusedField == fieldLabel {
		labelLabel = styles.FocusedStyle.Render("> Label:")
	} else {
		labelLabel = styles.BlurredStyle.Render("  Label:")
	}
	rows = append(rows, labelLabel)

	labelInputStyle := styles.BlurredBorderStyle
	if m.focusedField == fieldLabel {
		labelInputStyle = styles.FocusedBorderStyle
	}
	rows = append(rows, labelInputStyle.Width(cardWidth-10).Render(m.labelInput.View()))
	rows = append(rows, "")

	// Buttons
	submitStyle := styles.ButtonInactiveStyle
	cancelStyle := styles.ButtonInactiveStyle

	if m.focusedField == fieldSubmit {
		submitStyle = styles.ButtonActiveStyle
	}
	if m.focusedField == fieldCancel {
		cancelStyle = styles.ButtonActiveStyle
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		submitStyle.Render(" Add Key "),
		"  ",
		cancelStyle.Render(" Cancel "),
	)
	rows = append(rows, buttons)
	rows = append(rows, "")

	// Help text
	rows = append(rows, styles.HelpStyle.Render("Tab: next field | Enter: submit | Esc: cancel"))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)

	return styles.ModalContentStyle.Width(cardWidth).Render(content)
}

// renderRenameForm renders the rename prompt.
func (m *Model) renderRenameForm() string {
	cardWidth := 60

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.CardTitleStyle.Render("Rename Key"),
		"",
		styles.HelpStyle.Render(fmt.Sprintf("Current: %s", m.renameName)),
		"",
		styles.FocusedBorderStyle.Width(cardWidth-10).Render(m.renameInput.View()),
		"",
		styles.HelpStyle.Render("Enter: save | Esc: cancel | empty label clears it"),
	)

	return styles.ModalContentStyle.Width(cardWidth).Render(content)
}

// renderDeleteConfirm renders the remove confirmation dialog.
func (m *Model) renderDeleteConfirm() string {
	cardWidth := 50

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.WarningTextStyle.Bold(true).Render("Remove Key?"),
		"",
		"Are you sure you want to remove:",
		styles.ErrorTextStyle.Render(m.deleteName),
		"",
		"This action cannot be undone.",
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			styles.ButtonActiveStyle.Render(" (Y)es "),
			"  ",
			styles.ButtonInactiveStyle.Render(" (N)o "),
		),
		"",
	)

	return styles.CenterHorizontal(
		styles.ModalContentStyle.Width(cardWidth).Render(content),
		m.width,
	)
}

// renderAlertConfirm renders the emergency alert confirmation dialog.
func (m *Model) renderAlertConfirm() string {
	cardWidth := 54

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.WarningTextStyle.Bold(true).Render("Send Emergency Alert?"),
		"",
		"An urgent alert will be sent for:",
		styles.InfoTextStyle.Render(m.alertName),
		"",
		"Use this when the key may be compromised.",
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			styles.ButtonActiveStyle.Render(" (Y)es "),
			"  ",
			styles.ButtonInactiveStyle.Render(" (N)o "),
		),
		"",
	)

	return styles.CenterHorizontal(
		styles.ModalContentStyle.Width(cardWidth).Render(content),
		m.width,
	)
}

// renderFooter renders the footer with keyboard shortcuts.
func (m *Model) renderFooter() string {
	var shortcuts []string

	switch {
	case m.adding:
		shortcuts = []string{
			styles.HelpKeyStyle.Render("Tab") + " next",
			styles.HelpKeyStyle.Render("Enter") + " submit",
			styles.HelpKeyStyle.Render("Esc") + " cancel",
		}
	case m.renaming:
		shortcuts = []string{
			styles.HelpKeyStyle.Render("Enter") + " save",
			styles.HelpKeyStyle.Render("Esc") + " cancel",
		}
	case m.confirmDelete, m.confirmAlert:
		shortcuts = []string{
			styles.HelpKeyStyle.Render("Y") + " confirm",
			styles.HelpKeyStyle.Render("N") + " cancel",
		}
	default:
		shortcuts = []string{
			styles.HelpKeyStyle.Render("Enter") + " select",
			styles.HelpKeyStyle.Render("n") + " add",
			styles.HelpKeyStyle.Render("e") + " rename",
			styles.HelpKeyStyle.Render("d") + " remove",
			styles.HelpKeyStyle.Render("!") + " alert",
		}
	}

	footer := ""
	for i, s := range shortcuts {
		if i > 0 {
			footer += styles.HelpSeparatorStyle.Render(" | ")
		}
		footer += s
	}

	return lipgloss.NewStyle().
		MarginTop(1).
		Foreground(styles.TextMuted).
		Render(footer)
}
