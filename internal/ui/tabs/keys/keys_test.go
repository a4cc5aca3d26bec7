package keys

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/barkgg/barkdash/internal/app"
	"github.com/barkgg/barkdash/internal/models"
)

func testKeys() []models.KeyWithUsage {
	return []models.KeyWithUsage{
		{
			Entry: models.KeyEntry{ID: "key_1", Key: "bk_live_abcdef123456", Label: "production"},
			Snapshot: &models.UsageSnapshot{
				KeyID: "key_1",
				Usage: models.UsageRecord{
					Total:            150,
					CreditsRemaining: 850,
					Endpoints:        map[string]models.EndpointUsage{},
				},
				FetchedAt: time.Now(),
			},
		},
		{
			Entry: models.KeyEntry{ID: "key_2", Key: "bk_live_xyz987654321"},
		},
	}
}

func testModel() *Model {
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetKeys(testKeys())
	m := New(state, app.NewCommands(nil))
	m.SetSize(100, 40)
	return m
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNew(t *testing.T) {
	state := app.NewState()
	m := New(state, app.NewCommands(nil))
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	m := testModel()
	if m.Init() == nil {
		t.Error("Init returned nil")
	}
}

func TestModel_View_Empty(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	m := New(state, app.NewCommands(nil))
	m.SetSize(100, 40)

	view := m.View()
	if !strings.Contains(view, "No API Keys") {
		t.Error("empty view missing empty state message")
	}
}

func TestModel_View_WithKeys(t *testing.T) {
	m := testModel()
	m.updateTableData()

	view := m.View()
	if !strings.Contains(view, "production") {
		t.Error("view missing key label")
	}
	if !strings.Contains(view, "2 keys configured") {
		t.Error("view missing key count")
	}
}

func TestUpdateTableData(t *testing.T) {
	m := testModel()
	m.updateTableData()

	rows := m.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0][0] != "production" {
		t.Errorf("expected label 'production', got %q", rows[0][0])
	}
	if rows[0][1] != "bk_l...3456" {
		t.Errorf("expected masked key, got %q", rows[0][1])
	}
	if rows[0][2] != "850" {
		t.Errorf("expected credits '850', got %q", rows[0][2])
	}
	if !strings.Contains(rows[0][4], "OK") {
		t.Errorf("expected OK status, got %q", rows[0][4])
	}

	// Second key has no snapshot yet
	if rows[1][2] != "-" {
		t.Errorf("expected placeholder credits, got %q", rows[1][2])
	}
	if !strings.Contains(rows[1][4], "PENDING") {
		t.Errorf("expected PENDING status, got %q", rows[1][4])
	}
}

func TestAddForm_OpenAndCancel(t *testing.T) {
	m := testModel()

	m.Update(keyPress('n'))
	if !m.adding {
		t.Fatal("expected adding mode after 'n'")
	}
	if m.focusedField != fieldAPIKey {
		t.Error("expected API key field focused")
	}

	view := m.View()
	if !strings.Contains(view, "Add New Key") {
		t.Error("view missing add form title")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.adding {
		t.Error("expected add form closed after esc")
	}
}

func TestAddForm_Submit(t *testing.T) {
	m := testModel()
	m.Update(keyPress('n'))

	m.keyInput.SetValue("bk_live_newkey000000")
	m.labelInput.SetValue("staging")
	m.focusedField = fieldSubmit

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("expected add command on submit")
	}
	if m.adding {
		t.Error("expected add form closed after submit")
	}
}

func TestAddForm_SubmitEmptyKey(t *testing.T) {
	m := testModel()
	m.Update(keyPress('n'))
	m.focusedField = fieldSubmit

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for empty key")
	}
	if !m.adding {
		t.Error("expected form to stay open for empty key")
	}
}

func TestAddForm_FieldCycling(t *testing.T) {
	m := testModel()
	m.Update(keyPress('n'))

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focusedField != fieldLabel {
		t.Errorf("expected label field, got %d", m.focusedField)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focusedField != fieldSubmit {
		t.Errorf("expected submit field, got %d", m.focusedField)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focusedField != fieldLabel {
		t.Errorf("expected label field after shift+tab, got %d", m.focusedField)
	}
}

func TestDeleteConfirm(t *testing.T) {
	m := testModel()

	m.Update(keyPress('d'))
	if !m.confirmDelete {
		t.Fatal("expected delete confirmation after 'd'")
	}
	if m.deleteName != "production" {
		t.Errorf("expected delete target 'production', got %q", m.deleteName)
	}

	view := m.View()
	if !strings.Contains(view, "Remove Key?") {
		t.Error("view missing delete confirmation")
	}

	_, cmd := m.Update(keyPress('y'))
	if cmd == nil {
		t.Error("expected remove command on confirm")
	}
	if m.confirmDelete {
		t.Error("expected confirmation closed after confirm")
	}
}

func TestDeleteConfirm_Cancel(t *testing.T) {
	m := testModel()

	m.Update(keyPress('d'))
	_, cmd := m.Update(keyPress('n'))
	if cmd != nil {
		t.Error("expected no command on cancel")
	}
	if m.confirmDelete {
		t.Error("expected confirmation closed after cancel")
	}
}

func TestRename(t *testing.T) {
	m := testModel()

	m.Update(keyPress('e'))
	if !m.renaming {
		t.Fatal("expected rename mode after 'e'")
	}
	if m.renameInput.Value() != "production" {
		t.Errorf("expected input prefilled with label, got %q", m.renameInput.Value())
	}

	view := m.View()
	if !strings.Contains(view, "Rename Key") {
		t.Error("view missing rename form")
	}

	m.renameInput.SetValue("prod-east")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("expected rename command on enter")
	}
	if m.renaming {
		t.Error("expected rename closed after enter")
	}
}

func TestAlertConfirm(t *testing.T) {
	m := testModel()

	m.Update(keyPress('!'))
	if !m.confirmAlert {
		t.Fatal("expected alert confirmation after '!'")
	}

	view := m.View()
	if !strings.Contains(view, "Send Emergency Alert?") {
		t.Error("view missing alert confirmation")
	}

	_, cmd := m.Update(keyPress('y'))
	if cmd == nil {
		t.Error("expected alert command on confirm")
	}
	if m.confirmAlert {
		t.Error("expected confirmation closed after confirm")
	}
}

func TestEnterSelectsKey(t *testing.T) {
	m := testModel()
	m.updateTableData()

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.state.GetSelectedKeyIndex(); got != 1 {
		t.Errorf("expected selected index 1, got %d", got)
	}
}

func TestRefreshKey(t *testing.T) {
	m := testModel()

	_, cmd := m.Update(keyPress('R'))
	if cmd == nil {
		t.Error("expected refresh command")
	}
}

func TestModel_SetSize(t *testing.T) {
	m := testModel()
	m.SetSize(120, 50)
	if m.width != 120 || m.height != 50 {
		t.Error("SetSize did not store dimensions")
	}
}

func TestModel_Help(t *testing.T) {
	m := testModel()
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp returned no bindings")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp returned no bindings")
	}

	m.adding = true
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp returned no bindings in add mode")
	}
}
