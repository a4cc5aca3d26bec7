package dashboard

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
					Endpoints: map[string]models.EndpointUsage{
						"/tweet": {
							Total: 100,
							Days: map[string]models.DayUsage{
								"2026-08-29": {Total: 100, Hours: map[string]int{"10": 100}},
							},
						},
						"/user": {Total: 50, Days: map[string]models.DayUsage{}},
					},
				},
				Metrics: models.MetricsResponse{
					"/tweet": {Count: 100, P50Ms: 40, P95Ms: 120, P99Ms: 200},
				},
				FetchedAt: time.Now(),
			},
		},
		{
			Entry: models.KeyEntry{ID: "key_2", Key: "bk_live_xyz987654321"},
		},
	}
}

func TestNew(t *testing.T) {
	state := app.NewState()
	m := New(state, nil)
	if m == nil {
		t.Fatal("New returned nil")
	}
}

func TestModel_Init(t *testing.T) {
	state := app.NewState()
	m := New(state, nil)
	if m.Init() == nil {
		t.Error("Init returned nil")
	}
}

func TestModel_Update(t *testing.T) {
	state := app.NewState()
	m := New(state, nil)

	updated, cmd := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
	_ = cmd
}

func TestModel_View(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	m := New(state, nil)

	// View with no data
	view := m.View()
	if view == "" {
		t.Error("View returned empty string")
	}
	if !strings.Contains(view, "No API keys") {
		t.Error("View should show empty state")
	}

	state.SetKeys(testKeys())
	m.SetSize(100, 40)

	view = m.View()
	if !strings.Contains(view, "production") {
		t.Logf("View content: %q", view)
		t.Error("View should contain key label")
	}
	if !strings.Contains(view, "850") {
		t.Error("View should show the credit balance")
	}
	if !strings.Contains(strings.ToLower(view), "tweet") {
		t.Error("View should contain endpoint name")
	}
}

func TestModel_View_SnapshotError(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetKeys([]models.KeyWithUsage{
		{
			Entry: models.KeyEntry{ID: "key_1", Label: "broken"},
			Snapshot: &models.UsageSnapshot{
				KeyID: "key_1",
				Error: "invalid API key",
			},
		},
	})

	m := New(state, nil)
	m.SetSize(100, 40)

	view := m.View()
	if !strings.Contains(view, "invalid API key") {
		t.Error("View should show the snapshot error")
	}
}

func TestNextRange(t *testing.T) {
	tests := []struct {
		current, want int
	}{
		{7, 14},
		{14, 30},
		{30, 90},
		{90, 7},
		{42, 7}, // unknown restarts the cycle
	}

	for _, tt := range tests {
		if got := nextRange(tt.current); got != tt.want {
			t.Errorf("nextRange(%d) = %d, want %d", tt.current, got, tt.want)
		}
	}
}

func TestModel_KeyBindings(t *testing.T) {
	state := app.NewState()
	state.SetKeys(testKeys())
	m := New(state, nil)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if state.GetSelectedKeyIndex() != 1 {
		t.Errorf("down should select next key, index = %d", state.GetSelectedKeyIndex())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if state.GetSelectedKeyIndex() != 0 {
		t.Errorf("up should select prev key, index = %d", state.GetSelectedKeyIndex())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if state.GetSelectedKeyIndex() != 1 {
		t.Errorf("G should select last key, index = %d", state.GetSelectedKeyIndex())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	if state.GetSelectedKeyIndex() != 0 {
		t.Errorf("g should select first key, index = %d", state.GetSelectedKeyIndex())
	}
}

func TestModel_SetSize(t *testing.T) {
	state := app.NewState()
	m := New(state, nil)
	m.SetSize(100, 50)
}

func TestModel_Help(t *testing.T) {
	state := app.NewState()
	m := New(state, nil)
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
