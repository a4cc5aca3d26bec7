package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Loading")
	if s.label != "Loading" {
		t.Error("Spinner label mismatch")
	}
}

func TestSpinner_Methods(t *testing.T) {
	s := NewSpinner("Init")

	s.SetLabel("Loading")
	if s.Label() != "Loading" {
		t.Errorf("Label = %s, want Loading", s.Label())
	}

	if s.View() == "" {
		t.Error("View returned empty")
	}
	if s.ViewWithLabel() == "" {
		t.Error("ViewWithLabel returned empty")
	}
	if s.Init() == nil {
		t.Error("Init should return command")
	}

	_, cmd := s.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Update should return command for tick")
	}

	if s.Tick() == nil {
		t.Error("Tick should return command")
	}
	if s.Spinner().Spinner.Frames == nil {
		t.Error("Spinner accessor failed")
	}
}

func TestRenderSpinnerCentered(t *testing.T) {
	s := NewSpinner("Loading...")
	if RenderSpinnerCentered(s, 20, 5) == "" {
		t.Error("RenderSpinnerCentered returned empty")
	}
}

func TestRenderLineChart(t *testing.T) {
	data := []float64{1, 2, 3, 4}
	if RenderLineChart(data, 20, 5, "Test") == "" {
		t.Error("RenderLineChart returned empty")
	}
}

func TestRenderLineChart_Empty(t *testing.T) {
	if !strings.Contains(RenderLineChart(nil, 20, 5, ""), "No data") {
		t.Error("empty chart should show the no-data message")
	}
}

func TestRenderMultiLineChart(t *testing.T) {
	series := [][]float64{
		{1, 2, 3},
		{3, 2},
		{0, 0, 5},
	}
	if RenderMultiLineChart(series, 20, 5, "Usage") == "" {
		t.Error("RenderMultiLineChart returned empty")
	}
}

func TestRenderMultiLineChart_Empty(t *testing.T) {
	if !strings.Contains(RenderMultiLineChart(nil, 20, 5, ""), "No data") {
		t.Error("empty chart should show the no-data message")
	}
}

func TestRenderBarChart(t *testing.T) {
	values := []float64{10, 20}
	labels := []string{"A", "B"}
	if RenderBarChart(values, labels, 20) == "" {
		t.Error("RenderBarChart returned empty")
	}
}

func TestRenderHourlyHeatmap(t *testing.T) {
	data := make([]float64, 24)
	data[9] = 5
	if RenderHourlyHeatmap(data) == "" {
		t.Error("RenderHourlyHeatmap returned empty")
	}
}

func TestRenderSparkline(t *testing.T) {
	data := []float64{1, 2, 3}
	if RenderSparkline(data, 10) == "" {
		t.Error("RenderSparkline returned empty")
	}
}

func TestRenderColoredSparkline(t *testing.T) {
	data := []float64{1, 2, 3}
	if RenderColoredSparkline(data, 10) == "" {
		t.Error("RenderColoredSparkline returned empty")
	}
}

func TestRenderLegend(t *testing.T) {
	items := []LegendItem{
		{Label: "A", Color: lipgloss.Color("#ffffff")},
	}
	if RenderLegend(items) == "" {
		t.Error("RenderLegend returned empty")
	}
}

func TestEndpointLegend(t *testing.T) {
	legend := EndpointLegend([]string{"/tweet", "/user"}, func(id string) string {
		return strings.TrimPrefix(id, "/")
	})
	if !strings.Contains(legend, "tweet") || !strings.Contains(legend, "user") {
		t.Errorf("legend missing endpoint names: %q", legend)
	}
}

func TestCreditsBar_View(t *testing.T) {
	bar := NewCreditsBar()
	bar.SetLabel("prod")
	if bar.View(500, 1000, 60) == "" {
		t.Error("View returned empty")
	}
	if bar.ViewCompact(500, 1000, 40) == "" {
		t.Error("ViewCompact returned empty")
	}
}

func TestCreditsPercent(t *testing.T) {
	tests := []struct {
		credits int
		full    int
		want    float64
	}{
		{500, 1000, 50},
		{1500, 1000, 100},
		{-5, 1000, 0},
		{5, 0, 100},
		{0, 0, 0},
	}

	for _, tt := range tests {
		if got := creditsPercent(tt.credits, tt.full); got != tt.want {
			t.Errorf("creditsPercent(%d, %d) = %v, want %v", tt.credits, tt.full, got, tt.want)
		}
	}
}

func TestSimpleCreditsBar(t *testing.T) {
	if SimpleCreditsBar(400, 1000, "credits", 50) == "" {
		t.Error("SimpleCreditsBar returned empty")
	}
}

func TestSimpleBarLoading(t *testing.T) {
	if SimpleBarLoading("total", 60, 10) == "" {
		t.Error("SimpleBarLoading returned empty")
	}
}

func TestRenderGradientBar(t *testing.T) {
	if RenderGradientBar(50, 20) == "" {
		t.Error("RenderGradientBar returned empty")
	}
	if RenderGradientBar(50, 0) != "" {
		t.Error("zero width should render empty")
	}
}

func TestHexToRGB(t *testing.T) {
	rgb := hexToRGB("#ff0080")
	if rgb != [3]int{255, 0, 128} {
		t.Errorf("hexToRGB = %v", rgb)
	}
}
