package hourly

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/barkgg/barkdash/internal/models"
	"github.com/barkgg/barkdash/internal/ui/components"
	"github.com/barkgg/barkdash/internal/ui/styles"
	"github.com/barkgg/barkdash/internal/usage"
)

const hourlyChartHeight = 8

// View renders the hourly tab.
func (m *Model) View() string {
	selected := m.state.GetSelectedKey()
	if selected == nil {
		return m.renderEmpty("No API keys configured. Add one on the Keys tab (3).")
	}
	if !selected.Snapshot.HasData() {
		if selected.Snapshot != nil && selected.Snapshot.Error != "" {
			return m.renderEmpty("Usage unavailable: " + selected.Snapshot.Error)
		}
		return m.renderEmpty("Waiting for usage data...")
	}

	rec := selected.Snapshot.Usage
	dates := usage.AvailableDates(rec, usage.Descending)
	if len(dates) == 0 {
		return m.renderEmpty("No recorded activity for " + selected.Entry.DisplayName())
	}

	date := m.selectedDate()

	var sections []string
	sections = append(sections,
		m.renderHeader(selected.Entry.DisplayName(), date, dates),
		m.renderHourlyChart(rec, date),
		m.renderActivityStrip(rec),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderEmpty(message string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Hourly Breakdown"),
		"",
		styles.HelpStyle.Render(message),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader(keyName, date string, dates []string) string {
	if len(keyName) > 40 {
		keyName = keyName[:37] + "..."
	}

	title := styles.TitleStyle.Render("Hourly: " + keyName)

	dateStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	position := ""
	for i, d := range dates {
		if d == date {
			position = fmt.Sprintf(" (%d of %d)", i+1, len(dates))
			break
		}
	}
	dateIndicator := dateStyle.Render(fmt.Sprintf("[←/→] %s%s", date, position))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", dateIndicator)

	subtitle := styles.HelpStyle.Render(formatDateLong(date))

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderHourlyChart(rec models.UsageRecord, date string) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◷")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Calls by Hour")), "")

	points := usage.BuildHourlySeriesForDay(rec, date)

	totals := make([]float64, len(points))
	dayTotal := 0
	for i, p := range points {
		totals[i] = float64(p.Total)
		dayTotal += p.Total
	}

	if dayTotal == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No hourly breakdown recorded for this day"))
	} else {
		chartWidth := max(cardWidth-12, 30)
		chart := components.RenderLineChart(totals, chartWidth, hourlyChartHeight,
			fmt.Sprintf("Total calls per hour on %s", date))

		for _, line := range strings.Split(chart, "\n") {
			rows = append(rows, "  "+line)
		}

		rows = append(rows, "")
		rows = append(rows, "  "+components.RenderHourlyHeatmap(totals))

		peakHour, peakVal := peakOf(totals)
		rows = append(rows, "")
		rows = append(rows, fmt.Sprintf("  Peak: %s (%d calls)",
			lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).
				Render(fmt.Sprintf("%02d:00-%02d:00", peakHour, (peakHour+1)%24)),
			int(peakVal),
		))

		rows = append(rows, "")
		rows = append(rows, m.renderEndpointBreakdown(points)...)
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderEndpointBreakdown lists per-endpoint day totals with sparklines.
func (m *Model) renderEndpointBreakdown(points []models.HourlyDataPoint) []string {
	var lines []string

	for _, endpointID := range usage.KnownEndpoints() {
		vals := make([]float64, len(points))
		total := 0
		for i, p := range points {
			v := hourlyValue(p, endpointID)
			vals[i] = v
			total += int(v)
		}
		if total == 0 {
			continue
		}

		name, _ := usage.ShortName(endpointID)
		color := styles.EndpointColor(endpointID)
		label := lipgloss.NewStyle().Foreground(color).Bold(true).Width(12).Render(name)
		spark := components.RenderSparkline(vals, 24)
		lines = append(lines, fmt.Sprintf("  %s %s %s",
			label,
			spark,
			styles.HelpStyle.Render(fmt.Sprintf("%d", total)),
		))
	}

	return lines
}

// renderActivityStrip shows total calls across every hour of the
// current chart window as one continuous sparkline.
func (m *Model) renderActivityStrip(rec models.UsageRecord) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Activity")), "")

	days := m.state.GetRangeDays()
	now := time.Now()
	rng := models.DateRange{
		From: usage.FormatISODate(now.AddDate(0, 0, -(days - 1))),
		To:   usage.FormatISODate(now),
	}

	points := usage.BuildAllHoursSeries(rec, rng)
	if len(points) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No activity in this window"))
	} else {
		totals := make([]float64, len(points))
		for i, p := range points {
			totals[i] = float64(p.Total)
		}

		stripWidth := max(cardWidth-12, 30)
		rows = append(rows, "  "+components.RenderColoredSparkline(totals, stripWidth))
		rows = append(rows, "")
		rows = append(rows, styles.HelpStyle.Render(
			fmt.Sprintf("  %s → %s · every hour, %d points", rng.From, rng.To, len(points)),
		))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func peakOf(vals []float64) (idx int, val float64) {
	for i, v := range vals {
		if v > val {
			idx = i
			val = v
		}
	}
	return idx, val
}

func hourlyValue(p models.HourlyDataPoint, endpointID string) float64 {
	switch endpointID {
	case usage.EndpointTweet:
		return float64(p.Tweet)
	case usage.EndpointUser:
		return float64(p.User)
	case usage.EndpointCommunity:
		return float64(p.Community)
	case usage.EndpointFollows:
		return float64(p.Follows)
	case usage.EndpointCommunities:
		return float64(p.Communities)
	default:
		return 0
	}
}

func formatDateLong(date string) string {
	t, err := usage.ParseISODate(date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}
