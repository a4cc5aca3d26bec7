package dashboard

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

// fullCreditAllotment is the credit balance a fresh plan starts with,
// used to scale the credits bar.
const fullCreditAllotment = 1000

const dailyChartHeight = 10

// View renders the dashboard tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return m.renderLoading()
	}

	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderKeyList())

	if selected := m.state.GetSelectedKey(); selected != nil {
		sections = append(sections, m.renderUsageCard(*selected))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderLoading renders the loading state.
func (m *Model) renderLoading() string {
	return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
}

// renderTitle renders the dashboard title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Bark Dashboard")
	subtitle := styles.HelpStyle.Render("API usage and latency monitor")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderKeyList renders the list of keys with credit balances.
func (m *Model) renderKeyList() string {
	keysWithUsage := m.state.GetKeys()

	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("API Keys")))

	if len(keysWithUsage) == 0 {
		rows = append(rows, "")
		emptyIcon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
		rows = append(rows, fmt.Sprintf("  %s %s", emptyIcon, styles.HelpStyle.Render("No API keys configured")))
		rows = append(rows, "")
		rows = append(rows, styles.InfoTextStyle.Render("  ╰─▶ Add a key on the Keys tab (3)"))

		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	rows = append(rows, "")

	selectedIndex := m.state.GetSelectedKeyIndex()
	for i, k := range keysWithUsage {
		rows = append(rows, m.renderKeyRow(k, i == selectedIndex))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderKeyRow(k models.KeyWithUsage, selected bool) string {
	selectionPrefix := "  "
	if selected {
		selectionPrefix = styles.FocusedStyle.Render("▸ ")
	}

	name := k.Entry.DisplayName()
	if len(name) > 30 {
		name = name[:27] + "..."
	}

	status := statusIndicator(k.Snapshot)

	creditsStr := styles.HelpStyle.Render("credits —")
	callsStr := ""
	if k.Snapshot.HasData() {
		credits := k.Snapshot.Usage.CreditsRemaining
		creditsStr = styles.GetCreditsStyle(credits).Render(fmt.Sprintf("credits %d", credits))
		callsStr = styles.HelpStyle.Render(fmt.Sprintf("  %d calls", k.Snapshot.Usage.Total))
	}

	return fmt.Sprintf("%s%s%s  %s%s",
		selectionPrefix,
		status,
		lipgloss.NewStyle().Bold(true).Render(name),
		creditsStr,
		callsStr,
	)
}

func statusIndicator(snap *models.UsageSnapshot) string {
	switch {
	case snap == nil:
		return lipgloss.NewStyle().Foreground(styles.Subtle).Render("○ ")
	case snap.Error != "":
		return styles.ErrorTextStyle.Render("✗ ")
	default:
		return styles.SuccessTextStyle.Render("● ")
	}
}

// renderUsageCard renders the usage detail for the selected key.
func (m *Model) renderUsageCard(k models.KeyWithUsage) string {
	cardWidth := max(m.width-6, 40)
	contentWidth := max(cardWidth-8, 24)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	header := fmt.Sprintf("%s %s %s",
		titleIcon,
		styles.CardTitleStyle.Render(k.Entry.DisplayName()),
		styles.HelpStyle.Render(fmt.Sprintf("· last %d days", m.state.GetRangeDays())),
	)
	rows = append(rows, header)
	rows = append(rows, "")

	switch {
	case k.Snapshot == nil:
		rows = append(rows, components.SimpleBarLoading("usage", contentWidth, m.animationFrame))
	case k.Snapshot.Error != "":
		rows = append(rows, m.renderSnapshotError(k.Snapshot)...)
	default:
		rows = append(rows, m.renderCredits(k.Snapshot, contentWidth)...)
		rows = append(rows, "")
		rows = append(rows, m.renderEndpointTotals(k.Snapshot)...)
		rows = append(rows, "")
		rows = append(rows, m.renderDailyChart(k.Snapshot, contentWidth)...)
		rows = append(rows, "")
		rows = append(rows, m.renderFreshness(k.Snapshot))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSnapshotError(snap *models.UsageSnapshot) []string {
	var lines []string
	lines = append(lines, styles.ErrorTextStyle.Render("  ✗ "+snap.Error))
	lines = append(lines, "")
	lines = append(lines, styles.HelpStyle.Render("  Press r to retry"))
	return lines
}

func (m *Model) renderCredits(snap *models.UsageSnapshot, width int) []string {
	credits := snap.Usage.CreditsRemaining

	label := styles.GetCreditsStyle(credits).Bold(true).Render(fmt.Sprintf("Credits: %d", credits))
	barWidth := max(width-10, 10)
	bar := m.creditsBar.ViewCompact(credits, fullCreditAllotment, barWidth)

	return []string{
		"  " + label,
		"  " + bar,
	}
}

func (m *Model) renderEndpointTotals(snap *models.UsageSnapshot) []string {
	var lines []string

	for _, endpointID := range usage.KnownEndpoints() {
		eu, ok := snap.Usage.Endpoints[endpointID]
		if !ok {
			continue
		}

		name, _ := usage.ShortName(endpointID)
		color := styles.EndpointColor(endpointID)
		icon := lipgloss.NewStyle().Foreground(color).Render("■")
		label := lipgloss.NewStyle().Foreground(color).Bold(true).Width(12).Render(name)
		total := lipgloss.NewStyle().Width(8).Align(lipgloss.Right).Render(fmt.Sprintf("%d", eu.Total))

		latency := ""
		if em, ok := usage.LookupLatency(snap.Metrics, endpointID); ok && em.Count > 0 {
			latency = styles.HelpStyle.Render(
				fmt.Sprintf("  p50 %.0fms · p95 %.0fms · p99 %.0fms", em.P50Ms, em.P95Ms, em.P99Ms),
			)
		}

		lines = append(lines, fmt.Sprintf("  %s %s%s%s", icon, label, total, latency))
	}

	if len(lines) == 0 {
		lines = append(lines, styles.HelpStyle.Render("  No endpoint activity in this window"))
	}

	return lines
}

func (m *Model) renderDailyChart(snap *models.UsageSnapshot, width int) []string {
	days := m.state.GetRangeDays()
	rng := rangeEndingToday(days)

	points := usage.BuildDailySeries(snap.Usage, rng)
	if len(points) == 0 {
		return []string{styles.HelpStyle.Render("  No daily data")}
	}

	endpointIDs := usage.KnownEndpoints()
	series := make([][]float64, len(endpointIDs))
	for i, endpointID := range endpointIDs {
		vals := make([]float64, len(points))
		for j, p := range points {
			vals[j] = seriesValue(p, endpointID)
		}
		series[i] = vals
	}

	caption := fmt.Sprintf("Daily calls · %s to %s", rng.From, rng.To)
	chart := components.RenderMultiLineChart(series, max(width-4, 20), dailyChartHeight, caption)

	legend := components.EndpointLegend(endpointIDs, func(id string) string {
		name, _ := usage.ShortName(id)
		return name
	})

	var lines []string
	for _, l := range strings.Split(chart, "\n") {
		lines = append(lines, "  "+l)
	}
	lines = append(lines, "")
	lines = append(lines, "  "+legend)
	return lines
}

func (m *Model) renderFreshness(snap *models.UsageSnapshot) string {
	if snap.FetchedAt.IsZero() {
		return ""
	}
	age := time.Since(snap.FetchedAt).Round(time.Second)
	return styles.HelpStyle.Render(fmt.Sprintf("  updated %s ago", age))
}

// rangeEndingToday returns the closed date range covering the last
// days calendar days, today included.
func rangeEndingToday(days int) models.DateRange {
	now := time.Now()
	return models.DateRange{
		From: usage.FormatISODate(now.AddDate(0, 0, -(days - 1))),
		To:   usage.FormatISODate(now),
	}
}

func seriesValue(p models.ChartDataPoint, endpointID string) float64 {
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
