package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/barkgg/barkdash/internal/logger"
	"github.com/barkgg/barkdash/internal/ui/styles"
)

type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// CreditsBar renders a credit balance as a progress bar with label and count.
type CreditsBar struct {
	progress       progress.Model
	label          string
	isAnimating    bool
	targetPercent  float64
	currentPercent float64
}

// NewCreditsBar creates a new credits bar with gradient colors.
func NewCreditsBar() CreditsBar {
	return NewCreditsBarWithWidth(30)
}

// NewCreditsBarWithWidth creates a credits bar with a specific width.
func NewCreditsBarWithWidth(width int) CreditsBar {
	p := progress.New(
		progress.WithScaledGradient("#ff6b6b", "#51cf66"),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)

	return CreditsBar{
		progress: p,
	}
}

// Init initializes the progress bar model.
func (c CreditsBar) Init() tea.Cmd {
	return nil
}

// Update handles progress bar animation messages.
func (c CreditsBar) Update(msg tea.Msg) (CreditsBar, tea.Cmd) {
	var cmds []tea.Cmd

	if _, ok := msg.(AnimationTickMsg); ok && c.isAnimating {
		switch {
		case c.currentPercent < c.targetPercent:
			step := (c.targetPercent - c.currentPercent) / 10
			if step < 0.5 {
				step = 0.5
			}
			c.currentPercent += step
			if c.currentPercent > c.targetPercent {
				c.currentPercent = c.targetPercent
			}
			cmds = append(cmds, animationTick())
		case c.currentPercent > c.targetPercent:
			step := (c.currentPercent - c.targetPercent) / 10
			if step < 0.5 {
				step = 0.5
			}
			c.currentPercent -= step
			if c.currentPercent < c.targetPercent {
				c.currentPercent = c.targetPercent
			}
			cmds = append(cmds, animationTick())
		default:
			c.isAnimating = false
		}
	}

	model, cmd := c.progress.Update(msg)
	c.progress = model.(progress.Model)
	cmds = append(cmds, cmd)

	return c, tea.Batch(cmds...)
}

// SetPercent sets the fill percentage and starts the animation.
func (c *CreditsBar) SetPercent(percent float64) tea.Cmd {
	c.targetPercent = percent

	if !c.isAnimating {
		c.isAnimating = true
		return tea.Batch(
			c.progress.SetPercent(percent/100),
			animationTick(),
		)
	}

	return c.progress.SetPercent(percent / 100)
}

// SetLabel sets the bar label.
func (c *CreditsBar) SetLabel(label string) {
	c.label = label
}

// SetWidth sets the progress bar width.
func (c *CreditsBar) SetWidth(width int) {
	c.progress.Width = width
}

// View renders the bar for a credit balance against a nominal full balance.
func (c CreditsBar) View(credits, fullCredits, width int) string {
	barWidth := width - 30 // Reserve space for label and count
	if barWidth < 10 {
		barWidth = 10
	}
	c.progress.Width = barWidth

	percent := creditsPercent(credits, fullCredits)
	bar := c.progress.ViewAs(percent / 100)

	countStyle := styles.GetCreditsStyle(credits)
	countStr := countStyle.Width(8).Align(lipgloss.Right).Render(fmt.Sprintf("%d", credits))

	labelStr := styles.ProgressLabelStyle.Width(15).Render(c.label)

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStr,
		bar,
		" ",
		countStr,
	)
}

// ViewCompact renders a compact version without label.
func (c CreditsBar) ViewCompact(credits, fullCredits, width int) string {
	barWidth := width - 10
	if barWidth < 5 {
		barWidth = 5
	}
	c.progress.Width = barWidth

	percent := creditsPercent(credits, fullCredits)
	bar := c.progress.ViewAs(percent / 100)
	countStr := styles.GetCreditsStyle(credits).Render(fmt.Sprintf("%d", credits))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", countStr)
}

func creditsPercent(credits, fullCredits int) float64 {
	if fullCredits <= 0 {
		if credits > 0 {
			return 100
		}
		return 0
	}
	percent := float64(credits) / float64(fullCredits) * 100
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return percent
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barChars []string
	for i := 0; i < width; i++ {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor("#ff6b6b", "#51cf66", t)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			barChars = append(barChars, style.Render("█"))
		} else {
			style := lipgloss.NewStyle().Foreground(styles.Subtle)
			barChars = append(barChars, style.Render("░"))
		}
	}

	return strings.Join(barChars, "")
}

// SimpleCreditsBar renders a one-line ASCII credits bar with gradient colors.
func SimpleCreditsBar(credits, fullCredits int, label string, width int) string {
	labelWidth := len(label) + 1
	countWidth := 8
	barWidth := width - labelWidth - countWidth - 4

	if barWidth < 5 {
		barWidth = 5
	}

	percent := creditsPercent(credits, fullCredits)
	bar := RenderGradientBar(percent, barWidth)

	labelStr := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(label)

	countStr := styles.GetCreditsStyle(credits).
		Width(countWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%d", credits))

	return fmt.Sprintf("%s [%s] %s", labelStr, bar, countStr)
}

// SimpleBarLoading renders a shimmering placeholder bar while data loads.
func SimpleBarLoading(label string, width int, frame int) string {
	const (
		indentWidth = 4
		countWidth  = 8
	)

	barWidth := width - indentWidth - countWidth - 4
	if barWidth < 10 {
		barWidth = 10
	}

	accentColor := styles.EndpointColor(strings.ToLower(label))
	if strings.Contains(strings.ToLower(label), "total") {
		accentColor = styles.Primary
	}

	cycle := 120

	t := float64(frame%cycle) / float64(cycle)
	var p float64
	if t < 0.5 {
		p = t * 2
	} else {
		p = (1 - t) * 2
	}
	eased := p * p * (3 - 2*p)
	shimmerPos := int(eased * float64(barWidth))
	var barChars []string

	for i := 0; i < barWidth; i++ {
		dist := shimmerPos - i
		if dist < 0 {
			dist = -dist
		}

		var char string
		var style lipgloss.Style

		if dist < 3 {
			char = "▓"
			style = lipgloss.NewStyle().Foreground(accentColor)
		} else if dist < 5 {
			char = "▒"
			style = lipgloss.NewStyle().Foreground(styles.TextSecondary)
		} else {
			char = "░"
			style = lipgloss.NewStyle().Foreground(styles.BgLight)
		}

		barChars = append(barChars, style.Render(char))
	}

	bar := strings.Join(barChars, "")

	dots := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	dot := dots[(frame/2)%len(dots)]

	loadingStr := lipgloss.NewStyle().
		Width(countWidth).
		Align(lipgloss.Right).
		Foreground(accentColor).
		Render(dot)

	return lipgloss.JoinHorizontal(lipgloss.Left,
		"    ",
		bar,
		" ",
		loadingStr,
	)
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}
