package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fundburn/internal/tui/theme"
)

// ProgressBar renders a loading bar with a percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	filled := max(0, min(int(pct*float64(width)), width))

	var barColor lipgloss.Color
	switch {
	case pct >= 0.8:
		barColor = t.AccentBold
	case pct >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.Key
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)

	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled)) +
		pctStyle.Render(fmt.Sprintf(" %.0f%%", pct*100))
}

// GoalBar renders progress of actual toward goal. When lowerIsBetter, the bar
// shows how much of the allowed budget is used and turns red past the goal.
func GoalBar(actual, goal float64, lowerIsBetter bool, width int) string {
	t := theme.Active
	if goal <= 0 || width <= 0 {
		return ""
	}
	ratio := actual / goal
	onTarget := ratio >= 1
	if lowerIsBetter {
		onTarget = ratio <= 1
	}

	filled := max(0, min(int(ratio*float64(width)), width))
	fill := lipgloss.NewStyle().Foreground(t.ForTarget(onTarget)).Background(t.Surface)
	empty := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	return fill.Render(strings.Repeat("━", filled)) +
		empty.Render(strings.Repeat("─", width-filled)) +
		label.Render(fmt.Sprintf(" %.0f%% of goal", ratio*100))
}
