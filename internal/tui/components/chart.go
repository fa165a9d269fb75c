package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fundburn/internal/model"
	"github.com/theirongolddev/fundburn/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := values[0]
	for _, v := range values[1:] {
		peak = math.Max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// Column is one column of a ColumnChart.
type Column struct {
	Label string
	Value float64
}

// ColumnChart renders vertical bars with a y-axis. A positive goal draws a
// dashed target line across the chart at that value.
func ColumnChart(cols []Column, goal float64, color lipgloss.Color, width, height int) string {
	if len(cols) == 0 {
		return ""
	}
	values := make([]float64, len(cols))
	for i, c := range cols {
		values[i] = c.Value
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active
	peak := math.Max(goal, 0)
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	step := tickStep(peak)
	ceiling := math.Max(step, math.Ceil(peak/step)*step)

	labelW := max(4, len(axisLabel(ceiling))+1)
	plotW := max(5, width-labelW-1)

	// Keep the most recent columns when they do not fit at one cell each.
	if n := (plotW + 1) / 2; len(cols) > n {
		cols = cols[len(cols)-n:]
		values = values[len(values)-n:]
	}
	n := len(cols)
	barW := max(1, min(6, (plotW-(n-1))/n))

	surface := lipgloss.NewStyle().Background(t.Surface)
	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	bar := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	target := lipgloss.NewStyle().Foreground(t.Goal).Background(t.Surface)

	goalRow := -1
	if goal > 0 {
		goalRow = int(math.Round(goal / ceiling * float64(height)))
	}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := ceiling * float64(row) / float64(height)
		bottom := ceiling * float64(row-1) / float64(height)

		label := ""
		if row == height {
			label = axisLabel(ceiling)
		} else if row == height/2 {
			label = axisLabel(ceiling * float64(row) / float64(height))
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", labelW, label)))

		for i, v := range values {
			if i > 0 {
				b.WriteString(gapCell(row == goalRow, surface, target))
			}
			switch {
			case v >= top:
				b.WriteString(bar.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * float64(len(sparkBlocks)))
				idx = max(0, min(idx, len(sparkBlocks)-1))
				b.WriteString(bar.Render(strings.Repeat(string(sparkBlocks[idx]), barW)))
			case row == goalRow:
				b.WriteString(target.Render(strings.Repeat("╌", barW)))
			default:
				b.WriteString(surface.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*barW + (n - 1)
	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", labelW, "0", strings.Repeat("─", axisLen))))

	first, last := cols[0].Label, cols[n-1].Label
	if n > 1 && len(first)+len(last)+1 <= axisLen {
		pad := axisLen - len(first) - len(last)
		b.WriteString("\n")
		b.WriteString(axis.Render(strings.Repeat(" ", labelW+1) + first + strings.Repeat(" ", pad) + last))
	} else if len(first) <= axisLen {
		b.WriteString("\n")
		b.WriteString(axis.Render(strings.Repeat(" ", labelW+1) + first))
	}
	return b.String()
}

func gapCell(onGoal bool, surface, target lipgloss.Style) string {
	if onGoal {
		return target.Render("╌")
	}
	return surface.Render(" ")
}

// HBarList renders labeled horizontal bars scaled to the largest value.
// At most limit bars are shown; limit <= 0 shows all.
func HBarList(bars []model.Bar, width, limit int, format func(float64) string) string {
	if len(bars) == 0 {
		return ""
	}
	if limit > 0 && len(bars) > limit {
		bars = bars[:limit]
	}
	t := theme.Active

	labelW, valueW := 0, 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		valueW = max(valueW, len(format(b.Value)))
		peak = math.Max(peak, b.Value)
	}
	labelW = min(labelW, max(8, width/3))
	barMax := max(1, width-labelW-valueW-2)
	if peak <= 0 {
		peak = 1
	}

	label := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	surface := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(bars))
	for i, b := range bars {
		n := int(math.Round(b.Value / peak * float64(barMax)))
		n = max(0, min(n, barMax))
		fill := lipgloss.NewStyle().Foreground(t.SeriesColor(i)).Background(t.Surface)
		lines[i] = label.Render(fmt.Sprintf("%-*s", labelW, truncate(b.Label, labelW))) +
			surface.Render(" ") +
			fill.Render(strings.Repeat("█", n)) +
			surface.Render(strings.Repeat(" ", barMax-n+1)) +
			value.Render(fmt.Sprintf("%*s", valueW, format(b.Value)))
	}
	return strings.Join(lines, "\n")
}

// tickStep computes a round axis step targeting about five ticks.
func tickStep(peak float64) float64 {
	if peak <= 0 {
		return 1
	}
	rough := peak / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func axisLabel(v float64) string {
	for _, u := range []struct {
		div    float64
		suffix string
	}{{1e9, "B"}, {1e6, "M"}, {1e3, "k"}} {
		if v >= u.div {
			if v == math.Trunc(v/u.div)*u.div {
				return fmt.Sprintf("%.0f%s", v/u.div, u.suffix)
			}
			return fmt.Sprintf("%.1f%s", v/u.div, u.suffix)
		}
	}
	if v >= 1 || v == 0 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}
