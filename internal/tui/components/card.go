// Package components provides reusable widgets for the fundburn dashboard.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fundburn/internal/model"
	"github.com/theirongolddev/fundburn/internal/tui/theme"
)

// Metric is one label/value pair for a metric card.
type Metric struct {
	Label, Value, Delta string
}

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

func cardStyle(border lipgloss.Color, outerWidth int) lipgloss.Style {
	t := theme.Active
	contentWidth := outerWidth - 2 // border
	if contentWidth < 10 {
		contentWidth = 10
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(contentWidth).
		Padding(0, 1)
}

// MetricCard renders a small card with label, value and delta.
// outerWidth is the total rendered width including border.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	delta := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	content := label.Render(m.Label) + "\n" + value.Render(m.Value)
	if m.Delta != "" {
		content += "\n" + delta.Render(m.Delta)
	}
	return cardStyle(t.Border, outerWidth).Render(content)
}

// MetricCardRow renders metric cards side by side, summing to totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(metrics))
	rendered := make([]string, len(metrics))
	for i, m := range metrics {
		rendered[i] = MetricCard(m, widths[i])
	}
	return CardRow(rendered)
}

// KPICard renders a KPI payload: value, an on/off target line colored by
// status, and the additional metric strings.
func KPICard(k model.KPI, outerWidth int) string {
	t := theme.Active
	status := t.ForTarget(k.OnTarget)

	title := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)
	msg := lipgloss.NewStyle().Foreground(status).Background(t.Surface)

	arrow := "▼ "
	if k.OnTarget {
		arrow = "▲ "
	}

	var b strings.Builder
	b.WriteString(title.Render(k.Title))
	if k.Subtitle != "" {
		b.WriteString("\n" + sub.Render(k.Subtitle))
	}
	b.WriteString("\n" + value.Render(k.Value))
	b.WriteString("\n" + msg.Render(arrow+k.Message()))
	for _, m := range k.Metrics {
		b.WriteString("\n" + sub.Render(m))
	}
	return cardStyle(status, outerWidth).Render(b.String())
}

// KPICardRow renders KPI cards side by side, summing to totalWidth.
func KPICardRow(kpis []model.KPI, totalWidth int) string {
	if len(kpis) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(kpis))
	rendered := make([]string, len(kpis))
	for i, k := range kpis {
		rendered[i] = KPICard(k, widths[i])
	}
	return CardRow(rendered)
}

// ContentCard renders a bordered content card with an optional title.
// outerWidth controls the total rendered width including border.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active

	content := ""
	if title != "" {
		content = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true).Render(title) + "\n"
	}
	content += body

	return cardStyle(t.Border, outerWidth).Render(content)
}

// CardRow joins rendered cards horizontally. Shorter cards are padded with
// the surface color so the row has no unstyled gaps.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	tallest := 0
	for _, c := range cards {
		if h := lipgloss.Height(c); h > tallest {
			tallest = h
		}
	}
	bg := lipgloss.WithWhitespaceBackground(theme.Active.Background)
	padded := make([]string, len(cards))
	for i, c := range cards {
		padded[i] = lipgloss.Place(lipgloss.Width(c), tallest, lipgloss.Left, lipgloss.Top, c, bg)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, padded...)
}

// CardInnerWidth returns the usable text width inside a ContentCard
// given its outer width (subtracts border + padding).
func CardInnerWidth(outerWidth int) int {
	w := outerWidth - 4 // 2 border + 2 padding
	if w < 10 {
		w = 10
	}
	return w
}
