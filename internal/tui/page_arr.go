package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fundburn/internal/cli"
	"github.com/theirongolddev/fundburn/internal/interval"
	"github.com/theirongolddev/fundburn/internal/metrics"
	"github.com/theirongolddev/fundburn/internal/model"
	"github.com/theirongolddev/fundburn/internal/tui/components"
	"github.com/theirongolddev/fundburn/internal/tui/theme"
)

var arrViews = []interval.Bounds{interval.Total, interval.Future, interval.Active}

// arrState is the ARR by Chapter page selection.
type arrState struct {
	view         int
	typeIdx      int
	chapterTypes []string
}

func (s arrState) update(key string) arrState {
	switch key {
	case "v":
		s.view = (s.view + 1) % len(arrViews)
	case "j", "down":
		if s.typeIdx < len(s.chapterTypes)-1 {
			s.typeIdx++
		}
	case "k", "up":
		if s.typeIdx > 0 {
			s.typeIdx--
		}
	}
	return s
}

func (s arrState) chapterType() string {
	if len(s.chapterTypes) == 0 {
		return ""
	}
	return s.chapterTypes[s.typeIdx]
}

func (a App) renderARRTab(cw int) string {
	t := theme.Active
	e, pledges := a.engine, a.result.Pledges
	month := model.MonthOf(e.Now)
	view := arrViews[a.arr.view]

	kpis := make([]model.KPI, len(arrViews))
	for i, v := range arrViews {
		kpis[i], _ = e.ARRKPI(pledges, v, month)
	}

	var b strings.Builder
	b.WriteString(components.KPICardRow(kpis, cw))
	b.WriteString("\n")

	// Chapter type selector
	sel := lipgloss.NewStyle().Foreground(t.AccentBold).Background(t.Highlight).Bold(true)
	other := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
	parts := make([]string, len(a.arr.chapterTypes))
	for i, ct := range a.arr.chapterTypes {
		if i == a.arr.typeIdx {
			parts[i] = sel.Render(" " + ct + " ")
		} else {
			parts[i] = other.Render(" " + ct + " ")
		}
	}
	b.WriteString(other.Render(" Chapter type: ") + strings.Join(parts, other.Render(" ")))
	b.WriteString("\n")

	ct := a.arr.chapterType()
	chapters := metrics.ChapterARR(pledges, view, month, ct)
	channel := metrics.ChannelARR(pledges, view, month)

	if a.isCompactLayout() {
		inner := components.CardInnerWidth(cw)
		b.WriteString(arrCard("ARR by Chapter · "+ct+" · "+viewName(view), chapters, inner, cw))
		b.WriteString("\n")
		b.WriteString(arrCard("Channel ARR · "+viewName(view), channel, inner, cw))
	} else {
		widths := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			arrCard("ARR by Chapter · "+ct+" · "+viewName(view), chapters, components.CardInnerWidth(widths[0]), widths[0]),
			arrCard("Channel ARR · "+viewName(view), channel, components.CardInnerWidth(widths[1]), widths[1]),
		}))
	}
	b.WriteString("\n")

	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
	b.WriteString(hint.Render(" v view   j/k chapter type"))
	return b.String()
}

func arrCard(title string, bars []model.Bar, inner, outer int) string {
	body := components.HBarList(bars, inner, 15, cli.FormatCompactUSD)
	if body == "" {
		body = lipgloss.NewStyle().Foreground(theme.Active.TextDim).Background(theme.Active.Surface).Render("No active recurring pledges.")
	}
	return components.ContentCard(title, body, outer)
}
