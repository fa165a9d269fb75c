package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fundburn/internal/cli"
	"github.com/theirongolddev/fundburn/internal/config"
	"github.com/theirongolddev/fundburn/internal/metrics"
	"github.com/theirongolddev/fundburn/internal/model"
	"github.com/theirongolddev/fundburn/internal/tui/components"
	"github.com/theirongolddev/fundburn/internal/tui/theme"
)

// fiscalState is the Fiscal Year page selection.
type fiscalState struct {
	year           metrics.FiscalYear
	counterfactual bool
	breakdown      int // 0 is none, otherwise 1 + index into metrics.Breakdowns
}

func (s fiscalState) update(key string) fiscalState {
	switch key {
	case "[":
		s.year.StartYear--
	case "]":
		s.year.StartYear++
	case "c":
		s.counterfactual = !s.counterfactual
	case "b":
		s.breakdown = (s.breakdown + 1) % (len(metrics.Breakdowns) + 1)
	}
	return s
}

func (s fiscalState) breakdownKey() metrics.Breakdown {
	if s.breakdown == 0 {
		return ""
	}
	return metrics.Breakdowns[s.breakdown-1]
}

func (a App) renderFiscalTab(cw int) string {
	t := theme.Active
	e, rows, pledges := a.engine, a.result.Rows, a.result.Pledges
	fs := a.fiscal

	mmKPI, mm := e.MoneyMovedKPI(rows, fs.year, fs.counterfactual)
	avgKPI, _ := e.AverageAttritionKPI(pledges)
	kpis := []model.KPI{mmKPI, e.ActiveDonorsKPI(pledges), avgKPI, e.AllTimeAttritionKPI(pledges)}

	var b strings.Builder
	b.WriteString(kpiGrid(kpis, cw, a.isCompactLayout()))
	b.WriteString("\n")

	goalKey := config.TargetMoneyMoved
	if fs.counterfactual {
		goalKey = config.TargetMoneyMovedCounterfactual
	}
	goal := e.Targets.Get(goalKey)
	inner := components.CardInnerWidth(cw)

	var body string
	bd := fs.breakdownKey()
	if bd == "" {
		var cols []components.Column
		for _, m := range fs.year.Months() {
			if m.Start().After(e.Now) {
				break
			}
			cols = append(cols, components.Column{Label: m.Start().Format("Jan 06"), Value: mm.CumulativeAt(m.End())})
		}
		if len(cols) == 0 {
			body = lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No payments in this fiscal year yet.")
		} else {
			body = components.ColumnChart(cols, goal, t.Accent, inner, 10) + "\n\n" +
				components.GoalBar(mm.Total.InexactFloat64(), goal, false, max(10, inner-16))
		}
	} else {
		bars, err := metrics.MoneyMovedBars(rows, e.Query(fs.year, fs.counterfactual), bd)
		if err != nil {
			body = err.Error()
		} else {
			body = components.HBarList(bars, inner, 14, cli.FormatCompactUSD)
		}
	}
	b.WriteString(components.ContentCard(mm.Title(bd), body, cw))
	b.WriteString("\n")

	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
	b.WriteString(hint.Render(" [ ] fiscal year   c counterfactual   b breakdown"))
	return b.String()
}

// kpiGrid lays KPI cards out four abreast, or two abreast when compact.
func kpiGrid(kpis []model.KPI, cw int, compact bool) string {
	perRow := 4
	if compact {
		perRow = 2
	}
	var rows []string
	for i := 0; i < len(kpis); i += perRow {
		end := min(i+perRow, len(kpis))
		rows = append(rows, components.KPICardRow(kpis[i:end], cw))
	}
	return strings.Join(rows, "\n")
}
