package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fundburn/internal/cli"
	"github.com/theirongolddev/fundburn/internal/config"
	"github.com/theirongolddev/fundburn/internal/interval"
	"github.com/theirongolddev/fundburn/internal/metrics"
	"github.com/theirongolddev/fundburn/internal/model"
	"github.com/theirongolddev/fundburn/internal/pipeline"
	"github.com/theirongolddev/fundburn/internal/tui/components"
	"github.com/theirongolddev/fundburn/internal/tui/theme"
)

// monthlyChart is one selectable series on the Monthly page.
type monthlyChart struct {
	title  string
	target config.Target // empty for no goal line
	format func(float64) string
	points func(data *pipeline.LoadResult, e *metrics.Engine) []model.MonthPoint
}

func donations(mode metrics.DonationMode) func(*pipeline.LoadResult, *metrics.Engine) []model.MonthPoint {
	return func(data *pipeline.LoadResult, e *metrics.Engine) []model.MonthPoint {
		series := metrics.MonthlyDonations(data.Rows, e.Exclude, mode)
		if len(series) == 0 {
			return nil
		}
		return series[0].Points
	}
}

func pledgesIn(b interval.Bounds) func(*pipeline.LoadResult, *metrics.Engine) []model.MonthPoint {
	return func(data *pipeline.LoadResult, e *metrics.Engine) []model.MonthPoint {
		return metrics.MonthlyPledges(data.Pledges, b, e.Now)
	}
}

var monthlyCharts = func() []monthlyChart {
	charts := []monthlyChart{
		{title: "Money Moved (Monthly)", format: cli.FormatCompactUSD, points: donations(metrics.DonationsTotal)},
		{title: "Counterfactual Money Moved (Monthly)", format: cli.FormatCompactUSD, points: donations(metrics.DonationsCounterfactual)},
	}
	for _, pv := range metrics.PledgeViews {
		charts = append(charts, monthlyChart{title: pv.Title, target: pv.Target, format: cli.FormatCount, points: pledgesIn(pv.Bounds)})
	}
	return append(charts,
		monthlyChart{
			title:  "Monthly Annual Recurring Revenue (ARR)",
			target: config.TargetTotalARR,
			format: cli.FormatCompactUSD,
			points: func(data *pipeline.LoadResult, e *metrics.Engine) []model.MonthPoint {
				return metrics.MonthlyARRPoints(metrics.MonthlyARR(data.Pledges, interval.Total, e.Now))
			},
		},
		monthlyChart{
			title:  "Monthly Attrition Rate",
			target: config.TargetAttritionRate,
			format: cli.FormatPercent,
			points: func(data *pipeline.LoadResult, e *metrics.Engine) []model.MonthPoint {
				return metrics.MonthlyAttritionPoints(metrics.ComputeMonthlyAttrition(data.Pledges, e.Now))
			},
		},
		monthlyChart{
			title:  "Donors With Active Pledges Per Month",
			target: config.TargetActiveDonors,
			format: cli.FormatCount,
			points: func(data *pipeline.LoadResult, e *metrics.Engine) []model.MonthPoint {
				return metrics.MonthlyActiveDonors(data.Pledges, e.Now)
			},
		},
	)
}()

// monthlyState is the Monthly page selection.
type monthlyState struct {
	idx int
}

func (s monthlyState) update(key string) monthlyState {
	switch key {
	case "j", "down":
		if s.idx < len(monthlyCharts)-1 {
			s.idx++
		}
	case "k", "up":
		if s.idx > 0 {
			s.idx--
		}
	}
	return s
}

func (a App) renderMonthlyTab(cw, contentH int) string {
	t := theme.Active
	chart := monthlyCharts[a.monthly.idx]
	points := chart.points(a.result, a.engine)

	// Series picker
	sel := lipgloss.NewStyle().Foreground(t.AccentBold).Background(t.Highlight).Bold(true)
	other := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	var list strings.Builder
	for i, c := range monthlyCharts {
		if i > 0 {
			list.WriteString("\n")
		}
		if i == a.monthly.idx {
			list.WriteString(sel.Render("▸ " + c.title))
		} else {
			list.WriteString(other.Render("  " + c.title))
		}
	}
	picker := components.ContentCard("Series", list.String(), cw)

	goal := 0.0
	if chart.target != "" {
		goal = a.engine.Targets.Get(chart.target)
	}
	inner := components.CardInnerWidth(cw)
	chartH := max(6, contentH-lipgloss.Height(picker)-6)

	var body string
	if len(points) == 0 {
		body = lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No data for this series.")
	} else {
		cols := make([]components.Column, len(points))
		for i, p := range points {
			cols[i] = components.Column{Label: p.MonthEnd.Format("Jan 06"), Value: p.Value}
		}
		last := points[len(points)-1]
		summary := "Latest " + last.Label + ": " + chart.format(last.Value)
		if goal > 0 {
			summary += "   Goal: " + chart.format(goal)
		}
		body = components.ColumnChart(cols, goal, t.Accent, inner, chartH) + "\n\n" +
			other.Render(summary)
	}

	return picker + "\n" + components.ContentCard(chart.title, body, cw)
}
