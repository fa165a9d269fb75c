package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/theirongolddev/fundburn/internal/cli"
	"github.com/theirongolddev/fundburn/internal/config"
	"github.com/theirongolddev/fundburn/internal/interval"
	"github.com/theirongolddev/fundburn/internal/model"
)

// Engine builds KPI payloads against configured targets. Now is the
// reference date for every "current" figure.
type Engine struct {
	Now     time.Time
	Targets config.Targets
	Exclude Exclusions
}

// NewEngine resolves targets and exclusions from cfg.
func NewEngine(cfg config.Config, now time.Time) *Engine {
	return &Engine{
		Now:     now,
		Targets: cfg.ResolveTargets(),
		Exclude: NewExclusions(cfg.Exclusions.InternalPortfolios),
	}
}

// Query returns the money-moved query for fy.
func (e *Engine) Query(fy FiscalYear, counterfactual bool) MoneyMovedQuery {
	return MoneyMovedQuery{Year: fy, Counterfactual: counterfactual, Exclude: e.Exclude}
}

// MoneyMovedKPI reports fiscal-year-to-date money moved. It is on target when
// the trend projects to at least the goal by fiscal year end.
func (e *Engine) MoneyMovedKPI(rows []model.Row, fy FiscalYear, counterfactual bool) (model.KPI, MoneyMoved) {
	mm := ComputeMoneyMoved(rows, e.Query(fy, counterfactual))

	target := config.TargetMoneyMoved
	title := "Money Moved"
	if counterfactual {
		target = config.TargetMoneyMovedCounterfactual
		title = "Counterfactual Money Moved"
	}
	goal := e.Targets.Get(target)
	total := mm.Total.InexactFloat64()

	return model.KPI{
		Title:    title,
		Subtitle: "Fiscal Year to Date",
		Value:    cli.FormatUSD(total),
		Target:   cli.FormatUSD(goal),
		Actual:   total,
		Goal:     goal,
		OnTarget: mm.Projected >= goal,
		OnMsg:    "above target of " + cli.FormatUSD(goal),
		OffMsg:   "below target of " + cli.FormatUSD(goal),
		Metrics: []string{
			"Target: " + cli.FormatUSD(goal),
			fmt.Sprintf("Trending to %s by %s", cli.FormatUSD(mm.Projected), fy.End().Format("Jan 2, 2006")),
		},
	}, mm
}

type arrCard struct {
	title, subtitle string
	target          config.Target
}

var arrCards = map[string]arrCard{
	interval.Total.Name:  {"Total ARR", "Active + pledged donors", config.TargetTotalARR},
	interval.Future.Name: {"Future ARR", "From pledged donors", config.TargetFutureARR},
	interval.Active.Name: {"Active ARR", "From active donors", config.TargetActiveARR},
}

// ARRKPI reports ARR for view b in month m.
func (e *Engine) ARRKPI(pledges []model.Pledge, b interval.Bounds, m model.Month) (model.KPI, ARR) {
	arr := ComputeARR(pledges, b, m)
	card := arrCards[b.Name]
	goal := e.Targets.Get(card.target)
	total := arr.Total.InexactFloat64()
	formattedGoal := cli.FormatMillions(goal)

	return model.KPI{
		Title:    card.title,
		Subtitle: card.subtitle,
		Value:    cli.FormatUSD(total),
		Target:   formattedGoal,
		Actual:   total,
		Goal:     goal,
		OnTarget: total >= goal,
		OnMsg:    "above " + formattedGoal + " target",
		OffMsg:   "below " + formattedGoal + " target",
		Metrics: []string{
			fmt.Sprintf("%d pledges", arr.Pledges),
			fmt.Sprintf("%d unique donors", arr.Donors),
		},
	}, arr
}

// ActiveDonorsKPI reports donors with an active pledge today.
func (e *Engine) ActiveDonorsKPI(pledges []model.Pledge) model.KPI {
	n := ActiveDonors(pledges, model.Day(e.Now))
	goal := e.Targets.Get(config.TargetActiveDonors)
	formattedGoal := cli.FormatCount(goal)
	return model.KPI{
		Title:    "Active Donors",
		Subtitle: "Currently contributing donors",
		Value:    cli.FormatNumber(int64(n)),
		Target:   formattedGoal,
		Actual:   float64(n),
		Goal:     goal,
		OnTarget: float64(n) >= goal,
		OnMsg:    "above target of " + formattedGoal,
		OffMsg:   "below target of " + formattedGoal,
		Metrics:  []string{"One-time and recurring"},
	}
}

// AverageAttritionKPI reports the mean monthly attrition rate.
func (e *Engine) AverageAttritionKPI(pledges []model.Pledge) (model.KPI, MonthlyAttrition) {
	ma := ComputeMonthlyAttrition(pledges, e.Now)
	goal := e.Targets.Get(config.TargetAttritionRate)
	short := strconv.FormatFloat(goal, 'f', -1, 64) + "%"
	return model.KPI{
		Title:    "Average Monthly Attrition Rate",
		Subtitle: "Average % of churned/failed pledges per month",
		Value:    cli.FormatPercent(ma.Average),
		Target:   cli.FormatPercent(goal),
		Actual:   ma.Average,
		Goal:     goal,
		OnTarget: ma.Average <= goal,
		OnMsg:    "Lower than target of " + short,
		OffMsg:   "Higher than target of " + short,
		Metrics: []string{
			fmt.Sprintf("%d total cancelled over %d months", ma.TotalChurned, ma.Counted),
			"Average monthly attrition rate",
		},
	}, ma
}

// AllTimeAttritionKPI reports churned pledges over all recurring pledges.
func (e *Engine) AllTimeAttritionKPI(pledges []model.Pledge) model.KPI {
	at := ComputeAllTimeAttrition(pledges)
	goal := e.Targets.Get(config.TargetAttritionRate)
	return model.KPI{
		Title:    "All-Time Attrition Rate",
		Subtitle: "% of churned/failed pledges vs all pledges",
		Value:    cli.FormatPercent(at.Rate),
		Target:   cli.FormatPercent(goal),
		Actual:   at.Rate,
		Goal:     goal,
		OnTarget: at.Rate <= goal,
		OnMsg:    "below target of " + cli.FormatPercent(goal),
		OffMsg:   "above target of " + cli.FormatPercent(goal),
		Metrics: []string{
			fmt.Sprintf("%d cancelled / %d total pledges historically", at.Churned, at.Total),
		},
	}
}

// Summary holds every headline KPI in display order.
type Summary struct {
	Year    FiscalYear
	Month   model.Month
	KPIs    []model.KPI
	Money   MoneyMoved
	CFMoney MoneyMoved
}

// Summarize builds all KPI cards. Money moved uses the fiscal year of the
// latest payment; ARR uses the current month.
func (e *Engine) Summarize(rows []model.Row, pledges []model.Pledge) Summary {
	fy := LatestFiscalYear(rows, e.Now)
	month := model.MonthOf(e.Now)

	mmKPI, mm := e.MoneyMovedKPI(rows, fy, false)
	cfKPI, cf := e.MoneyMovedKPI(rows, fy, true)
	totalKPI, _ := e.ARRKPI(pledges, interval.Total, month)
	futureKPI, _ := e.ARRKPI(pledges, interval.Future, month)
	activeKPI, _ := e.ARRKPI(pledges, interval.Active, month)
	avgKPI, _ := e.AverageAttritionKPI(pledges)

	return Summary{
		Year:  fy,
		Month: month,
		KPIs: []model.KPI{
			mmKPI, cfKPI,
			totalKPI, futureKPI, activeKPI,
			e.ActiveDonorsKPI(pledges),
			avgKPI, e.AllTimeAttritionKPI(pledges),
		},
		Money:   mm,
		CFMoney: cf,
	}
}
