package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fundburn/internal/model"
)

// MoneyMovedQuery selects the payments and weighting for money moved.
type MoneyMovedQuery struct {
	Year           FiscalYear
	Counterfactual bool
	Exclude        Exclusions
}

// MoneyMoved is the fiscal-year-to-date result.
type MoneyMoved struct {
	Year           FiscalYear
	Counterfactual bool
	Total          decimal.Decimal
	Daily          []model.DailyPoint
	Trend          model.Trend
	Projected      float64 // trend value at fiscal year end
	Payments       int     // payments summed
	Skipped        int     // in-window payments with no usable amount
}

// DailySeries is a named cumulative daily series.
type DailySeries struct {
	Name   string             `json:"name"`
	Points []model.DailyPoint `json:"points"`
}

type dated struct {
	date   time.Time
	amount decimal.Decimal
	row    model.Row
}

// collect returns the in-window, non-internal payments with a usable amount,
// sorted by date. Payments with an absent amount are counted, not summed.
func (q MoneyMovedQuery) collect(rows []model.Row) ([]dated, int) {
	var out []dated
	skipped := 0
	for _, r := range rows {
		if !q.Exclude.countable(r) || !q.Year.Contains(r.Payment.Date) {
			continue
		}
		amt, ok := r.Payment.MoneyMoved(q.Counterfactual)
		if !ok {
			skipped++
			continue
		}
		out = append(out, dated{date: model.Day(r.Payment.Date), amount: amt, row: r})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].date.Before(out[j].date) })
	return out, skipped
}

// ComputeMoneyMoved sums money moved over the fiscal year and builds the
// cumulative daily series, zero-filled between the first and last payment
// day, plus its least-squares trend projected to the fiscal year end.
func ComputeMoneyMoved(rows []model.Row, q MoneyMovedQuery) MoneyMoved {
	items, skipped := q.collect(rows)
	res := MoneyMoved{
		Year:           q.Year,
		Counterfactual: q.Counterfactual,
		Total:          decimal.Zero,
		Payments:       len(items),
		Skipped:        skipped,
	}
	res.Daily = cumulativeDaily(items)
	for _, it := range items {
		res.Total = res.Total.Add(it.amount)
	}
	res.Trend = FitTrend(res.Daily)
	res.Projected = res.Trend.At(q.Year.End())
	return res
}

// CumulativeAt returns the cumulative total on day t, or 0 before the first
// point.
func (m MoneyMoved) CumulativeAt(t time.Time) float64 {
	d := model.Day(t)
	var v float64
	for _, p := range m.Daily {
		if p.Date.After(d) {
			break
		}
		v = p.Cumulative
	}
	return v
}

// Title is the chart title for the result, e.g.
// "Cumulative Money Moved - Fiscal Year 2023-2024 (by Currency)".
func (m MoneyMoved) Title(b Breakdown) string {
	title := "Cumulative Money Moved - Fiscal Year " + m.Year.String()
	if m.Counterfactual {
		title = "Counterfactual Money Moved - Fiscal Year " + m.Year.String()
	}
	if b != "" {
		title += fmt.Sprintf(" (by %s)", b.Title())
	}
	return title
}

func cumulativeDaily(items []dated) []model.DailyPoint {
	if len(items) == 0 {
		return nil
	}
	first, last := items[0].date, items[len(items)-1].date
	byDay := make(map[time.Time]decimal.Decimal)
	for _, it := range items {
		byDay[it.date] = byDay[it.date].Add(it.amount)
	}

	var points []model.DailyPoint
	running := decimal.Zero
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		amt := byDay[d]
		running = running.Add(amt)
		points = append(points, model.DailyPoint{
			Date:       d,
			Amount:     amt.InexactFloat64(),
			Cumulative: running.InexactFloat64(),
		})
	}
	return points
}

// CumulativeByGroup splits the cumulative series by breakdown, one series
// per group on a shared zero-filled day axis. Groups are ordered by their
// final total, largest first.
func CumulativeByGroup(rows []model.Row, q MoneyMovedQuery, b Breakdown) ([]DailySeries, error) {
	if _, err := ParseBreakdown(string(b)); err != nil {
		return nil, err
	}
	items, _ := q.collect(rows)
	groups := make(map[string][]dated)
	for _, it := range items {
		label, err := b.Label(it.row)
		if err != nil {
			return nil, err
		}
		groups[label] = append(groups[label], it)
	}
	if len(items) == 0 {
		return nil, nil
	}
	first, last := items[0].date, items[len(items)-1].date

	out := make([]DailySeries, 0, len(groups))
	for label, g := range groups {
		byDay := make(map[time.Time]decimal.Decimal)
		for _, it := range g {
			byDay[it.date] = byDay[it.date].Add(it.amount)
		}
		s := DailySeries{Name: label}
		running := decimal.Zero
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			amt := byDay[d]
			running = running.Add(amt)
			s.Points = append(s.Points, model.DailyPoint{
				Date:       d,
				Amount:     amt.InexactFloat64(),
				Cumulative: running.InexactFloat64(),
			})
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := finalValue(out[i]), finalValue(out[j])
		if ti != tj {
			return ti > tj
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func finalValue(s DailySeries) float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Cumulative
}

// MoneyMovedBars totals money moved per group. ByMonth yields all twelve
// fiscal months in order, zero-filled; other keys are sorted by amount.
func MoneyMovedBars(rows []model.Row, q MoneyMovedQuery, b Breakdown) ([]model.Bar, error) {
	if _, err := ParseBreakdown(string(b)); err != nil {
		return nil, err
	}
	items, _ := q.collect(rows)
	totals := make(map[string]decimal.Decimal)
	for _, it := range items {
		label, err := b.Label(it.row)
		if err != nil {
			return nil, err
		}
		totals[label] = totals[label].Add(it.amount)
	}

	if b == ByMonth {
		bars := make([]model.Bar, 0, 12)
		for _, m := range q.Year.Months() {
			label := m.Start().Format("Jan 2006")
			bars = append(bars, model.Bar{Label: label, Value: totals[label].InexactFloat64()})
		}
		return bars, nil
	}

	bars := make([]model.Bar, 0, len(totals))
	for label, v := range totals {
		bars = append(bars, model.Bar{Label: label, Value: v.InexactFloat64()})
	}
	sortBars(bars)
	return bars, nil
}
