package metrics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fundburn/internal/config"
	"github.com/theirongolddev/fundburn/internal/interval"
	"github.com/theirongolddev/fundburn/internal/model"
)

// DonationMode selects what monthly donations report.
type DonationMode uint8

const (
	DonationsTotal DonationMode = iota
	DonationsCounterfactual
	// DonationsSplit stacks the counterfactual share and the remainder.
	DonationsSplit
)

// ParseDonationMode accepts "total", "counterfactual" or "both".
func ParseDonationMode(s string) (DonationMode, error) {
	switch s {
	case "", "total":
		return DonationsTotal, nil
	case "counterfactual":
		return DonationsCounterfactual, nil
	case "both", "split":
		return DonationsSplit, nil
	}
	return 0, fmt.Errorf("unknown donation mode %q", s)
}

// MonthlyDonations sums non-internal payments per calendar month, from the
// first payment month to the last, zero-filled. Payments with an absent
// amount are skipped; in counterfactual modes so are payments with no
// counterfactuality.
func MonthlyDonations(rows []model.Row, ex Exclusions, mode DonationMode) []model.Series {
	type sums struct{ total, cf, rest decimal.Decimal }
	byMonth := make(map[model.Month]*sums)
	var first, last model.Month
	seen := false

	for _, r := range rows {
		if !ex.countable(r) || r.Payment.Date.IsZero() {
			continue
		}
		m := model.MonthOf(r.Payment.Date)
		s := byMonth[m]
		if s == nil {
			s = &sums{}
			byMonth[m] = s
		}
		if !seen || m.Before(first) {
			first = m
		}
		if !seen || last.Before(m) {
			last = m
		}
		seen = true

		if amt, ok := r.Payment.MoneyMoved(false); ok {
			s.total = s.total.Add(amt)
		}
		if cf, ok := r.Payment.MoneyMoved(true); ok {
			s.cf = s.cf.Add(cf)
			full, _ := r.Payment.MoneyMoved(false)
			s.rest = s.rest.Add(full.Sub(cf))
		}
	}
	if !seen {
		return nil
	}

	pick := func(name string, f func(*sums) decimal.Decimal) model.Series {
		series := model.Series{Name: name}
		for m := first; !last.Before(m); m = m.Next() {
			v := decimal.Zero
			if s := byMonth[m]; s != nil {
				v = f(s)
			}
			series.Points = append(series.Points, model.MonthPoint{
				MonthEnd: m.End(),
				Label:    m.String(),
				Value:    v.InexactFloat64(),
			})
		}
		return series
	}

	switch mode {
	case DonationsCounterfactual:
		return []model.Series{pick("Counterfactual Money Moved", func(s *sums) decimal.Decimal { return s.cf })}
	case DonationsSplit:
		return []model.Series{
			pick("Counterfactual Money Moved", func(s *sums) decimal.Decimal { return s.cf }),
			pick("Non-Counterfactual Money Moved", func(s *sums) decimal.Decimal { return s.rest }),
		}
	}
	return []model.Series{pick("Monthly Donations", func(s *sums) decimal.Decimal { return s.total })}
}

// PledgeView is one of the pledges-per-month charts.
type PledgeView struct {
	Bounds interval.Bounds
	Title  string
	Target config.Target
}

// PledgeViews lists the pledge count charts: committed plus active, future
// only, and active only.
var PledgeViews = []PledgeView{
	{Bounds: interval.Total, Title: "Total Active and Committed Future Pledges Each Month", Target: config.TargetPledgesTotal},
	{Bounds: interval.Future, Title: "Total Future Pledges Each Month", Target: config.TargetPledgesFuture},
	{Bounds: interval.Active, Title: "Total Active Pledges Each Month", Target: config.TargetPledgesActive},
}

// MonthlyPledges counts recurring pledges open under b at each month end,
// trimmed to start at the first month above interval.DefaultThreshold.
func MonthlyPledges(pledges []model.Pledge, b interval.Bounds, now time.Time) []model.MonthPoint {
	events := interval.StateChangeEvents(interval.Recurring(pledges), b)
	return monthPoints(interval.MonthEndSnapshots(interval.Changes(events), now, interval.DefaultThreshold))
}

// MonthlyAttritionPoints flattens the monthly attrition history to rates.
func MonthlyAttritionPoints(ma MonthlyAttrition) []model.MonthPoint {
	out := make([]model.MonthPoint, len(ma.Months))
	for i, a := range ma.Months {
		out[i] = model.MonthPoint{
			MonthEnd: a.End,
			Label:    model.MonthOf(a.End).String(),
			Value:    a.Rate,
		}
	}
	return out
}

// MonthlyARRPoints flattens MonthlyARR to month totals.
func MonthlyARRPoints(points []MonthlyARRPoint) []model.MonthPoint {
	out := make([]model.MonthPoint, len(points))
	for i, p := range points {
		out[i] = model.MonthPoint{MonthEnd: p.MonthEnd, Label: p.Label, Value: p.Total}
	}
	return out
}
