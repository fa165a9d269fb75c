package metrics

import (
	"time"

	"github.com/theirongolddev/fundburn/internal/interval"
	"github.com/theirongolddev/fundburn/internal/model"
)

// Attrition is the churn rate over one period.
type Attrition struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	ActiveStart int       `json:"active_start"`
	ActiveEnd   int       `json:"active_end"`
	Churned     int       `json:"churned"`
	AvgActive   float64   `json:"avg_active"`
	Rate        float64   `json:"rate"` // percent; 0 when AvgActive is 0
}

// Defined reports whether the period had any active pledges to churn from.
func (a Attrition) Defined() bool { return a.AvgActive > 0 }

// AttritionRate is churned / average active * 100 over [start, end] for
// recurring pledges. Churned pledges have a churned status and an end date
// inside the period; active counts use the active view at each boundary.
func AttritionRate(pledges []model.Pledge, start, end time.Time) Attrition {
	return attritionOf(interval.Recurring(pledges), start, end)
}

func attritionOf(recurring []model.Pledge, start, end time.Time) Attrition {
	a := Attrition{
		Start:       start,
		End:         end,
		ActiveStart: interval.CountActive(recurring, start, interval.Active),
		ActiveEnd:   interval.CountActive(recurring, end, interval.Active),
	}
	for _, p := range recurring {
		if !p.Status.Churned() || p.EndedAt.IsZero() {
			continue
		}
		if !p.EndedAt.Before(start) && !p.EndedAt.After(end) {
			a.Churned++
		}
	}
	a.AvgActive = float64(a.ActiveStart+a.ActiveEnd) / 2
	if a.AvgActive > 0 {
		a.Rate = float64(a.Churned) / a.AvgActive * 100
	}
	return a
}

// MonthlyAttrition is the per-month attrition history and its mean.
type MonthlyAttrition struct {
	Months       []Attrition
	Average      float64 // mean over months with active pledges
	TotalChurned int
	Counted      int // months included in Average
}

// ComputeMonthlyAttrition evaluates attrition for every calendar month
// whose last day falls between the earliest pledge start and the later of
// the latest end date and now. Months with no active pledges report a rate
// of 0 but are left out of the average.
func ComputeMonthlyAttrition(pledges []model.Pledge, now time.Time) MonthlyAttrition {
	recurring := interval.Recurring(pledges)
	var first, last time.Time
	for _, p := range recurring {
		if !p.StartsAt.IsZero() && (first.IsZero() || p.StartsAt.Before(first)) {
			first = p.StartsAt
		}
		if p.EndedAt.After(last) {
			last = p.EndedAt
		}
	}
	var res MonthlyAttrition
	if first.IsZero() {
		return res
	}
	if today := model.Day(now); today.After(last) {
		last = today
	}

	var sum float64
	for m := model.MonthOf(first); !m.End().After(last); m = m.Next() {
		a := attritionOf(recurring, m.Start(), m.End())
		res.Months = append(res.Months, a)
		res.TotalChurned += a.Churned
		if a.Defined() {
			sum += a.Rate
			res.Counted++
		}
	}
	if res.Counted > 0 {
		res.Average = sum / float64(res.Counted)
	}
	return res
}

// AllTimeAttrition compares churned pledges with every recurring pledge.
type AllTimeAttrition struct {
	Rate      float64
	Churned   int
	Recurring int
	Total     int // all pledges, one-time included
}

// ComputeAllTimeAttrition returns churned / recurring * 100, or 0 when there
// are no recurring pledges.
func ComputeAllTimeAttrition(pledges []model.Pledge) AllTimeAttrition {
	res := AllTimeAttrition{Total: len(pledges)}
	for _, p := range pledges {
		if !p.Recurring() {
			continue
		}
		res.Recurring++
		if p.Status.Churned() {
			res.Churned++
		}
	}
	if res.Recurring > 0 {
		res.Rate = float64(res.Churned) / float64(res.Recurring) * 100
	}
	return res
}
