package metrics

import (
	"time"

	"github.com/theirongolddev/fundburn/internal/interval"
	"github.com/theirongolddev/fundburn/internal/model"
)

// ActiveDonors counts distinct donors holding at least one pledge active at
// at, one-time pledges included.
func ActiveDonors(pledges []model.Pledge, at time.Time) int {
	donors := make(map[string]struct{})
	for _, p := range pledges {
		if interval.IsActive(p, at, interval.Active) {
			donors[p.DonorID] = struct{}{}
		}
	}
	return len(donors)
}

// MonthlyActiveDonors counts donors with an active recurring pledge at each
// month end. A donor with overlapping pledges counts once. Early months are
// trimmed until the count first exceeds interval.DefaultThreshold.
func MonthlyActiveDonors(pledges []model.Pledge, now time.Time) []model.MonthPoint {
	events := interval.StateChangeEvents(interval.Recurring(pledges), interval.Active)
	today := model.Day(now)
	var past []interval.Event
	for _, e := range events {
		if !e.Date.After(today) {
			past = append(past, e)
		}
	}
	transitions := interval.DonorTransitions(past)
	snaps := interval.MonthEndSnapshots(interval.Changes(transitions), now, interval.DefaultThreshold)
	return monthPoints(snaps)
}

func monthPoints(snaps []interval.Snapshot) []model.MonthPoint {
	out := make([]model.MonthPoint, len(snaps))
	for i, s := range snaps {
		out[i] = model.MonthPoint{
			MonthEnd: s.MonthEnd,
			Label:    model.MonthOf(s.MonthEnd).String(),
			Value:    s.Value,
		}
	}
	return out
}
