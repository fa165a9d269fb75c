package interval

import (
	"sort"
	"time"

	"github.com/theirongolddev/fundburn/internal/model"
)

// DefaultThreshold hides early history until a series first exceeds it.
const DefaultThreshold = 100

// Change is a signed contribution to a running total on Date.
type Change struct {
	Date  time.Time
	Value float64
}

// Snapshot is the running total at a month end.
type Snapshot struct {
	MonthEnd time.Time
	Value    float64
}

// MonthEndSnapshots produces one snapshot per month from the month of the
// earliest change through the month containing now. Each holds the sum of
// every change dated on or before min(month end, now), so nothing after now
// is counted. The series is left-truncated at the first snapshot whose value
// exceeds threshold; if none does, the full series is returned.
func MonthEndSnapshots(changes []Change, now time.Time, threshold float64) []Snapshot {
	if len(changes) == 0 {
		return nil
	}
	sorted := make([]Change, len(changes))
	copy(sorted, changes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	today := model.Day(now)
	first := model.MonthOf(sorted[0].Date)
	last := model.MonthOf(today)
	if last.Before(first) {
		return nil
	}

	var out []Snapshot
	var running float64
	i := 0
	for m := first; !last.Before(m); m = m.Next() {
		cutoff := m.End()
		if cutoff.After(today) {
			cutoff = today
		}
		for i < len(sorted) && !sorted[i].Date.After(cutoff) {
			running += sorted[i].Value
			i++
		}
		out = append(out, Snapshot{MonthEnd: m.End(), Value: running})
	}

	return truncate(out, threshold)
}

func truncate(snaps []Snapshot, threshold float64) []Snapshot {
	for i, s := range snaps {
		if s.Value > threshold {
			return snaps[i:]
		}
	}
	return snaps
}
