package interval

import (
	"sort"
	"time"

	"github.com/theirongolddev/fundburn/internal/model"
)

// Event is one pledge edge: +1 at the interval start, -1 at its end.
type Event struct {
	Date    time.Time
	DonorID string
	Delta   int
}

// StateChangeEvents emits a +1 per pledge at its start and a -1 per pledge
// with a non-empty end, sorted by date. Openings sort before closings on the
// same day so a same-day handover never reads as a gap. Pledges without a
// start date produce no events.
func StateChangeEvents(pledges []model.Pledge, b Bounds) []Event {
	events := make([]Event, 0, 2*len(pledges))
	for _, p := range pledges {
		start, end := b.Span(p)
		if start.IsZero() {
			continue
		}
		events = append(events, Event{Date: start, DonorID: p.DonorID, Delta: 1})
		if !end.IsZero() {
			events = append(events, Event{Date: end, DonorID: p.DonorID, Delta: -1})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Delta > events[j].Delta
	})
	return events
}

// DonorTransitions coalesces pledge events per donor. It tracks how many
// intervals each donor holds and emits +1 only when a donor goes from none to
// some, and -1 only when a donor drops back to none. events must be sorted.
func DonorTransitions(events []Event) []Event {
	counts := make(map[string]int)
	var out []Event
	for _, e := range events {
		prev := counts[e.DonorID]
		next := prev + e.Delta
		counts[e.DonorID] = next
		switch {
		case prev <= 0 && next > 0:
			out = append(out, Event{Date: e.Date, DonorID: e.DonorID, Delta: 1})
		case prev > 0 && next <= 0:
			out = append(out, Event{Date: e.Date, DonorID: e.DonorID, Delta: -1})
		}
	}
	return out
}

// Changes converts events to unweighted changes.
func Changes(events []Event) []Change {
	out := make([]Change, len(events))
	for i, e := range events {
		out[i] = Change{Date: e.Date, Value: float64(e.Delta)}
	}
	return out
}
