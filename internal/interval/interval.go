// Package interval models pledges as half-open date intervals and derives
// activity counts and month-end snapshots from them.
package interval

import (
	"time"

	"github.com/theirongolddev/fundburn/internal/model"
)

// Bounds picks which two pledge dates delimit the interval [start, end).
type Bounds struct {
	Name  string
	Start model.DateField
	End   model.DateField
}

var (
	// Active spans from the first payment date to the end date.
	Active = Bounds{Name: "active", Start: model.FieldStarts, End: model.FieldEnded}
	// Future spans from creation to the first payment date.
	Future = Bounds{Name: "future", Start: model.FieldCreated, End: model.FieldStarts}
	// Total spans from creation to the end date.
	Total = Bounds{Name: "total", Start: model.FieldCreated, End: model.FieldEnded}
)

// ParseBounds resolves a view name to its bounds.
func ParseBounds(name string) (Bounds, bool) {
	switch name {
	case "active":
		return Active, true
	case "future":
		return Future, true
	case "total", "":
		return Total, true
	}
	return Bounds{}, false
}

// OpenEnded reports whether an empty end date means "still running". Only the
// pledge end date has that meaning; an empty start date used as an end bound
// means the interval never closed into a real pledge and has no extent.
func (b Bounds) OpenEnded() bool {
	return b.End == model.FieldEnded
}

// Span returns the interval's start and end. end is zero when open.
func (b Bounds) Span(p model.Pledge) (start, end time.Time) {
	return p.DateOf(b.Start), p.DateOf(b.End)
}

// IsActive reports whether p's interval covers at: start <= at and either the
// end is open or end > at. A pledge with no start date is never active.
func IsActive(p model.Pledge, at time.Time, b Bounds) bool {
	start, end := b.Span(p)
	if start.IsZero() || start.After(at) {
		return false
	}
	if end.IsZero() {
		return b.OpenEnded()
	}
	return end.After(at)
}

// IsActiveInMonth is IsActive at month granularity: the start month is at or
// before m and the end month, if any, is after m.
func IsActiveInMonth(p model.Pledge, m model.Month, b Bounds) bool {
	start, end := b.Span(p)
	if start.IsZero() || m.Before(model.MonthOf(start)) {
		return false
	}
	if end.IsZero() {
		return b.OpenEnded()
	}
	return m.Before(model.MonthOf(end))
}

// CountActive returns how many pledges are active at at.
func CountActive(pledges []model.Pledge, at time.Time, b Bounds) int {
	n := 0
	for _, p := range pledges {
		if IsActive(p, at, b) {
			n++
		}
	}
	return n
}

// Recurring returns the pledges that are not one-time gifts. The result
// shares no backing array with the input.
func Recurring(pledges []model.Pledge) []model.Pledge {
	out := make([]model.Pledge, 0, len(pledges))
	for _, p := range pledges {
		if p.Recurring() {
			out = append(out, p)
		}
	}
	return out
}
