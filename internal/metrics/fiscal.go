// Package metrics computes fundraising KPIs and time series from reconciled
// payments and pledges. Every function is pure: inputs are read, never
// modified, and results depend only on the data and the reference time.
package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/fundburn/internal/model"
)

// ErrInvalidFiscalYear is returned for labels that are not "Y-(Y+1)".
var ErrInvalidFiscalYear = errors.New("metrics: invalid fiscal year")

// FiscalYear runs from July 1 of StartYear to June 30 of StartYear+1.
type FiscalYear struct {
	StartYear int
}

// FiscalYearOf returns the fiscal year containing t.
func FiscalYearOf(t time.Time) FiscalYear {
	if t.Month() >= time.July {
		return FiscalYear{StartYear: t.Year()}
	}
	return FiscalYear{StartYear: t.Year() - 1}
}

// ParseFiscalYear parses a label such as "2023-2024".
func ParseFiscalYear(s string) (FiscalYear, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return FiscalYear{}, fmt.Errorf("%w: %q", ErrInvalidFiscalYear, s)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return FiscalYear{}, fmt.Errorf("%w: %q", ErrInvalidFiscalYear, s)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil || end != start+1 {
		return FiscalYear{}, fmt.Errorf("%w: %q", ErrInvalidFiscalYear, s)
	}
	return FiscalYear{StartYear: start}, nil
}

// Start is July 1 of the first year.
func (fy FiscalYear) Start() time.Time {
	return time.Date(fy.StartYear, time.July, 1, 0, 0, 0, 0, time.UTC)
}

// End is June 30 of the second year, inclusive.
func (fy FiscalYear) End() time.Time {
	return time.Date(fy.StartYear+1, time.June, 30, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t's calendar date falls inside the year.
func (fy FiscalYear) Contains(t time.Time) bool {
	d := model.Day(t)
	return !d.Before(fy.Start()) && !d.After(fy.End())
}

// Months returns the twelve months of the year in order.
func (fy FiscalYear) Months() []model.Month {
	months := make([]model.Month, 0, 12)
	m := model.MonthOf(fy.Start())
	for range 12 {
		months = append(months, m)
		m = m.Next()
	}
	return months
}

func (fy FiscalYear) String() string {
	return fmt.Sprintf("%d-%d", fy.StartYear, fy.StartYear+1)
}

// LatestFiscalYear returns the fiscal year of the most recent payment in
// rows, or the fiscal year containing now when there are no payments.
func LatestFiscalYear(rows []model.Row, now time.Time) FiscalYear {
	var last time.Time
	for _, r := range rows {
		if d := r.Date(); d.After(last) {
			last = d
		}
	}
	if last.IsZero() {
		return FiscalYearOf(now)
	}
	return FiscalYearOf(last)
}
