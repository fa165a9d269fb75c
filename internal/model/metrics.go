package model

import "time"

// KPI is a single headline metric ready for display.
type KPI struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle"`
	Value    string   `json:"value"`
	Target   string   `json:"target"`
	Actual   float64  `json:"actual"`
	Goal     float64  `json:"goal"`
	OnTarget bool     `json:"on_target"`
	OnMsg    string   `json:"on_target_msg"`
	OffMsg   string   `json:"off_target_msg"`
	Metrics  []string `json:"additional_metrics"`
}

// Message returns the on- or off-target message matching OnTarget.
func (k KPI) Message() string {
	if k.OnTarget {
		return k.OnMsg
	}
	return k.OffMsg
}

// DailyPoint is one day of a cumulative money-moved series.
type DailyPoint struct {
	Date       time.Time `json:"date"`
	Amount     float64   `json:"amount"`
	Cumulative float64   `json:"cumulative"`
}

// MonthPoint is one month-end value of a monthly series.
type MonthPoint struct {
	MonthEnd time.Time `json:"month_end"`
	Label    string    `json:"label"`
	Value    float64   `json:"value"`
}

// Bar is one labeled value of a bar chart.
type Bar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is a named monthly series.
type Series struct {
	Name   string       `json:"name"`
	Points []MonthPoint `json:"points"`
}

// Trend is a least-squares line over day ordinals.
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the trend at t.
func (tr Trend) At(t time.Time) float64 {
	return tr.Slope*DayOrdinal(t) + tr.Intercept
}

// unixEpochOrdinal is the proleptic Gregorian ordinal of 1970-01-01.
const unixEpochOrdinal = 719163

// DayOrdinal counts days since 0001-01-01, with that day being 1.
func DayOrdinal(t time.Time) float64 {
	return float64(Day(t).Unix()/86400 + unixEpochOrdinal)
}
