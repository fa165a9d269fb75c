// Package export writes KPI payloads and metric series to XLSX or CSV.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/theirongolddev/fundburn/internal/interval"
	"github.com/theirongolddev/fundburn/internal/metrics"
	"github.com/theirongolddev/fundburn/internal/model"
)

// ErrUnsupportedFormat is returned for formats other than xlsx and csv.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format selects the output encoding.
type Format string

const (
	XLSX Format = "xlsx"
	CSV  Format = "csv"
)

// ParseFormat accepts "xlsx" or "csv", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case XLSX, CSV:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Report is everything an export contains.
type Report struct {
	Generated time.Time
	Year      metrics.FiscalYear
	KPIs      []model.KPI
	Daily     []model.DailyPoint // cumulative money moved for Year
	Monthly   []model.Series     // names fit in a worksheet tab
}

// Build computes the report from loaded records.
func Build(e *metrics.Engine, rows []model.Row, pledges []model.Pledge) Report {
	sum := e.Summarize(rows, pledges)
	r := Report{
		Generated: e.Now,
		Year:      sum.Year,
		KPIs:      sum.KPIs,
		Daily:     sum.Money.Daily,
	}

	r.Monthly = append(r.Monthly, metrics.MonthlyDonations(rows, e.Exclude, metrics.DonationsSplit)...)
	for _, pv := range metrics.PledgeViews {
		r.Monthly = append(r.Monthly, model.Series{
			Name:   "Pledges (" + pv.Bounds.Name + ")",
			Points: metrics.MonthlyPledges(pledges, pv.Bounds, e.Now),
		})
	}
	r.Monthly = append(r.Monthly,
		model.Series{Name: "ARR", Points: metrics.MonthlyARRPoints(metrics.MonthlyARR(pledges, interval.Total, e.Now))},
		model.Series{Name: "Attrition", Points: metrics.MonthlyAttritionPoints(metrics.ComputeMonthlyAttrition(pledges, e.Now))},
		model.Series{Name: "Active Donors", Points: metrics.MonthlyActiveDonors(pledges, e.Now)},
	)
	return r
}

// Write encodes r to w in the given format.
func Write(w io.Writer, r Report, f Format) error {
	switch f {
	case XLSX:
		return writeXLSX(w, r)
	case CSV:
		return writeCSV(w, r)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

var kpiHeaders = []string{"Title", "Subtitle", "Value", "Target", "On Target", "Message", "Details"}

func kpiRow(k model.KPI) []string {
	onTarget := "no"
	if k.OnTarget {
		onTarget = "yes"
	}
	return []string{k.Title, k.Subtitle, k.Value, k.Target, onTarget, k.Message(), strings.Join(k.Metrics, "; ")}
}
