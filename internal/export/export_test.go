package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/fundburn/internal/config"
	"github.com/theirongolddev/fundburn/internal/metrics"
	"github.com/theirongolddev/fundburn/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func sampleReport(t *testing.T) Report {
	t.Helper()
	return Report{
		Generated: mustDate(t, "2024-03-15"),
		Year:      metrics.FiscalYear{StartYear: 2023},
		KPIs: []model.KPI{{
			Title:    "Money Moved",
			Subtitle: "Fiscal year to date",
			Value:    "$1,500",
			Target:   "$1.8M",
			OnTarget: false,
			OnMsg:    "above target",
			OffMsg:   "below target",
			Metrics:  []string{"Target: $1,800,000", "Trending to $2,000"},
		}},
		Daily: []model.DailyPoint{
			{Date: mustDate(t, "2023-07-01"), Amount: 1000, Cumulative: 1000},
			{Date: mustDate(t, "2023-07-02"), Amount: 500, Cumulative: 1500},
		},
		Monthly: []model.Series{{
			Name: "Total Active and Committed Future Pledges Each Month",
			Points: []model.MonthPoint{
				{MonthEnd: mustDate(t, "2023-07-31"), Label: "Jul 2023", Value: 3},
				{MonthEnd: mustDate(t, "2023-08-31"), Label: "Aug 2023", Value: 4},
			},
		}},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"xlsx": XLSX, "CSV": CSV, " csv ": CSV} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ParseFormat(pdf) err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleReport(t), CSV); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	// kpi header, 1 kpi, series header, 2 daily, 2 monthly
	if len(records) != 7 {
		t.Fatalf("got %d records, want 7: %v", len(records), records)
	}
	kpi := records[1]
	if kpi[0] != "kpi" || kpi[1] != "Money Moved" || kpi[5] != "no" || kpi[6] != "below target" {
		t.Errorf("kpi row = %v", kpi)
	}
	if got := records[4]; got[0] != "daily" || got[2] != "2023-07-02" || got[3] != "1500.00" {
		t.Errorf("daily row = %v", got)
	}
	if got := records[6]; got[0] != "monthly" || got[2] != "Aug 2023" || got[3] != "4.00" {
		t.Errorf("monthly row = %v", got)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleReport(t), XLSX); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 {
		t.Fatalf("sheets = %v, want 3", sheets)
	}
	if sheets[0] != kpiSheet || sheets[1] != dailySheet {
		t.Errorf("sheets = %v", sheets)
	}
	if n := len([]rune(sheets[2])); n != maxSheetName {
		t.Errorf("series sheet name %q has %d chars, want %d", sheets[2], n, maxSheetName)
	}

	rows, err := f.GetRows(kpiSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Money Moved" || rows[1][2] != "$1,500" {
		t.Errorf("kpi rows = %v", rows)
	}

	series, err := f.GetRows(sheets[2])
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(series) != 3 || series[1][0] != "Jul 2023" || series[2][1] != "2023-08-31" {
		t.Errorf("series rows = %v", series)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, Report{}, Format("pdf")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestBuild(t *testing.T) {
	amt := decimal.NullDecimal{Decimal: decimal.NewFromInt(100), Valid: true}
	payments := []model.Payment{
		{PaymentID: "1", DonorID: "D1", Date: mustDate(t, "2023-08-10"), USDAmount: amt, OriginalAmount: amt, OriginalCurrency: "USD"},
		{PaymentID: "2", DonorID: "D1", Date: mustDate(t, "2023-09-10"), USDAmount: amt, OriginalAmount: amt, OriginalCurrency: "USD"},
	}
	pledges := []model.Pledge{{
		PledgeID:              "P1",
		DonorID:               "D1",
		CreatedAt:             mustDate(t, "2023-08-01"),
		StartsAt:              mustDate(t, "2023-08-01"),
		Status:                model.StatusActive,
		Frequency:             model.FrequencyMonthly,
		Currency:              "USD",
		USDContributionAmount: amt,
	}}

	e := metrics.NewEngine(config.DefaultConfig(), mustDate(t, "2023-10-15"))
	r := Build(e, model.PaymentRows(payments), pledges)

	if len(r.KPIs) != 8 {
		t.Errorf("KPIs = %d, want 8", len(r.KPIs))
	}
	if r.Year.StartYear != 2023 {
		t.Errorf("Year = %s, want 2023-2024", r.Year)
	}
	if len(r.Daily) == 0 {
		t.Error("Daily is empty")
	}
	names := make([]string, 0, len(r.Monthly))
	for _, s := range r.Monthly {
		names = append(names, s.Name)
		if len([]rune(s.Name)) > maxSheetName {
			t.Errorf("series name %q exceeds a sheet tab", s.Name)
		}
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"Counterfactual Money Moved", "Pledges (active)", "ARR", "Attrition", "Active Donors"} {
		if !strings.Contains(joined, want) {
			t.Errorf("series %v missing %q", names, want)
		}
	}
}
