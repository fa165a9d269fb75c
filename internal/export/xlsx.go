package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/fundburn/internal/model"
)

const (
	kpiSheet   = "KPIs"
	dailySheet = "Money Moved"
	// Excel caps worksheet names at 31 characters.
	maxSheetName = 31
)

// writeXLSX writes a KPI sheet, the daily cumulative series and one sheet per
// monthly series.
func writeXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", kpiSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	rows := make([][]any, 0, len(r.KPIs)+1)
	rows = append(rows, toAny(kpiHeaders))
	for _, k := range r.KPIs {
		rows = append(rows, toAny(kpiRow(k)))
	}
	if err := writeSheet(f, kpiSheet, rows, header); err != nil {
		return err
	}
	if err := f.SetColWidth(kpiSheet, "A", "B", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(kpiSheet, "F", "G", 40); err != nil {
		return err
	}

	daily := [][]any{{"Date", "Amount", "Cumulative"}}
	for _, p := range r.Daily {
		daily = append(daily, []any{model.FormatDate(p.Date), p.Amount, p.Cumulative})
	}
	if err := addSheet(f, dailySheet, daily, header); err != nil {
		return err
	}
	if len(r.Daily) > 0 {
		last, _ := excelize.CoordinatesToCellName(3, len(r.Daily)+1)
		if err := f.SetCellStyle(dailySheet, "B2", last, money); err != nil {
			return err
		}
	}

	for _, s := range r.Monthly {
		data := [][]any{{"Month", "Month End", s.Name}}
		for _, p := range s.Points {
			data = append(data, []any{p.Label, model.FormatDate(p.MonthEnd), p.Value})
		}
		if err := addSheet(f, sheetName(s.Name), data, header); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}

func addSheet(f *excelize.File, name string, rows [][]any, header int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %q: %w", name, err)
	}
	return writeSheet(f, name, rows, header)
}

func writeSheet(f *excelize.File, name string, rows [][]any, header int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", name, i+1, err)
		}
	}
	return f.SetRowStyle(name, 1, 1, header)
}

func sheetName(s string) string {
	r := []rune(s)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
