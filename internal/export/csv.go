package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/theirongolddev/fundburn/internal/model"
)

// writeCSV emits one long table: section, label, value columns, with the KPI
// cards first.
func writeCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(append([]string{"section"}, kpiHeaders...)); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	for _, k := range r.KPIs {
		if err := cw.Write(append([]string{"kpi"}, kpiRow(k)...)); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}

	if err := cw.Write([]string{"section", "series", "label", "value"}); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	name := "Cumulative Money Moved " + r.Year.String()
	for _, p := range r.Daily {
		if err := cw.Write([]string{"daily", name, model.FormatDate(p.Date), formatValue(p.Cumulative)}); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	for _, s := range r.Monthly {
		for _, p := range s.Points {
			if err := cw.Write([]string{"monthly", s.Name, p.Label, formatValue(p.Value)}); err != nil {
				return fmt.Errorf("writing csv: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
