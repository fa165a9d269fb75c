package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fundburn/internal/cli"
	"github.com/theirongolddev/fundburn/internal/metrics"
	"github.com/theirongolddev/fundburn/internal/model"
)

var (
	flagFiscalYear     string
	flagCounterfactual bool
	flagBreakdown      string
)

var moneyMovedCmd = &cobra.Command{
	Use:   "money-moved",
	Short: "Fiscal-year money moved with trend projection or a breakdown",
	RunE:  runMoneyMoved,
}

func init() {
	moneyMovedCmd.Flags().StringVar(&flagFiscalYear, "fy", "", "Fiscal year, e.g. 2023-2024 (default: year of the latest payment)")
	moneyMovedCmd.Flags().BoolVar(&flagCounterfactual, "counterfactual", false, "Weight payments by counterfactuality")
	moneyMovedCmd.Flags().StringVar(&flagBreakdown, "by", "", "Group by platform, donor_chapter, chapter_type, currency, portfolio or month")
	rootCmd.AddCommand(moneyMovedCmd)
}

// resolveFiscalYear parses --fy, defaulting to the latest payment's year.
func resolveFiscalYear(ds *dataset, label string) (metrics.FiscalYear, error) {
	if label == "" {
		return metrics.LatestFiscalYear(ds.result.Rows, ds.now), nil
	}
	return metrics.ParseFiscalYear(label)
}

func runMoneyMoved(cmd *cobra.Command, _ []string) error {
	var breakdown metrics.Breakdown
	if flagBreakdown != "" {
		b, err := metrics.ParseBreakdown(flagBreakdown)
		if err != nil {
			return err
		}
		breakdown = b
	}

	ds, err := loadData(cmd.Context())
	if err != nil {
		return err
	}
	fy, err := resolveFiscalYear(ds, flagFiscalYear)
	if err != nil {
		return err
	}

	kpi, mm := ds.engine.MoneyMovedKPI(ds.result.Rows, fy, flagCounterfactual)

	fmt.Println()
	fmt.Println(cli.RenderTitle(mm.Title(breakdown)))
	fmt.Println()
	fmt.Print(cli.RenderKPI(kpi))
	fmt.Println()

	if breakdown != "" {
		bars, err := metrics.MoneyMovedBars(ds.result.Rows, ds.engine.Query(fy, flagCounterfactual), breakdown)
		if err != nil {
			return err
		}
		fmt.Print(cli.RenderBars("By "+breakdown.Title(), bars, cli.FormatUSD))
		return nil
	}

	if len(mm.Daily) == 0 {
		fmt.Println("  No payments in this fiscal year.")
		return nil
	}

	cumulative := make([]float64, len(mm.Daily))
	for i, p := range mm.Daily {
		cumulative[i] = p.Cumulative
	}
	fmt.Printf("  %s\n\n", cli.RenderSparkline(cumulative))

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Cumulative by month",
		Headers: []string{"Month", "Moved", "Cumulative"},
		Rows:    monthlyCumulativeRows(mm.Daily),
	}))
	fmt.Printf("\n  Trend: %s by %s, %s against target (%d payments, %d without a usable amount)\n",
		cli.FormatUSD(mm.Projected), fy.End().Format("Jan 2, 2006"),
		cli.FormatDelta(mm.Projected, kpi.Goal), mm.Payments, mm.Skipped)
	return nil
}

// monthlyCumulativeRows collapses the daily series to one row per month.
func monthlyCumulativeRows(points []model.DailyPoint) [][]string {
	var rows [][]string
	var current model.Month
	var moved, cumulative float64
	flush := func() {
		rows = append(rows, []string{current.Start().Format("Jan 2006"), cli.FormatUSD(moved), cli.FormatUSD(cumulative)})
	}
	for i, p := range points {
		m := model.MonthOf(p.Date)
		if i > 0 && m != current {
			flush()
			moved = 0
		}
		current = m
		moved += p.Amount
		cumulative = p.Cumulative
	}
	flush()
	return rows
}
