package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fundburn/internal/cli"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Every headline KPI with its target",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	ds, err := loadData(cmd.Context())
	if err != nil {
		return err
	}

	if len(ds.result.Payments) == 0 && len(ds.result.Pledges) == 0 {
		fmt.Println("\n  No payments or pledges found.")
		fmt.Println("  Check the data paths with `fundburn config`.")
		return nil
	}

	s := ds.engine.Summarize(ds.result.Rows, ds.result.Pledges)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FUNDRAISING  FY %s  as of %s", s.Year, ds.now.Format("Jan 2, 2006"))))
	fmt.Println()

	for _, k := range s.KPIs {
		fmt.Print(cli.RenderKPI(k))
		fmt.Println()
	}

	rows := [][]string{
		{"Payments", formatNumber(int64(len(ds.result.Payments)))},
		{"Pledges (reconciled)", formatNumber(int64(len(ds.result.Pledges)))},
		{"Money moved payments", formatNumber(int64(s.Money.Payments))},
	}
	if s.Money.Skipped > 0 {
		rows = append(rows, []string{"Missing USD amount", formatNumber(int64(s.Money.Skipped))})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Trend to Jun 30", cli.FormatUSD(s.Money.Projected)},
		[]string{"Counterfactual trend", cli.FormatUSD(s.CFMoney.Projected)},
	)
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Records",
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	return nil
}
