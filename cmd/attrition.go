package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fundburn/internal/cli"
)

var flagAttritionMonthly bool

var attritionCmd = &cobra.Command{
	Use:   "attrition",
	Short: "Average monthly and all-time attrition",
	RunE:  runAttrition,
}

func init() {
	attritionCmd.Flags().BoolVar(&flagAttritionMonthly, "monthly", false, "Show the per-month table")
	rootCmd.AddCommand(attritionCmd)
}

func runAttrition(cmd *cobra.Command, _ []string) error {
	ds, err := loadData(cmd.Context())
	if err != nil {
		return err
	}

	avg, ma := ds.engine.AverageAttritionKPI(ds.result.Pledges)

	fmt.Println()
	fmt.Println(cli.RenderTitle("ATTRITION"))
	fmt.Println()
	fmt.Print(cli.RenderKPI(avg))
	fmt.Println()
	fmt.Print(cli.RenderKPI(ds.engine.AllTimeAttritionKPI(ds.result.Pledges)))
	fmt.Println()

	if !flagAttritionMonthly {
		return nil
	}

	rows := make([][]string, 0, len(ma.Months))
	for _, a := range ma.Months {
		rate := cli.FormatPercent(a.Rate)
		if !a.Defined() {
			rate = "-"
		}
		rows = append(rows, []string{
			a.End.Format("Jan 2006"),
			formatNumber(int64(a.ActiveStart)),
			formatNumber(int64(a.ActiveEnd)),
			formatNumber(int64(a.Churned)),
			rate,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Monthly Attrition Rate",
		Headers: []string{"Month", "Active Start", "Active End", "Churned", "Rate"},
		Rows:    rows,
	}))
	return nil
}
