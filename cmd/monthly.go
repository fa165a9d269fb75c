package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fundburn/internal/cli"
	"github.com/theirongolddev/fundburn/internal/config"
	"github.com/theirongolddev/fundburn/internal/interval"
	"github.com/theirongolddev/fundburn/internal/metrics"
	"github.com/theirongolddev/fundburn/internal/model"
)

var (
	flagMonthlyView      string
	flagMonthlyDonations string
)

var monthlyCmd = &cobra.Command{
	Use:       "monthly pledges|donations|arr|attrition",
	Short:     "Monthly series tables",
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: []string{"pledges", "donations", "arr", "attrition"},
	RunE:      runMonthly,
}

func init() {
	monthlyCmd.Flags().StringVar(&flagMonthlyView, "view", "total", "Interval view for pledges and arr: total, future or active")
	monthlyCmd.Flags().StringVar(&flagMonthlyDonations, "mode", "total", "Donations mode: total, counterfactual or both")
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(cmd *cobra.Command, args []string) error {
	view, ok := interval.ParseBounds(flagMonthlyView)
	if !ok {
		return fmt.Errorf("unknown view %q (want total, future or active)", flagMonthlyView)
	}
	mode, err := metrics.ParseDonationMode(flagMonthlyDonations)
	if err != nil {
		return err
	}

	ds, err := loadData(cmd.Context())
	if err != nil {
		return err
	}
	pledges := ds.result.Pledges
	fmt.Println()

	switch args[0] {
	case "pledges":
		for _, pv := range metrics.PledgeViews {
			if pv.Bounds.Name != view.Name {
				continue
			}
			goal := ds.engine.Targets.Get(pv.Target)
			fmt.Println(cli.RenderTitle(pv.Title))
			fmt.Printf("\n  Goal: %s pledges\n\n", cli.FormatCount(goal))
			fmt.Print(renderMonthPoints("Pledges", metrics.MonthlyPledges(pledges, pv.Bounds, ds.now), cli.FormatCount))
		}

	case "donations":
		fmt.Println(cli.RenderTitle("Money Moved (Monthly)"))
		fmt.Println()
		series := metrics.MonthlyDonations(ds.result.Rows, ds.engine.Exclude, mode)
		if len(series) == 0 {
			fmt.Println("  No data for this view.")
			return nil
		}
		fmt.Print(cli.RenderTable(seriesTable(series, cli.FormatUSD)))

	case "arr":
		fmt.Println(cli.RenderTitle("Monthly Annual Recurring Revenue (ARR)"))
		fmt.Println()
		points := metrics.MonthlyARR(pledges, view, ds.now)
		fmt.Print(renderMonthPoints("ARR at month end", metrics.MonthlyARRPoints(points), cli.FormatUSD))

	case "attrition":
		fmt.Println(cli.RenderTitle("Monthly Attrition Rate"))
		fmt.Println()
		ma := metrics.ComputeMonthlyAttrition(pledges, ds.now)
		goal := ds.engine.Targets.Get(config.TargetAttritionRate)
		fmt.Printf("  Target: less than %s\n\n", cli.FormatPercent(goal))
		fmt.Print(renderMonthPoints("Attrition", metrics.MonthlyAttritionPoints(ma), cli.FormatPercent))
	}
	return nil
}

// seriesTable lays out aligned monthly series side by side.
func seriesTable(series []model.Series, format func(float64) string) cli.Table {
	t := cli.Table{Headers: []string{"Month"}}
	for _, s := range series {
		t.Headers = append(t.Headers, s.Name)
	}
	for i, p := range series[0].Points {
		row := []string{p.Label}
		for _, s := range series {
			row = append(row, format(s.Points[i].Value))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
