package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fundburn/internal/cli"
	"github.com/theirongolddev/fundburn/internal/metrics"
	"github.com/theirongolddev/fundburn/internal/model"
)

var donorsCmd = &cobra.Command{
	Use:   "donors",
	Short: "Active donor count and monthly active recurring donors",
	Long:  "Active donor count as of --as-of (default today), plus donors with an active recurring pledge at each month end.",
	RunE:  runDonors,
}

func init() {
	rootCmd.AddCommand(donorsCmd)
}

func runDonors(cmd *cobra.Command, _ []string) error {
	ds, err := loadData(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("ACTIVE DONORS  " + model.FormatDate(ds.now)))
	fmt.Println()
	fmt.Print(cli.RenderKPI(ds.engine.ActiveDonorsKPI(ds.result.Pledges)))
	fmt.Println()

	points := metrics.MonthlyActiveDonors(ds.result.Pledges, ds.now)
	fmt.Print(renderMonthPoints("Donors With Active Pledges Per Month", points, cli.FormatCount))
	return nil
}

// renderMonthPoints prints a monthly series as a table with a sparkline.
func renderMonthPoints(title string, points []model.MonthPoint, format func(float64) string) string {
	if len(points) == 0 {
		return "  No data for this view.\n"
	}
	values := make([]float64, len(points))
	rows := make([][]string, len(points))
	for i, p := range points {
		values[i] = p.Value
		rows[i] = []string{p.Label, format(p.Value)}
	}
	return fmt.Sprintf("  %s\n\n", cli.RenderSparkline(values)) + cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"Month", "Value"},
		Rows:    rows,
	})
}
