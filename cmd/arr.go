package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fundburn/internal/cli"
	"github.com/theirongolddev/fundburn/internal/interval"
	"github.com/theirongolddev/fundburn/internal/metrics"
	"github.com/theirongolddev/fundburn/internal/model"
)

var (
	flagARRView     string
	flagARRMonth    string
	flagChapterType string
	flagByChapter   bool
)

var arrCmd = &cobra.Command{
	Use:   "arr",
	Short: "Annual recurring revenue for a month, optionally by chapter",
	RunE:  runARR,
}

func init() {
	arrCmd.Flags().StringVar(&flagARRView, "view", "total", "Interval view: total, future or active")
	arrCmd.Flags().StringVar(&flagARRMonth, "month", "", "Month YYYY-MM (default: current month)")
	arrCmd.Flags().StringVar(&flagChapterType, "chapter-type", "", "Chapter type for the chapter breakdown (empty: untyped)")
	arrCmd.Flags().BoolVar(&flagByChapter, "by-chapter", false, "Break ARR down by chapter across all chapter types")
	rootCmd.AddCommand(arrCmd)
}

func runARR(cmd *cobra.Command, _ []string) error {
	view, ok := interval.ParseBounds(flagARRView)
	if !ok {
		return fmt.Errorf("unknown view %q (want total, future or active)", flagARRView)
	}

	ds, err := loadData(cmd.Context())
	if err != nil {
		return err
	}

	month := model.MonthOf(ds.now)
	if flagARRMonth != "" {
		if month, err = model.ParseMonth(flagARRMonth); err != nil {
			return err
		}
	}

	kpi, _ := ds.engine.ARRKPI(ds.result.Pledges, view, month)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("ARR  %s view  %s", view.Name, month)))
	fmt.Println()
	fmt.Print(cli.RenderKPI(kpi))
	fmt.Println()

	switch {
	case flagByChapter:
		bars := metrics.ChannelARR(ds.result.Pledges, view, month)
		fmt.Print(cli.RenderBars(fmt.Sprintf("Annualized Run Rate by Chapter (%s)", month), bars, cli.FormatUSD))
	case cmd.Flags().Changed("chapter-type"):
		bars := metrics.ChapterARR(ds.result.Pledges, view, month, flagChapterType)
		label := flagChapterType
		if label == "" {
			label = model.NoChapterType
		}
		fmt.Print(cli.RenderBars(fmt.Sprintf("Annual Recurring Revenue - %s Chapters", label), bars, cli.FormatUSD))
	default:
		var rows [][]string
		for _, ct := range metrics.ChapterTypes(ds.result.Pledges) {
			bars := metrics.ChapterARR(ds.result.Pledges, view, month, ct)
			var total float64
			for _, b := range bars {
				total += b.Value
			}
			rows = append(rows, []string{ct, formatNumber(int64(len(bars))), cli.FormatUSD(total)})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "By chapter type",
			Headers: []string{"Chapter Type", "Chapters", "ARR"},
			Rows:    rows,
		}))
	}
	return nil
}
