package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fundburn/internal/export"
)

var (
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write KPIs and monthly series to XLSX or CSV",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportFormat, "format", "", "Output format: xlsx or csv (default from --out extension, else xlsx)")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (default fundburn-<date>.<format>)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	name := flagExportFormat
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(flagExportOut), ".")
	}
	if name == "" {
		name = string(export.XLSX)
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	ds, err := loadData(cmd.Context())
	if err != nil {
		return err
	}

	out := flagExportOut
	if out == "" {
		out = fmt.Sprintf("fundburn-%s.%s", ds.now.Format("2006-01-02"), format)
	}

	report := export.Build(ds.engine, ds.result.Rows, ds.result.Pledges)

	f, err := os.Create(out) //nolint:gosec // output path is chosen by the user
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := export.Write(f, report, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}

	fmt.Printf("  Wrote %d KPIs and %d series to %s\n", len(report.KPIs), len(report.Monthly), out)
	return nil
}
