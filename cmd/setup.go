package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fundburn/internal/config"
	"github.com/theirongolddev/fundburn/internal/source"
	"github.com/theirongolddev/fundburn/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, _ := config.Load()

	paths := config.ResolveDataPaths(cfg)
	fmt.Println()
	fmt.Println("  Welcome to fundburn!")
	fmt.Println()
	if fp, err := source.Stat(paths.Payments); err == nil {
		fmt.Printf("  Found payments export at %s (%s bytes)\n\n", paths.Payments, formatNumber(fp.Size))
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}
	workers := strconv.Itoa(cfg.Rates.Workers)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Payments export").
				Description("JSON file of payment records, relative to the project dir.").
				Value(&cfg.Data.PaymentsPath),
			huh.NewInput().
				Title("Pledges export").
				Description("JSON file of pledge records.").
				Value(&cfg.Data.PledgesPath),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Exchange-rate service").
				Value(&cfg.Rates.BaseURL),
			huh.NewInput().
				Title("Concurrent rate lookups").
				Value(&workers).
				Validate(func(s string) error {
					if n, err := strconv.Atoi(s); err != nil || n <= 0 {
						return errors.New("enter a positive number")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&cfg.Appearance.Theme),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	cfg.Rates.Workers, _ = strconv.Atoi(workers)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `fundburn setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
