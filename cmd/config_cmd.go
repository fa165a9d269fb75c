// Package cmd implements the fundburn CLI commands.
package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fundburn/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	paths := config.ResolveDataPaths(cfg)
	fmt.Println("  [Data]")
	fmt.Printf("    Payments: %s\n", paths.Payments)
	fmt.Printf("    Pledges:  %s\n", paths.Pledges)
	fmt.Printf("    Cache:    %s\n", cfg.CachePath())
	fmt.Println()

	fmt.Println("  [Rates]")
	fmt.Printf("    Service: %s\n", config.GetRatesURL(cfg))
	fmt.Printf("    Workers: %d\n", cfg.Rates.Workers)
	fmt.Printf("    Timeout: %ds\n", cfg.Rates.TimeoutSeconds)
	fmt.Println()

	fmt.Println("  [Targets]")
	targets := cfg.ResolveTargets()
	names := make([]string, 0, len(targets))
	for t := range targets {
		names = append(names, string(t))
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("    %-28s %s\n", n+":", strings.TrimSuffix(fmt.Sprintf("%.2f", targets.Get(config.Target(n))), ".00"))
	}
	fmt.Println()

	fmt.Println("  [Exclusions]")
	for _, p := range cfg.Exclusions.InternalPortfolios {
		fmt.Printf("    %s\n", p)
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Printf("    Refresh: every %d min\n", cfg.Server.RefreshMinutes)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `fundburn setup` to reconfigure.")
	return nil
}
