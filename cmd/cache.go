package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fundburn/internal/store"
)

var flagCacheRates bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop cached record snapshots (and rates with --rates)",
	RunE:  runCacheClear,
}

func init() {
	cacheClearCmd.Flags().BoolVar(&flagCacheRates, "rates", false, "Also drop cached exchange rates")
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	c, err := store.Open(cfg.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer c.Close()

	if err := c.ClearSnapshots(); err != nil {
		return err
	}
	fmt.Println("  Cleared record snapshots")

	if flagCacheRates {
		n, _ := c.RateCount()
		if err := c.ClearRates(); err != nil {
			return err
		}
		fmt.Printf("  Cleared %s cached rates\n", formatNumber(int64(n)))
	}
	return nil
}
