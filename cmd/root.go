package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fundburn/internal/cli"
	"github.com/theirongolddev/fundburn/internal/config"
	"github.com/theirongolddev/fundburn/internal/fxrates"
	"github.com/theirongolddev/fundburn/internal/metrics"
	"github.com/theirongolddev/fundburn/internal/model"
	"github.com/theirongolddev/fundburn/internal/pipeline"
	"github.com/theirongolddev/fundburn/internal/store"
)

var (
	flagPayments string
	flagPledges  string
	flagNoCache  bool
	flagAsOf     string
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "fundburn",
	Short: "Fundraising metrics CLI",
	Long:  "Money moved, ARR, attrition and donor counts from payment and pledge exports.",
	RunE:  runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPayments, "payments", "", "Payments JSON file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagPledges, "pledges", "", "Pledges JSON file (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Ignore cached snapshots and rebuild them")
	rootCmd.PersistentFlags().StringVar(&flagAsOf, "as-of", "", "Reference date YYYY-MM-DD (default today)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// dataset is everything a command needs after loading.
type dataset struct {
	cfg    config.Config
	result *pipeline.LoadResult
	engine *metrics.Engine
	now    time.Time
}

// loadConfig reads the config file and applies the command-line overrides.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("fundburn: %v (using defaults)", err)
		cfg = config.DefaultConfig()
	}
	if flagPayments != "" {
		cfg.Data.PaymentsPath = flagPayments
	}
	if flagPledges != "" {
		cfg.Data.PledgesPath = flagPledges
	}
	return cfg
}

// referenceTime is --as-of, or today.
func referenceTime() (time.Time, error) {
	if flagAsOf == "" {
		return model.Day(time.Now()), nil
	}
	t, err := model.ParseDate(flagAsOf)
	if err != nil || t.IsZero() {
		return time.Time{}, fmt.Errorf("invalid --as-of %q", flagAsOf)
	}
	return t, nil
}

// newLoader wires the rate client and the SQLite cache. progress may be
// nil. The returned close func releases the cache; it is safe to call when
// no cache opened.
func newLoader(cfg config.Config, progress pipeline.ProgressFunc) (*pipeline.Loader, func()) {
	var cache *store.Cache
	closeFn := func() {}

	c, err := store.Open(cfg.CachePath())
	if err != nil {
		// Cache open failed: load without snapshots or rate caching.
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Cache unavailable, fetching everything\n")
		}
	} else {
		cache = c
		closeFn = func() { _ = c.Close() }
	}

	client := fxrates.NewClient(config.GetRatesURL(cfg), time.Duration(cfg.Rates.TimeoutSeconds)*time.Second)
	loader := pipeline.New(pipeline.Options{
		Paths:    config.ResolveDataPaths(cfg),
		Cache:    cache,
		Fetcher:  client,
		Workers:  cfg.Rates.Workers,
		NoCache:  flagNoCache,
		Progress: progress,
	})
	return loader, closeFn
}

func progressFn(stage pipeline.Stage, current, total int) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "\r  Fetching %s [%d/%d]", stage, current, total)
	if current == total {
		fmt.Fprintln(os.Stderr)
	}
}

// loadData is the shared data loading path used by all commands.
// Uses the SQLite snapshots when available for fast subsequent runs.
func loadData(ctx context.Context) (*dataset, error) {
	now, err := referenceTime()
	if err != nil {
		return nil, err
	}
	cfg := loadConfig()

	loader, closeFn := newLoader(cfg, progressFn)
	defer closeFn()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loading records...\n")
	}
	result, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	reportLoad(result)

	return &dataset{
		cfg:    cfg,
		result: result,
		engine: metrics.NewEngine(cfg, now),
		now:    now,
	}, nil
}

func reportLoad(r *pipeline.LoadResult) {
	if flagQuiet {
		return
	}
	for _, e := range []struct {
		name  string
		stats pipeline.EntityStats
	}{{"payments", r.PaymentStats}, {"pledges", r.PledgeStats}} {
		origin := "parsed"
		if e.stats.FromCache {
			origin = "from cache"
		}
		fmt.Fprintf(os.Stderr, "  %s %s %s", formatNumber(int64(e.stats.Records)), e.name, origin)
		if e.stats.ParseErrors > 0 {
			fmt.Fprintf(os.Stderr, " (%d unreadable)", e.stats.ParseErrors)
		}
		if e.stats.Rates.Failed > 0 {
			fmt.Fprintf(os.Stderr, " (%d rates unavailable)", e.stats.Rates.Failed)
		}
		fmt.Fprintln(os.Stderr)
		if e.stats.Stale {
			fmt.Fprintf(os.Stderr, "  %s cache predates the input file; run with --no-cache to refresh\n", e.name)
		}
	}
	rs := r.Reconciliation
	if dropped := rs.Input - rs.Output; dropped > 0 {
		fmt.Fprintf(os.Stderr, "  %d of %d pledges dropped during reconciliation\n", dropped, rs.Input)
	}
}

func formatNumber(n int64) string {
	return cli.FormatNumber(n)
}
