package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fundburn/internal/model"
	"github.com/theirongolddev/fundburn/internal/pipeline"
	"github.com/theirongolddev/fundburn/internal/server"
)

var (
	flagServeAddr    string
	flagServeRefresh time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the metrics as a JSON HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().DurationVar(&flagServeRefresh, "refresh", 0, "Reload interval (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	if _, err := referenceTime(); err != nil {
		return err
	}
	cfg := loadConfig()

	addr := cfg.Server.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}
	refresh := time.Duration(cfg.Server.RefreshMinutes) * time.Minute
	if flagServeRefresh > 0 {
		refresh = flagServeRefresh
	}

	load := func(ctx context.Context) (*pipeline.LoadResult, error) {
		loader, closeFn := newLoader(cfg, nil)
		defer closeFn()
		result, err := loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		reportLoad(result)
		return result, nil
	}

	svc := server.New(server.Config{
		Addr:     addr,
		Refresh:  refresh,
		Load:     load,
		Settings: cfg,
		Now: func() time.Time {
			// --as-of was validated above; an empty flag tracks the clock.
			if t, err := referenceTime(); err == nil {
				return t
			}
			return model.Day(time.Now())
		},
	})

	fmt.Printf("  fundburn listening on http://%s\n", addr)
	fmt.Printf("  Reloading every %s\n", refresh)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
