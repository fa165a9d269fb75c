package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fundburn/internal/model"
	"github.com/theirongolddev/fundburn/internal/pipeline"
	"github.com/theirongolddev/fundburn/internal/tui"
	"github.com/theirongolddev/fundburn/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	now, err := referenceTime()
	if err != nil {
		return err
	}
	pinned := flagAsOf != ""
	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		Load: func(ctx context.Context, progress pipeline.ProgressFunc) (*pipeline.LoadResult, error) {
			loader, closeFn := newLoader(cfg, progress)
			defer closeFn()
			return loader.Load(ctx)
		},
		Settings: cfg,
		Now: func() time.Time {
			if pinned {
				return now
			}
			return model.Day(time.Now())
		},
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
