package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fundburn/internal/tui/theme"
)

// Status is what the bottom bar reports about the loaded data.
type Status struct {
	AsOf       string // reference date
	Records    string // e.g. "12,345 payments · 2,100 pledges"
	LoadTime   string
	Refreshing bool
	Stale      bool // cache predates the input files
	Error      string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keys := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)

	left := keys.Render(" [?]help  [r]efresh  [q]uit")

	var parts []string
	switch {
	case s.Error != "":
		parts = append(parts, warn.Render("load failed: "+s.Error))
	case s.Refreshing:
		parts = append(parts, warn.Render("refreshing…"))
	case s.Stale:
		parts = append(parts, warn.Render("cache is stale"))
	}
	if s.Records != "" {
		parts = append(parts, base.Render(s.Records))
	}
	if s.AsOf != "" {
		parts = append(parts, base.Render("as of "+s.AsOf))
	}
	if s.LoadTime != "" {
		parts = append(parts, base.Render(fmt.Sprintf("loaded in %s", s.LoadTime)))
	}
	right := strings.Join(parts, base.Render("  ")) + base.Render(" ")

	pad := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + base.Render(strings.Repeat(" ", pad)) + right
}
