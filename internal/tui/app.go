// Package tui provides the interactive Bubble Tea dashboard for fundburn.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fundburn/internal/cli"
	"github.com/theirongolddev/fundburn/internal/config"
	"github.com/theirongolddev/fundburn/internal/interval"
	"github.com/theirongolddev/fundburn/internal/metrics"
	"github.com/theirongolddev/fundburn/internal/pipeline"
	"github.com/theirongolddev/fundburn/internal/tui/components"
	"github.com/theirongolddev/fundburn/internal/tui/theme"
)

// LoadFunc loads the dataset, reporting rate lookups through progress.
// progress may be nil.
type LoadFunc func(ctx context.Context, progress pipeline.ProgressFunc) (*pipeline.LoadResult, error)

// Options configures the dashboard.
type Options struct {
	Load     LoadFunc
	Settings config.Config
	Now      func() time.Time
}

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Result   *pipeline.LoadResult
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports exchange-rate lookup progress.
type ProgressMsg struct {
	Stage   pipeline.Stage
	Current int
	Total   int
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	result   *pipeline.LoadResult
	engine   *metrics.Engine
	summary  metrics.Summary
	loaded   bool
	loadErr  error
	loadTime time.Duration

	refreshing bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-page state
	fiscal  fiscalState
	arr     arrState
	monthly monthlyState

	// Loading, with progress streamed from the loader goroutine
	spinner       spinner.Model
	progressStage pipeline.Stage
	progress      int
	progressMax   int
	loadSub       chan tea.Msg
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
)

// NewApp creates a new dashboard model.
func NewApp(opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:    opts,
		spinner: sp,
		loadSub: make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts.Load, a.loadSub),
		a.spinner.Tick,
	)
}

// recompute rebuilds the engine at the current time and refreshes the
// cached page data.
func (a *App) recompute() {
	if a.result == nil {
		return
	}
	a.engine = metrics.NewEngine(a.opts.Settings, a.opts.Now())
	a.summary = a.engine.Summarize(a.result.Rows, a.result.Pledges)
	if a.fiscal.year.StartYear == 0 {
		a.fiscal.year = a.summary.Year
	}
	a.arr.chapterTypes = metrics.ChapterTypes(a.result.Pledges)
	if a.arr.typeIdx >= len(a.arr.chapterTypes) {
		a.arr.typeIdx = 0
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case ProgressMsg:
		a.progressStage = msg.Stage
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case DataLoadedMsg:
		a.loaded = true
		a.refreshing = false
		if msg.Err != nil {
			a.loadErr = msg.Err
			return a, nil
		}
		a.loadErr = nil
		a.result = msg.Result
		a.loadTime = msg.LoadTime
		a.recompute()
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}
	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if a.refreshing {
			return a, nil
		}
		a.refreshing = true
		return a, refreshDataCmd(a.opts.Load)
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}
	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}
	if a.result == nil {
		return a, nil
	}

	switch a.activeTab {
	case 0:
		a.fiscal = a.fiscal.update(key)
	case 1:
		a.arr = a.arr.update(key)
	case 2:
		a.monthly = a.monthly.update(key)
	}
	return a, nil
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  fundburn needs at least %d columns.\n", a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Focus).
		Background(t.Surface).
		Padding(2, 4)
	logo := lipgloss.NewStyle().Foreground(t.AccentBold).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	count := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logo.Render("◈ fundburn"))
	b.WriteString(muted.Render(" · Fundraising Metrics"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := max(20, min(40, a.width-30))
		b.WriteString(a.spinner.View())
		b.WriteString(muted.Render(fmt.Sprintf(" Fetching %s\n\n", a.progressStage)))
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), barW))
		b.WriteString("\n")
		b.WriteString(count.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(muted.Render(" / "))
		b.WriteString(count.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(muted.Render(" Loading payments and pledges..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Focus).
		Background(t.Surface).
		Padding(1, 3)
	title := lipgloss.NewStyle().Foreground(t.AccentBold).Background(t.Surface).Bold(true)
	section := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Key).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	groups := []struct {
		name     string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"f a m", "Jump to page"},
			{"← →", "Previous / Next page"},
		}},
		{"Fiscal Year", [][2]string{
			{"[ ]", "Previous / Next fiscal year"},
			{"c", "Toggle counterfactual"},
			{"b", "Cycle breakdown"},
		}},
		{"ARR by Chapter", [][2]string{
			{"v", "Cycle view (total, future, active)"},
			{"j k", "Previous / Next chapter type"},
		}},
		{"Monthly", [][2]string{
			{"j k", "Previous / Next series"},
		}},
		{"Actions", [][2]string{
			{"r", "Reload data"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(title.Render("◈ Keyboard Shortcuts"))
	for _, g := range groups {
		b.WriteString("\n\n" + section.Render(g.name))
		for _, kb := range g.bindings {
			fmt.Fprintf(&b, "\n  %s  %s", keyStyle.Render(fmt.Sprintf("%-8s", kb[0])), desc.Render(kb[1]))
		}
	}
	b.WriteString("\n\n" + dim.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w, cw, h := a.width, a.contentWidth(), a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.status())

	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch {
	case a.result == nil:
		content = a.renderLoadError(cw)
	case a.activeTab == 0:
		content = a.renderFiscalTab(cw)
	case a.activeTab == 1:
		content = a.renderARRTab(cw)
	case a.activeTab == 2:
		content = a.renderMonthlyTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderLoadError(cw int) string {
	msg := "no data"
	if a.loadErr != nil {
		msg = a.loadErr.Error()
	}
	body := msg + "\n\nCheck the payments and pledges paths with `fundburn config`, then press r."
	return components.ContentCard("Could not load data", body, cw)
}

func (a App) status() components.Status {
	s := components.Status{Refreshing: a.refreshing}
	if a.loadErr != nil {
		s.Error = a.loadErr.Error()
	}
	if a.engine != nil {
		s.AsOf = a.engine.Now.Format("Jan 2, 2006")
	}
	if a.result != nil {
		s.Records = fmt.Sprintf("%s payments · %s pledges",
			cli.FormatNumber(int64(len(a.result.Payments))), cli.FormatNumber(int64(len(a.result.Pledges))))
		s.Stale = a.result.PaymentStats.Stale || a.result.PledgeStats.Stale
		s.LoadTime = fmt.Sprintf("%.1fs", a.loadTime.Seconds())
	}
	return s
}

// viewName is the display name of an interval view.
func viewName(b interval.Bounds) string {
	switch b.Name {
	case interval.Active.Name:
		return "Active"
	case interval.Future.Name:
		return "Future"
	}
	return "Total"
}

// ─── Commands ───────────────────────────────────────────────────

// loadDataCmd runs the loader in a background goroutine, streaming
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(load LoadFunc, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()
			// Non-blocking send: a dropped update is replaced by the next one.
			progress := func(stage pipeline.Stage, current, total int) {
				select {
				case sub <- ProgressMsg{Stage: stage, Current: current, Total: total}:
				default:
				}
			}
			result, err := runLoad(load, progress)
			sub <- DataLoadedMsg{Result: result, Err: err, LoadTime: time.Since(start)}
		}()
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads the dataset in the background without progress UI.
func refreshDataCmd(load LoadFunc) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		result, err := runLoad(load, nil)
		return DataLoadedMsg{Result: result, Err: err, LoadTime: time.Since(start)}
	}
}

func runLoad(load LoadFunc, progress pipeline.ProgressFunc) (*pipeline.LoadResult, error) {
	if load == nil {
		return nil, fmt.Errorf("no loader configured")
	}
	return load(context.Background(), progress)
}

// ─── Layout helpers ─────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow RenderTabBar: tabs separated by one column.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}
