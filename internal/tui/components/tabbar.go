package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fundburn/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines the dashboard pages in display order.
var Tabs = []Tab{
	{Name: "Fiscal Year", Key: 'f', KeyPos: 0},
	{Name: "ARR by Chapter", Key: 'a', KeyPos: 0},
	{Name: "Monthly", Key: 'm', KeyPos: 0},
}

// tabPadding is the horizontal padding on each side of a tab label.
const tabPadding = 1

// renderTab renders one tab; inactive tabs highlight their shortcut key.
func renderTab(tab Tab, active bool) string {
	t := theme.Active
	pad := strings.Repeat(" ", tabPadding)

	if active {
		style := lipgloss.NewStyle().Foreground(t.AccentBold).Background(t.Highlight).Bold(true)
		return style.Render(pad + tab.Name + pad)
	}

	text := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if tab.KeyPos < 0 || tab.KeyPos >= len(tab.Name) {
		return text.Render(pad+tab.Name) + dim.Render("[") + key.Render(string(tab.Key)) + dim.Render("]") + text.Render(pad)
	}
	return text.Render(pad+tab.Name[:tab.KeyPos]) +
		key.Render(tab.Name[tab.KeyPos:tab.KeyPos+1]) +
		text.Render(tab.Name[tab.KeyPos+1:]+pad)
}

// TabVisualWidth is the rendered width of a tab.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar with the given active index, padded to width.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	bar := strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(bar)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
