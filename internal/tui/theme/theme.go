// Package theme defines color themes for the fundburn dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps dashboard roles to colors.
type Theme struct {
	Name        string
	Background  lipgloss.Color
	Surface     lipgloss.Color // card and bar backgrounds
	Highlight   lipgloss.Color // active tab, selected list row
	Border      lipgloss.Color
	Focus       lipgloss.Color // help and loading frames
	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color
	Accent      lipgloss.Color
	AccentBold  lipgloss.Color
	OnTarget    lipgloss.Color
	OffTarget   lipgloss.Color
	Goal        lipgloss.Color // target line on column charts
	Warning     lipgloss.Color // stale cache, refresh errors
	Key         lipgloss.Color // key hints
	Palette     []lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

var FlexokiDark = Theme{
	Name:        "flexoki-dark",
	Background:  "#100F0F",
	Surface:     "#1C1B1A",
	Highlight:   "#282726",
	Border:      "#403E3C",
	Focus:       "#3AA99F",
	TextDim:     "#575653",
	TextMuted:   "#878580",
	TextPrimary: "#FFFCF0",
	Accent:      "#3AA99F",
	AccentBold:  "#5BC8BE",
	OnTarget:    "#879A39",
	OffTarget:   "#D14D41",
	Goal:        "#D0A215",
	Warning:     "#DA702C",
	Key:         "#24837B",
	Palette:     []lipgloss.Color{"#3AA99F", "#4385BE", "#DA702C", "#CE5D97", "#D0A215", "#879A39", "#8B7EC8", "#D14D41"},
}

var CatppuccinMocha = Theme{
	Name:        "catppuccin-mocha",
	Background:  "#1E1E2E",
	Surface:     "#313244",
	Highlight:   "#45475A",
	Border:      "#585B70",
	Focus:       "#89B4FA",
	TextDim:     "#6C7086",
	TextMuted:   "#A6ADC8",
	TextPrimary: "#CDD6F4",
	Accent:      "#89B4FA",
	AccentBold:  "#B4D0FB",
	OnTarget:    "#A6E3A1",
	OffTarget:   "#F38BA8",
	Goal:        "#F9E2AF",
	Warning:     "#FAB387",
	Key:         "#94E2D5",
	Palette:     []lipgloss.Color{"#89B4FA", "#CBA6F7", "#FAB387", "#F5C2E7", "#F9E2AF", "#A6E3A1", "#94E2D5", "#F38BA8"},
}

var TokyoNight = Theme{
	Name:        "tokyo-night",
	Background:  "#1A1B26",
	Surface:     "#24283B",
	Highlight:   "#343A52",
	Border:      "#565F89",
	Focus:       "#7AA2F7",
	TextDim:     "#565F89",
	TextMuted:   "#A9B1D6",
	TextPrimary: "#C0CAF5",
	Accent:      "#7AA2F7",
	AccentBold:  "#A9C1FF",
	OnTarget:    "#9ECE6A",
	OffTarget:   "#F7768E",
	Goal:        "#E0AF68",
	Warning:     "#FF9E64",
	Key:         "#7DCFFF",
	Palette:     []lipgloss.Color{"#7AA2F7", "#BB9AF7", "#FF9E64", "#7DCFFF", "#E0AF68", "#9ECE6A", "#2AC3DE", "#F7768E"},
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:        "terminal",
	Background:  "0",
	Surface:     "0",
	Highlight:   "8",
	Border:      "8",
	Focus:       "6",
	TextDim:     "8",
	TextMuted:   "7",
	TextPrimary: "15",
	Accent:      "6",
	AccentBold:  "14",
	OnTarget:    "2",
	OffTarget:   "1",
	Goal:        "3",
	Warning:     "3",
	Key:         "6",
	Palette:     []lipgloss.Color{"6", "4", "3", "5", "11", "2", "12", "1"},
}

// All lists the selectable themes in display order.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// ForTarget is the color for a KPI that is on or off target.
func (t Theme) ForTarget(onTarget bool) lipgloss.Color {
	if onTarget {
		return t.OnTarget
	}
	return t.OffTarget
}

// SeriesColor returns the i-th series color, wrapping around.
func (t Theme) SeriesColor(i int) lipgloss.Color {
	if len(t.Palette) == 0 {
		return t.Accent
	}
	return t.Palette[i%len(t.Palette)]
}
