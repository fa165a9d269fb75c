package theme

import "testing"

func TestByNameFallsBackToDefault(t *testing.T) {
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %q", got.Name)
	}
	if got := ByName("no-such-theme"); got.Name != FlexokiDark.Name {
		t.Errorf("ByName(unknown) = %q, want %q", got.Name, FlexokiDark.Name)
	}
}

func TestForTarget(t *testing.T) {
	th := FlexokiDark
	if th.ForTarget(true) != th.OnTarget || th.ForTarget(false) != th.OffTarget {
		t.Error("ForTarget mixed up the on and off target colors")
	}
}

func TestSeriesColorWraps(t *testing.T) {
	th := CatppuccinMocha
	n := len(th.Palette)
	if th.SeriesColor(n) != th.SeriesColor(0) {
		t.Error("SeriesColor did not wrap")
	}
}

func TestSeriesColorWithoutPalette(t *testing.T) {
	th := Theme{Accent: "6"}
	if th.SeriesColor(3) != "6" {
		t.Error("SeriesColor should fall back to the accent color")
	}
}

func TestEveryThemeHasAPalette(t *testing.T) {
	for _, th := range All {
		if len(th.Palette) < 2 {
			t.Errorf("%s: palette has %d colors", th.Name, len(th.Palette))
		}
	}
}
