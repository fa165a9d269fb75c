package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTabVisualWidthMatchesLabel(t *testing.T) {
	for _, tab := range Tabs {
		want := len(tab.Name) + 2*tabPadding
		for _, active := range []bool{true, false} {
			if got := TabVisualWidth(tab, active); got != want {
				t.Errorf("%s active=%v width = %d, want %d", tab.Name, active, got, want)
			}
		}
	}
}

func TestRenderTabBarFillsWidth(t *testing.T) {
	if got := lipgloss.Width(RenderTabBar(0, 100)); got != 100 {
		t.Errorf("tab bar width = %d, want 100", got)
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('m'); got != 2 {
		t.Errorf("TabIdxByKey('m') = %d, want 2", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", got)
	}
}
