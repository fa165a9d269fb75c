package components

import (
	"strings"
	"testing"
)

func TestProgressBarClamps(t *testing.T) {
	if got := strings.Count(ProgressBar(1.5, 10), "█"); got != 10 {
		t.Errorf("overfull bar has %d cells, want 10", got)
	}
	if got := strings.Count(ProgressBar(-1, 10), "░"); got != 10 {
		t.Errorf("negative bar has %d empty cells, want 10", got)
	}
}

func TestGoalBar(t *testing.T) {
	out := GoalBar(900_000, 1_800_000, false, 20)
	if got := strings.Count(out, "━"); got != 10 {
		t.Errorf("half-way bar has %d filled cells, want 10", got)
	}
	if !strings.Contains(out, "50% of goal") {
		t.Errorf("label missing: %q", out)
	}
	if GoalBar(1, 0, false, 20) != "" {
		t.Error("zero goal should render nothing")
	}
}
