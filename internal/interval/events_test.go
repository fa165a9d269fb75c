package interval

import (
	"testing"

	"github.com/theirongolddev/fundburn/internal/model"
)

func TestStateChangeEvents(t *testing.T) {
	pledges := []model.Pledge{
		pledge(t, "D1", "2023-01-01", "2023-03-01", "2023-05-01"),
		pledge(t, "D2", "2023-01-01", "2023-05-01", ""),
		pledge(t, "D3", "2023-01-01", "", ""),
	}
	events := StateChangeEvents(pledges, Active)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].DonorID != "D1" || events[0].Delta != 1 {
		t.Errorf("events[0] = %+v", events[0])
	}
	// Same-day opening sorts before closing.
	if events[1].Delta != 1 || events[1].DonorID != "D2" {
		t.Errorf("events[1] = %+v, want D2 +1", events[1])
	}
	if events[2].Delta != -1 || events[2].DonorID != "D1" {
		t.Errorf("events[2] = %+v, want D1 -1", events[2])
	}
}

func TestDonorTransitionsCoalescesOverlap(t *testing.T) {
	pledges := []model.Pledge{
		pledge(t, "D1", "2023-01-01", "2023-02-01", "2023-06-01"),
		pledge(t, "D1", "2023-01-01", "2023-03-01", "2023-08-01"),
		pledge(t, "D2", "2023-01-01", "2023-04-01", ""),
	}
	got := DonorTransitions(StateChangeEvents(pledges, Active))

	want := []struct {
		date  string
		donor string
		delta int
	}{
		{"2023-02-01", "D1", 1},
		{"2023-04-01", "D2", 1},
		{"2023-08-01", "D1", -1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d transitions, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if model.FormatDate(got[i].Date) != w.date || got[i].DonorID != w.donor || got[i].Delta != w.delta {
			t.Errorf("transition %d = %+v, want %+v", i, got[i], w)
		}
	}

	// Running sum never counts D1 twice.
	running, peak := 0, 0
	for _, e := range got {
		running += e.Delta
		peak = max(peak, running)
	}
	if peak != 2 {
		t.Errorf("peak active donors = %d, want 2", peak)
	}
}

func TestDonorTransitionsHandover(t *testing.T) {
	// One pledge ends the day the next begins: no gap, no double count.
	pledges := []model.Pledge{
		pledge(t, "D1", "2023-01-01", "2023-02-01", "2023-05-01"),
		pledge(t, "D1", "2023-01-01", "2023-05-01", ""),
	}
	got := DonorTransitions(StateChangeEvents(pledges, Active))
	if len(got) != 1 || got[0].Delta != 1 {
		t.Fatalf("transitions = %+v, want a single +1", got)
	}
}
