package metrics

import (
	"fmt"
	"testing"

	"github.com/theirongolddev/fundburn/internal/model"
)

func TestActiveDonorsCoalescesOverlappingPledges(t *testing.T) {
	pledges := []model.Pledge{
		newPledge(t, "P1", "D1", "2023-01-01", "", 10),
		newPledge(t, "P2", "D1", "2023-03-01", "", 20),
		newPledge(t, "P3", "D2", "2023-01-01", "2023-02-01", 10),
	}
	if got := ActiveDonors(pledges, mustDate(t, "2023-04-01")); got != 1 {
		t.Errorf("ActiveDonors = %d, want 1", got)
	}
	if got := ActiveDonors(pledges, mustDate(t, "2023-01-15")); got != 2 {
		t.Errorf("ActiveDonors(Jan) = %d, want 2", got)
	}
}

func TestActiveDonorsKPI(t *testing.T) {
	pledges := []model.Pledge{
		newPledge(t, "P1", "D1", "2023-01-01", "", 10),
		newPledge(t, "P2", "D2", "2023-01-01", "", 10, withStatus(model.StatusOneTime)),
	}
	kpi := testEngine(t, "2023-06-01").ActiveDonorsKPI(pledges)
	if kpi.Value != "2" || kpi.OnTarget {
		t.Errorf("kpi = %+v", kpi)
	}
	if kpi.OffMsg != "below target of 1,200" {
		t.Errorf("OffMsg = %q", kpi.OffMsg)
	}
}

func TestMonthlyActiveDonors(t *testing.T) {
	var pledges []model.Pledge
	// 150 donors start in March; each also holds a second overlapping pledge.
	for i := range 150 {
		donor := fmt.Sprintf("D%03d", i)
		pledges = append(pledges,
			newPledge(t, donor+"a", donor, "2023-03-05", "", 10),
			newPledge(t, donor+"b", donor, "2023-03-20", "2023-05-10", 10),
		)
	}
	// A handful of early donors stay below the display threshold.
	for i := range 5 {
		donor := fmt.Sprintf("E%d", i)
		pledges = append(pledges, newPledge(t, donor, donor, "2023-01-10", "2023-04-10", 10))
	}

	points := MonthlyActiveDonors(pledges, mustDate(t, "2023-06-15"))
	want := []struct {
		label string
		value float64
	}{
		{"2023-03", 155},
		{"2023-04", 150},
		{"2023-05", 150},
		{"2023-06", 150},
	}
	if len(points) != len(want) {
		t.Fatalf("got %d points: %+v", len(points), points)
	}
	for i, w := range want {
		if points[i].Label != w.label || points[i].Value != w.value {
			t.Errorf("point %d = %+v, want %+v", i, points[i], w)
		}
	}
}
