package interval

import (
	"testing"
	"time"

	"github.com/theirongolddev/fundburn/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func pledge(t *testing.T, donor, created, starts, ended string) model.Pledge {
	t.Helper()
	return model.Pledge{
		PledgeID:  donor + "-" + starts,
		DonorID:   donor,
		CreatedAt: mustDate(t, created),
		StartsAt:  mustDate(t, starts),
		EndedAt:   mustDate(t, ended),
		Status:    model.StatusActive,
		Frequency: model.FrequencyMonthly,
	}
}

func TestIsActiveBoundaries(t *testing.T) {
	p := pledge(t, "D1", "2023-06-01", "2023-07-01", "2023-09-01")

	tests := []struct {
		at   string
		want bool
	}{
		{"2023-06-30", false},
		{"2023-07-01", true},
		{"2023-08-15", true},
		{"2023-08-31", true},
		{"2023-09-01", false},
		{"2024-01-01", false},
	}
	for _, tt := range tests {
		if got := IsActive(p, mustDate(t, tt.at), Active); got != tt.want {
			t.Errorf("IsActive(%s) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestIsActiveOpenEnded(t *testing.T) {
	p := pledge(t, "D1", "2023-06-01", "2023-07-01", "")

	start := mustDate(t, "2023-07-01")
	for d := start; d.Before(start.AddDate(3, 0, 0)); d = d.AddDate(0, 0, 17) {
		if !IsActive(p, d, Active) {
			t.Fatalf("open pledge inactive on %s", model.FormatDate(d))
		}
	}
	if IsActive(p, start.AddDate(0, 0, -1), Active) {
		t.Error("open pledge active before its start")
	}
}

func TestIsActiveEveryDayInInterval(t *testing.T) {
	p := pledge(t, "D1", "2023-01-01", "2023-02-10", "2023-05-03")
	start, end := p.StartsAt, p.EndedAt
	for d := start.AddDate(0, 0, -10); d.Before(end.AddDate(0, 0, 10)); d = d.AddDate(0, 0, 1) {
		want := !d.Before(start) && d.Before(end)
		if got := IsActive(p, d, Active); got != want {
			t.Fatalf("IsActive(%s) = %v, want %v", model.FormatDate(d), got, want)
		}
	}
}

func TestFutureViewNeedsStartDate(t *testing.T) {
	// Future spans created..starts; an empty start is not an open end.
	p := pledge(t, "D1", "2023-01-01", "", "")
	if IsActive(p, mustDate(t, "2023-06-01"), Future) {
		t.Error("future view active with no start date")
	}

	q := pledge(t, "D1", "2023-01-01", "2023-08-01", "")
	if !IsActive(q, mustDate(t, "2023-06-01"), Future) {
		t.Error("future view inactive before first payment")
	}
	if IsActive(q, mustDate(t, "2023-08-01"), Future) {
		t.Error("future view active on first payment date")
	}
	if !IsActive(q, mustDate(t, "2023-08-01"), Total) {
		t.Error("total view inactive on first payment date")
	}
}

func TestIsActiveInMonth(t *testing.T) {
	p := pledge(t, "D1", "2023-06-20", "2023-07-15", "2023-10-02")

	tests := []struct {
		month string
		want  bool
	}{
		{"2023-06", false},
		{"2023-07", true},
		{"2023-09", true},
		{"2023-10", false},
	}
	for _, tt := range tests {
		m, err := model.ParseMonth(tt.month)
		if err != nil {
			t.Fatal(err)
		}
		if got := IsActiveInMonth(p, m, Active); got != tt.want {
			t.Errorf("IsActiveInMonth(%s) = %v, want %v", tt.month, got, tt.want)
		}
	}
}

func TestParseBounds(t *testing.T) {
	for _, name := range []string{"active", "future", "total"} {
		b, ok := ParseBounds(name)
		if !ok || b.Name != name {
			t.Errorf("ParseBounds(%q) = %+v, %v", name, b, ok)
		}
	}
	if _, ok := ParseBounds("bogus"); ok {
		t.Error("ParseBounds accepted bogus view")
	}
}
