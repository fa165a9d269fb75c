package metrics

import (
	"fmt"
	"testing"

	"github.com/theirongolddev/fundburn/internal/interval"
	"github.com/theirongolddev/fundburn/internal/model"
)

func TestMonthlyDonationsModes(t *testing.T) {
	quarter := 0.25
	a := payment(t, "1", "2023-01-05", 100)
	a.Counterfactuality = &quarter
	b := payment(t, "2", "2023-03-05", 40)
	rows := model.PaymentRows([]model.Payment{a, b})
	ex := NewExclusions(nil)

	total := MonthlyDonations(rows, ex, DonationsTotal)
	if len(total) != 1 || len(total[0].Points) != 3 {
		t.Fatalf("total = %+v", total)
	}
	if total[0].Points[1].Value != 0 || total[0].Points[2].Value != 40 {
		t.Errorf("total points = %+v", total[0].Points)
	}

	split := MonthlyDonations(rows, ex, DonationsSplit)
	if len(split) != 2 {
		t.Fatalf("split = %+v", split)
	}
	if split[0].Points[0].Value != 25 || split[1].Points[0].Value != 75 {
		t.Errorf("January split = %v / %v", split[0].Points[0].Value, split[1].Points[0].Value)
	}
	if split[0].Points[2].Value != 0 {
		t.Errorf("payment with no counterfactuality counted: %v", split[0].Points[2].Value)
	}

	if got := MonthlyDonations(nil, ex, DonationsTotal); got != nil {
		t.Errorf("empty = %+v", got)
	}
}

func TestParseDonationMode(t *testing.T) {
	if m, err := ParseDonationMode("both"); err != nil || m != DonationsSplit {
		t.Errorf("both = %v, %v", m, err)
	}
	if _, err := ParseDonationMode("weekly"); err == nil {
		t.Error("accepted weekly")
	}
}

func TestMonthlyPledgesViews(t *testing.T) {
	var pledges []model.Pledge
	for i := range 120 {
		id := fmt.Sprintf("P%03d", i)
		pledges = append(pledges, newPledge(t, id, "D"+id, "2023-03-01", "", 10, withCreated(t, "2023-01-15")))
	}
	now := mustDate(t, "2023-04-10")

	total := MonthlyPledges(pledges, interval.Total, now)
	if len(total) != 4 || total[0].Label != "2023-01" || total[0].Value != 120 {
		t.Errorf("total = %+v", total)
	}

	// Future pledges open at creation and close on first payment.
	future := MonthlyPledges(pledges, interval.Future, now)
	if len(future) != 4 || future[1].Value != 120 || future[2].Value != 0 {
		t.Errorf("future = %+v", future)
	}

	active := MonthlyPledges(pledges, interval.Active, now)
	if len(active) != 2 || active[0].Label != "2023-03" {
		t.Errorf("active = %+v", active)
	}

	if len(PledgeViews) != 3 || PledgeViews[2].Bounds.Name != "active" {
		t.Errorf("PledgeViews = %+v", PledgeViews)
	}
}

func BenchmarkSummarize(b *testing.B) {
	var pledges []model.Pledge
	var payments []model.Payment
	for i := range 2000 {
		id := fmt.Sprintf("P%04d", i)
		start := fmt.Sprintf("20%02d-%02d-01", 20+i%4, 1+i%12)
		end := ""
		status := model.StatusActive
		if i%5 == 0 {
			end = fmt.Sprintf("2024-%02d-15", 1+i%12)
			status = model.StatusChurned
		}
		p := newPledge(b, id, fmt.Sprintf("D%04d", i%1500), start, end, float64(10+i%90), withStatus(status))
		pledges = append(pledges, p)
		for j := range 6 {
			pay := payment(b, fmt.Sprintf("%s-%d", id, j), fmt.Sprintf("2023-%02d-%02d", 7+j%6, 1+i%28), float64(10+i%90))
			pay.PledgeID = id
			payments = append(payments, pay)
		}
	}
	rows := model.PaymentRows(payments)
	e := testEngine(b, "2024-06-30")

	b.ResetTimer()
	for range b.N {
		e.Summarize(rows, pledges)
	}
}
