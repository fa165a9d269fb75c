package metrics

import (
	"testing"

	"github.com/theirongolddev/fundburn/internal/model"
)

func TestAttritionRatePoint(t *testing.T) {
	pledges := []model.Pledge{
		newPledge(t, "P1", "D1", "2023-01-01", "", 10),
		newPledge(t, "P2", "D2", "2023-01-01", "", 10),
		newPledge(t, "P3", "D3", "2023-01-01", "2023-03-10", 10, withStatus(model.StatusChurned)),
		newPledge(t, "P4", "D4", "2023-01-01", "2023-03-20", 10, withStatus(model.StatusUpdated)),
	}
	a := AttritionRate(pledges, mustDate(t, "2023-03-01"), mustDate(t, "2023-03-31"))
	// Active: 4 at start, 2 at end. One churned.
	if a.ActiveStart != 4 || a.ActiveEnd != 2 || a.Churned != 1 {
		t.Fatalf("attrition = %+v", a)
	}
	if !approx(a.Rate, 100.0/3) {
		t.Errorf("Rate = %v, want 33.3", a.Rate)
	}
}

func TestMonthlyAttritionSkipsEmptyMonths(t *testing.T) {
	// Two disjoint pledges with a dead gap between them.
	pledges := []model.Pledge{
		newPledge(t, "P1", "D1", "2023-01-01", "2023-02-15", 10, withStatus(model.StatusChurned)),
		newPledge(t, "P2", "D2", "2023-05-01", "", 10),
	}
	ma := ComputeMonthlyAttrition(pledges, mustDate(t, "2023-06-15"))

	// Month ends Jan..May (June 30 is past now).
	if len(ma.Months) != 5 {
		t.Fatalf("got %d months, want 5", len(ma.Months))
	}
	mar, apr := ma.Months[2], ma.Months[3]
	if mar.Defined() || apr.Defined() {
		t.Fatalf("gap months defined: %+v %+v", mar, apr)
	}
	if mar.Rate != 0 {
		t.Errorf("gap month rate = %v, want 0", mar.Rate)
	}

	// Jan 0%, Feb 1/((1+0)/2)=200%, May 0% (start 1, end 1).
	if ma.Counted != 3 {
		t.Errorf("Counted = %d, want 3", ma.Counted)
	}
	if !approx(ma.Average, 200.0/3) {
		t.Errorf("Average = %v, want %v", ma.Average, 200.0/3)
	}
	if ma.TotalChurned != 1 {
		t.Errorf("TotalChurned = %d", ma.TotalChurned)
	}
}

func TestMonthlyAttritionAllEmpty(t *testing.T) {
	ma := ComputeMonthlyAttrition(nil, mustDate(t, "2023-06-15"))
	if ma.Average != 0 || len(ma.Months) != 0 {
		t.Errorf("empty = %+v", ma)
	}
}

func TestMonthlyAttritionIgnoresOneTime(t *testing.T) {
	pledges := []model.Pledge{
		newPledge(t, "P1", "D1", "2023-01-01", "", 10, withStatus(model.StatusOneTime)),
	}
	if ma := ComputeMonthlyAttrition(pledges, mustDate(t, "2023-06-15")); len(ma.Months) != 0 {
		t.Errorf("one-time pledges produced %d months", len(ma.Months))
	}
}

func TestAllTimeAttrition(t *testing.T) {
	pledges := []model.Pledge{
		newPledge(t, "P1", "D1", "2023-01-01", "", 10),
		newPledge(t, "P2", "D2", "2023-01-01", "2023-02-01", 10, withStatus(model.StatusChurned)),
		newPledge(t, "P3", "D3", "2023-01-01", "2023-02-01", 10, withStatus(model.StatusPaymentFailure)),
		newPledge(t, "P4", "D4", "2023-01-01", "", 10),
		newPledge(t, "P5", "D5", "2023-01-01", "", 10, withStatus(model.StatusOneTime)),
	}
	at := ComputeAllTimeAttrition(pledges)
	if at.Churned != 2 || at.Recurring != 4 || at.Total != 5 || at.Rate != 50 {
		t.Errorf("all-time = %+v", at)
	}

	kpi := testEngine(t, "2023-06-01").AllTimeAttritionKPI(pledges)
	if kpi.OnTarget || kpi.Value != "50.0%" {
		t.Errorf("kpi = %+v", kpi)
	}
	if kpi.Metrics[0] != "2 cancelled / 5 total pledges historically" {
		t.Errorf("metric = %q", kpi.Metrics[0])
	}

	if got := ComputeAllTimeAttrition(nil); got.Rate != 0 {
		t.Errorf("empty rate = %v", got.Rate)
	}
}

func TestAverageAttritionKPI(t *testing.T) {
	pledges := []model.Pledge{
		newPledge(t, "P1", "D1", "2023-01-01", "", 10),
	}
	kpi, ma := testEngine(t, "2023-06-15").AverageAttritionKPI(pledges)
	if !kpi.OnTarget || kpi.Value != "0.0%" {
		t.Errorf("kpi = %+v", kpi)
	}
	if kpi.OnMsg != "Lower than target of 18%" {
		t.Errorf("OnMsg = %q", kpi.OnMsg)
	}
	if want := "0 total cancelled over 5 months"; kpi.Metrics[0] != want || ma.Counted != 5 {
		t.Errorf("metric = %q, counted %d", kpi.Metrics[0], ma.Counted)
	}
}
