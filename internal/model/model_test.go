package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func usd(v float64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(v), Valid: true}
}

func TestAnnualized(t *testing.T) {
	cases := []struct {
		freq   Frequency
		amount float64
		want   float64
	}{
		{FrequencyMonthly, 100, 1200},
		{FrequencyQuarterly, 100, 400},
		{FrequencyAnnually, 1200, 1200},
		{FrequencySemiMonthly, 50, 50},
		{FrequencyUnspecified, 75, 75},
		{Frequency("Fortnightly"), 10, 10},
	}
	for _, c := range cases {
		p := Pledge{Frequency: c.freq, USDContributionAmount: usd(c.amount)}
		got := p.Annualized()
		if !got.Valid {
			t.Fatalf("%s: Annualized absent", c.freq)
		}
		if v := got.Decimal.InexactFloat64(); v != c.want {
			t.Errorf("%s x %v: Annualized = %v, want %v", c.freq, c.amount, v, c.want)
		}
	}
}

func TestAnnualized_AbsentAmountStaysAbsent(t *testing.T) {
	p := Pledge{Frequency: FrequencyMonthly}
	if p.Annualized().Valid {
		t.Error("Annualized should be absent when the USD amount is absent")
	}
}

func TestPaymentMoneyMoved(t *testing.T) {
	cf := 0.5
	p := Payment{USDAmount: usd(200), Counterfactuality: &cf}

	v, ok := p.MoneyMoved(false)
	if !ok || v.InexactFloat64() != 200 {
		t.Errorf("MoneyMoved(false) = %v,%v, want 200,true", v, ok)
	}
	v, ok = p.MoneyMoved(true)
	if !ok || v.InexactFloat64() != 100 {
		t.Errorf("MoneyMoved(true) = %v,%v, want 100,true", v, ok)
	}

	if _, ok := (Payment{}).MoneyMoved(false); ok {
		t.Error("absent USD amount should be excluded")
	}
	if _, ok := (Payment{USDAmount: usd(10)}).MoneyMoved(true); ok {
		t.Error("absent counterfactuality should be excluded from counterfactual sums")
	}
}

func TestStatusRules(t *testing.T) {
	if !StatusChurned.Churned() || !StatusPaymentFailure.Churned() || StatusActive.Churned() {
		t.Error("Churned classification wrong")
	}
	if !StatusError.RequiresEndDate() || StatusUpdated.RequiresEndDate() {
		t.Error("RequiresEndDate classification wrong")
	}
	odd := ParsePledgeStatus("  Paused  ")
	if odd.Known() || string(odd) != "Paused" {
		t.Errorf("unknown status = %q known=%v, want verbatim and unknown", odd, odd.Known())
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-07-15 10:30:00")
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC); !d.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", d, want)
	}
	if d, err := ParseDate(""); err != nil || !d.IsZero() {
		t.Errorf("ParseDate(\"\") = %v,%v, want zero,nil", d, err)
	}
	if _, err := ParseDate("15/07/2023"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestMonthHelpers(t *testing.T) {
	m, err := ParseMonth("2024-02")
	if err != nil {
		t.Fatal(err)
	}
	if got := m.End(); got.Day() != 29 {
		t.Errorf("2024-02 End = %v, want the 29th", got)
	}
	if m.Next().String() != "2024-03" {
		t.Errorf("Next = %s, want 2024-03", m.Next())
	}
	if !m.Before(Month{Year: 2024, Month: time.March}) || m.Before(m) {
		t.Error("Before ordering wrong")
	}
}

func TestDayOrdinal(t *testing.T) {
	if got := DayOrdinal(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)); got != 719163 {
		t.Errorf("DayOrdinal(1970-01-01) = %v, want 719163", got)
	}
	a := DayOrdinal(time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC))
	b := DayOrdinal(time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC))
	if b-a != 14 {
		t.Errorf("ordinal gap = %v, want 14", b-a)
	}
}

func TestChapterTypeLabel(t *testing.T) {
	if got := (Pledge{}).ChapterTypeLabel(); got != NoChapterType {
		t.Errorf("empty chapter type label = %q, want %q", got, NoChapterType)
	}
	if got := (Pledge{ChapterType: "UG"}).ChapterTypeLabel(); got != "UG" {
		t.Errorf("label = %q, want UG", got)
	}
}
