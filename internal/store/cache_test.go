package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fundburn/internal/fxrates"
	"github.com/theirongolddev/fundburn/internal/model"
	"github.com/theirongolddev/fundburn/internal/source"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "fundburn.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func dec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestRates_SaveLoadSkipsUSD(t *testing.T) {
	c := openTemp(t)
	gbp := fxrates.Pair{Date: "2023-07-01", Currency: "GBP"}
	eur := fxrates.Pair{Date: "2023-07-01", Currency: "EUR"}
	usd := fxrates.Pair{Date: "2023-07-01", Currency: fxrates.USD}

	if err := c.SaveRates(fxrates.Rates{gbp: 1.27, eur: 1.09, usd: 1}); err != nil {
		t.Fatalf("SaveRates: %v", err)
	}
	n, err := c.RateCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("RateCount = %d, want 2 (USD never cached)", n)
	}

	got, err := c.LoadRates([]fxrates.Pair{gbp})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[gbp] != 1.27 {
		t.Errorf("LoadRates = %v, want only GBP 1.27", got)
	}
}

func TestPayments_RoundTripPreservesOrderAndNulls(t *testing.T) {
	c := openTemp(t)
	cf := 0.25
	in := []model.Payment{
		{PaymentID: "b", DonorID: "D1", PledgeID: "P1", Date: time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC),
			OriginalAmount: dec("300"), OriginalCurrency: "GBP", USDAmount: dec("381.3"),
			PaymentPlatform: "Stripe", Portfolio: "Top Charities", Counterfactuality: &cf},
		{PaymentID: "a", DonorID: "D2", Date: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
			OriginalAmount: dec("10"), OriginalCurrency: "ZZZ"},
	}
	src := source.Fingerprint{Path: "/tmp/payments.json", Size: 123, ModTime: 456}
	if err := c.SavePayments(src, in); err != nil {
		t.Fatalf("SavePayments: %v", err)
	}

	out, err := c.LoadPayments()
	if err != nil {
		t.Fatalf("LoadPayments: %v", err)
	}
	if len(out) != 2 || out[0].PaymentID != "b" || out[1].PaymentID != "a" {
		t.Fatalf("order not preserved: %+v", out)
	}
	if !out[0].USDAmount.Decimal.Equal(decimal.RequireFromString("381.3")) {
		t.Errorf("USDAmount = %v, want 381.3", out[0].USDAmount)
	}
	if out[0].Counterfactuality == nil || *out[0].Counterfactuality != 0.25 {
		t.Errorf("Counterfactuality = %v, want 0.25", out[0].Counterfactuality)
	}
	if out[1].USDAmount.Valid {
		t.Error("absent USD amount should round-trip as absent")
	}
	if out[1].PledgeID != "" || out[1].Counterfactuality != nil {
		t.Errorf("nullable fields = %q/%v, want empty/nil", out[1].PledgeID, out[1].Counterfactuality)
	}

	snap, ok, err := c.GetSnapshot(EntityPayments)
	if err != nil || !ok {
		t.Fatalf("GetSnapshot = %v,%v", ok, err)
	}
	if snap.Rows != 2 || !snap.Source.Matches(src) || snap.RunID == "" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestPledges_RoundTrip(t *testing.T) {
	c := openTemp(t)
	in := []model.Pledge{{
		PledgeID: "P1", DonorID: "D1", DonorChapter: "Harvard", ChapterType: "",
		CreatedAt: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		StartsAt:  time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
		Status:    model.StatusPledged, Frequency: model.FrequencyMonthly,
		OriginalContributionAmount: dec("100"), Currency: "USD", USDContributionAmount: dec("100"),
	}}
	if err := c.SavePledges(source.Fingerprint{Path: "p.json"}, in); err != nil {
		t.Fatal(err)
	}
	out, err := c.LoadPledges()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	p := out[0]
	if !p.EndedAt.IsZero() {
		t.Errorf("EndedAt = %v, want open", p.EndedAt)
	}
	if p.Status != model.StatusPledged || p.Frequency != model.FrequencyMonthly {
		t.Errorf("enums = %q/%q", p.Status, p.Frequency)
	}
	if !p.StartsAt.Equal(in[0].StartsAt) {
		t.Errorf("StartsAt = %v, want %v", p.StartsAt, in[0].StartsAt)
	}
}

func TestClearSnapshots_KeepsRates(t *testing.T) {
	c := openTemp(t)
	if err := c.SaveRates(fxrates.Rates{{Date: "2023-01-01", Currency: "EUR"}: 1.1}); err != nil {
		t.Fatal(err)
	}
	if err := c.SavePledges(source.Fingerprint{}, []model.Pledge{{PledgeID: "P1"}}); err != nil {
		t.Fatal(err)
	}
	if err := c.ClearSnapshots(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.GetSnapshot(EntityPledges); ok {
		t.Error("pledge snapshot should be gone")
	}
	if n, _ := c.RateCount(); n != 1 {
		t.Errorf("RateCount = %d, want 1", n)
	}
	if err := c.ClearRates(); err != nil {
		t.Fatal(err)
	}
	if n, _ := c.RateCount(); n != 0 {
		t.Errorf("RateCount after ClearRates = %d, want 0", n)
	}
}
