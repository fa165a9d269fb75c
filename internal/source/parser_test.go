package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/fundburn/internal/model"
)

// writeJSON creates a temp JSON file and returns its path.
func writeJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParsePaymentsFile(t *testing.T) {
	path := writeJSON(t, `[
		{"id": 101, "donor_id": "D1", "pledge_id": "P1", "date": "2023-07-01",
		 "amount": 500, "currency": "USD", "payment_platform": "Stripe",
		 "portfolio": "Top Charities", "counterfactuality": 0.7},
		{"id": "102", "donor_id": "D2", "pledge_id": null, "date": "2023-07-15",
		 "amount": "300.50", "currency": "GBP", "payment_platform": "",
		 "portfolio": "", "counterfactuality": null}
	]`)

	res, err := ParsePaymentsFile(path)
	if err != nil {
		t.Fatalf("ParsePaymentsFile: %v", err)
	}
	if res.ParseErrors != 0 {
		t.Errorf("ParseErrors = %d, want 0", res.ParseErrors)
	}
	if len(res.Payments) != 2 {
		t.Fatalf("len(Payments) = %d, want 2", len(res.Payments))
	}

	p := res.Payments[0]
	if p.PaymentID != "101" {
		t.Errorf("PaymentID = %q, want 101", p.PaymentID)
	}
	if !p.OriginalAmount.Valid || p.OriginalAmount.Decimal.String() != "500" {
		t.Errorf("OriginalAmount = %v, want 500", p.OriginalAmount)
	}
	if p.Counterfactuality == nil || *p.Counterfactuality != 0.7 {
		t.Errorf("Counterfactuality = %v, want 0.7", p.Counterfactuality)
	}
	if want := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC); !p.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", p.Date, want)
	}
	if p.USDAmount.Valid {
		t.Error("USDAmount must stay absent until normalization")
	}

	q := res.Payments[1]
	if q.PledgeID != "" {
		t.Errorf("PledgeID = %q, want empty", q.PledgeID)
	}
	if q.OriginalAmount.Decimal.String() != "300.5" {
		t.Errorf("OriginalAmount = %s, want 300.5", q.OriginalAmount.Decimal)
	}
	if q.Counterfactuality != nil {
		t.Error("null counterfactuality should stay nil")
	}
}

func TestParsePledges_EmptyDatesAndUnknownEnums(t *testing.T) {
	res, err := ParsePledges(strings.NewReader(`[
		{"pledge_id": "P1", "donor_id": "D1", "donor_chapter": "Harvard", "chapter_type": "UG",
		 "pledge_created_at": "2023-06-01", "pledge_starts_at": "2023-07-01", "pledge_ended_at": "",
		 "pledge_status": "Active donor", "frequency": "Monthly", "contribution_amount": 100, "currency": "USD"},
		{"pledge_id": "P2", "donor_id": "D2", "pledge_created_at": "2023-06-01",
		 "pledge_starts_at": "2023-07-01", "pledge_status": "Paused", "frequency": "",
		 "contribution_amount": "", "currency": "EUR"}
	]`))
	if err != nil {
		t.Fatalf("ParsePledges: %v", err)
	}
	if len(res.Pledges) != 2 {
		t.Fatalf("len(Pledges) = %d, want 2", len(res.Pledges))
	}

	p := res.Pledges[0]
	if !p.EndedAt.IsZero() {
		t.Errorf("EndedAt = %v, want zero (open)", p.EndedAt)
	}
	if p.Status != model.StatusActive || p.Frequency != model.FrequencyMonthly {
		t.Errorf("Status/Frequency = %q/%q", p.Status, p.Frequency)
	}

	q := res.Pledges[1]
	if q.Status.Known() || string(q.Status) != "Paused" {
		t.Errorf("Status = %q, want unknown Paused kept verbatim", q.Status)
	}
	if q.OriginalContributionAmount.Valid {
		t.Error("empty contribution_amount should be absent")
	}
}

func TestParsePledges_SkipsMalformedRecords(t *testing.T) {
	res, err := ParsePledges(strings.NewReader(`[
		{"pledge_id": "P1", "pledge_starts_at": "not-a-date"},
		{"pledge_id": "P2", "pledge_starts_at": "2023-07-01"},
		{"pledge_id": {"nested": true}}
	]`))
	if err != nil {
		t.Fatalf("ParsePledges: %v", err)
	}
	if res.ParseErrors != 2 {
		t.Errorf("ParseErrors = %d, want 2", res.ParseErrors)
	}
	if len(res.Pledges) != 1 || res.Pledges[0].PledgeID != "P2" {
		t.Errorf("Pledges = %+v, want only P2", res.Pledges)
	}
}

func TestParsePayments_RejectsNonArray(t *testing.T) {
	if _, err := ParsePayments(strings.NewReader(`{"id": 1}`)); err == nil {
		t.Fatal("expected error for non-array input")
	}
}

func TestFlexString_FloatIDs(t *testing.T) {
	res, err := ParsePayments(strings.NewReader(`[{"id": 7.0, "pledge_id": 42.0, "date": "2024-01-02"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Payments[0]; got.PaymentID != "7" || got.PledgeID != "42" {
		t.Errorf("ids = %q/%q, want 7/42", got.PaymentID, got.PledgeID)
	}
}

func TestStatFingerprint(t *testing.T) {
	path := writeJSON(t, "[]")
	a, err := Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Matches(b) {
		t.Error("same file should match its own fingerprint")
	}
	if err := os.WriteFile(path, []byte("[  ]"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if a.Matches(c) {
		t.Error("rewritten file with a different size should not match")
	}
}
