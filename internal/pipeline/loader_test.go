package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/fundburn/internal/config"
	"github.com/theirongolddev/fundburn/internal/fxrates"
	"github.com/theirongolddev/fundburn/internal/store"
)

const paymentsJSON = `[
	{"id": 1, "donor_id": "D1", "pledge_id": "P1", "date": "2023-07-01", "amount": 500,
	 "currency": "USD", "payment_platform": "Stripe", "portfolio": "Top Charities", "counterfactuality": 0.5},
	{"id": 2, "donor_id": "D1", "pledge_id": "P1", "date": "2023-08-01", "amount": 100,
	 "currency": "GBP", "payment_platform": "Stripe", "portfolio": "Top Charities", "counterfactuality": 0.5},
	{"id": 3, "donor_id": "D2", "pledge_id": "P2", "date": "2023-08-01", "amount": 100,
	 "currency": "GBP", "payment_platform": "", "portfolio": "One for the World Operating Costs"}
]`

const pledgesJSON = `[
	{"pledge_id": "P1", "donor_id": "D1", "donor_chapter": "Harvard", "chapter_type": "UG",
	 "pledge_created_at": "2023-06-01", "pledge_starts_at": "2023-07-01", "pledge_ended_at": "",
	 "pledge_status": "Active donor", "frequency": "Monthly", "contribution_amount": 100, "currency": "USD"},
	{"pledge_id": "P2", "donor_id": "D2", "donor_chapter": "Yale", "chapter_type": "",
	 "pledge_created_at": "2023-06-01", "pledge_starts_at": "2023-07-01", "pledge_ended_at": "",
	 "pledge_status": "Updated", "frequency": "Quarterly", "contribution_amount": 50, "currency": "GBP"},
	{"pledge_id": "P3", "donor_id": "D3", "pledge_created_at": "2023-06-01", "pledge_starts_at": "2023-06-15",
	 "pledge_status": "Churned donor", "frequency": "Monthly", "contribution_amount": 10, "currency": "USD"}
]`

type fixture struct {
	paths    config.DataPaths
	cache    *store.Cache
	requests *atomic.Int64
	fetcher  fxrates.Fetcher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	paths := config.DataPaths{
		Payments: filepath.Join(dir, "payments.json"),
		Pledges:  filepath.Join(dir, "pledges.json"),
	}
	if err := os.WriteFile(paths.Payments, []byte(paymentsJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.Pledges, []byte(pledgesJSON), 0o600); err != nil {
		t.Fatal(err)
	}

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`{"rates":{"USD":1.25}}`))
	}))
	t.Cleanup(srv.Close)

	cache, err := store.Open(filepath.Join(dir, "cache", "fundburn.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	return fixture{
		paths:    paths,
		cache:    cache,
		requests: &requests,
		fetcher:  fxrates.NewClient(srv.URL, time.Second),
	}
}

func (f fixture) loader(noCache bool) *Loader {
	return New(Options{Paths: f.paths, Cache: f.cache, Fetcher: f.fetcher, Workers: 4, NoCache: noCache})
}

func TestLoad_EndToEnd(t *testing.T) {
	f := newFixture(t)
	res, err := f.loader(false).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(res.Payments) != 3 {
		t.Fatalf("len(Payments) = %d, want 3", len(res.Payments))
	}
	if got := res.Payments[1].USDAmount.Decimal.String(); got != "125" {
		t.Errorf("GBP payment USD = %s, want 125", got)
	}

	byID := ids(res.Pledges)
	if _, ok := byID["P3"]; ok {
		t.Error("churned pledge without end date should be dropped")
	}
	p2, ok := byID["P2"]
	if !ok {
		t.Fatal("Updated pledge with payments should be kept")
	}
	if want := mustDate(t, "2023-08-01"); !p2.EndedAt.Equal(want) {
		t.Errorf("P2 EndedAt = %v, want %v", p2.EndedAt, want)
	}
	if got := p2.USDContributionAmount.Decimal.String(); got != "62.5" {
		t.Errorf("P2 USD contribution = %s, want 62.5", got)
	}

	if len(res.Rows) != 3 {
		t.Errorf("len(Rows) = %d, want 3 (every payment matched a kept pledge)", len(res.Rows))
	}
	if res.PaymentStats.FromCache || res.PledgeStats.FromCache {
		t.Error("first load should not come from cache")
	}
	if f.requests.Load() != 2 {
		t.Errorf("rate requests = %d, want 2 (GBP on two dates)", f.requests.Load())
	}
}

func TestLoad_WarmCacheIsIdempotentAndOffline(t *testing.T) {
	f := newFixture(t)
	first, err := f.loader(false).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	cold := f.requests.Load()

	second, err := f.loader(false).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	third, err := f.loader(false).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if f.requests.Load() != cold {
		t.Errorf("warm loads made %d extra rate requests, want 0", f.requests.Load()-cold)
	}
	if !second.PaymentStats.FromCache || !second.PledgeStats.FromCache {
		t.Error("second load should come from the snapshot cache")
	}
	d1 := Digest(first.Payments, first.Pledges)
	d2 := Digest(second.Payments, second.Pledges)
	d3 := Digest(third.Payments, third.Pledges)
	if d1 != d2 || d2 != d3 {
		t.Errorf("digests differ across loads: %s %s %s", d1, d2, d3)
	}
}

func TestLoad_NoCacheRebuildsFromRateCache(t *testing.T) {
	f := newFixture(t)
	if _, err := f.loader(false).Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	cold := f.requests.Load()

	res, err := f.loader(true).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.PaymentStats.FromCache {
		t.Error("NoCache load should re-normalize")
	}
	if res.PaymentStats.Rates.Cached != 1 {
		t.Errorf("cached rates used = %d, want 1", res.PaymentStats.Rates.Cached)
	}
	if f.requests.Load() != cold {
		t.Error("rebuild should reuse cached rates without network lookups")
	}
}

func TestLoad_SnapshotSurvivesMissingInput(t *testing.T) {
	f := newFixture(t)
	if _, err := f.loader(false).Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(f.paths.Payments); err != nil {
		t.Fatal(err)
	}
	res, err := f.loader(false).Load(context.Background())
	if err != nil {
		t.Fatalf("Load with snapshot and no input: %v", err)
	}
	if len(res.Payments) != 3 {
		t.Errorf("len(Payments) = %d, want 3 from snapshot", len(res.Payments))
	}
}

func TestLoad_MissingInputWithoutCache(t *testing.T) {
	l := New(Options{Paths: config.DataPaths{
		Payments: filepath.Join(t.TempDir(), "nope.json"),
	}})
	_, err := l.Load(context.Background())
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("err = %v, want ErrNoInput", err)
	}
}

func TestLoad_StaleSnapshotIsFlagged(t *testing.T) {
	f := newFixture(t)
	if _, err := f.loader(false).Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.paths.Pledges, []byte(pledgesJSON+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := f.loader(false).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res.PledgeStats.Stale {
		t.Error("pledge snapshot should be flagged stale after the input changed")
	}
	if res.PaymentStats.Stale {
		t.Error("payment snapshot should not be stale")
	}
}
