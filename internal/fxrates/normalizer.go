package fxrates

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fundburn/internal/model"
)

// Fetcher looks up one historical rate.
type Fetcher interface {
	FetchRate(ctx context.Context, date, currency string) (float64, error)
}

// Cache persists fetched rates across runs.
type Cache interface {
	LoadRates(pairs []Pair) (Rates, error)
	SaveRates(rates Rates) error
}

// ProgressFunc is called as lookups complete.
type ProgressFunc func(current, total int)

// Stats summarizes one Resolve call.
type Stats struct {
	Pairs   int // distinct non-USD pairs requested
	Cached  int
	Fetched int
	Failed  int
}

// Normalizer converts amounts to USD. Distinct pairs are resolved once,
// from the cache when possible and otherwise through a bounded pool of
// concurrent lookups.
type Normalizer struct {
	fetcher Fetcher
	cache   Cache
	workers int
	now     func() time.Time
}

// NewNormalizer creates a normalizer. cache may be nil.
func NewNormalizer(fetcher Fetcher, cache Cache, workers int) *Normalizer {
	if workers < 1 {
		workers = 10
	}
	return &Normalizer{
		fetcher: fetcher,
		cache:   cache,
		workers: workers,
		now:     time.Now,
	}
}

// SetClock overrides the source of "today" used for date clamping.
func (n *Normalizer) SetClock(now func() time.Time) {
	n.now = now
}

// PairFor builds the lookup key for an amount dated d. Dates after today are
// clamped to today since the service has no rates for them.
func (n *Normalizer) PairFor(d time.Time, currency string) Pair {
	date := model.FormatDate(d)
	if today := n.now().Format(model.DateLayout); date > today {
		date = today
	}
	return Pair{Date: date, Currency: currency}
}

// Resolve returns rates for every resolvable pair. Failed lookups are
// logged and left out of the result. Newly fetched rates are written to the
// cache before returning; USD is never looked up or cached.
func (n *Normalizer) Resolve(ctx context.Context, pairs []Pair, progressFn ProgressFunc) (Rates, Stats, error) {
	var stats Stats

	var todo []Pair
	seen := make(map[Pair]bool, len(pairs))
	for _, p := range pairs {
		if p.Currency == USD || p.Currency == "" || p.Date == "" || seen[p] {
			continue
		}
		seen[p] = true
		todo = append(todo, p)
	}
	sort.Slice(todo, func(i, j int) bool {
		if todo[i].Date != todo[j].Date {
			return todo[i].Date < todo[j].Date
		}
		return todo[i].Currency < todo[j].Currency
	})
	stats.Pairs = len(todo)

	rates := make(Rates, len(todo))
	if n.cache != nil && len(todo) > 0 {
		cached, err := n.cache.LoadRates(todo)
		if err != nil {
			return nil, stats, fmt.Errorf("loading cached rates: %w", err)
		}
		for p, v := range cached {
			rates[p] = v
		}
	}

	var misses []Pair
	for _, p := range todo {
		if _, ok := rates[p]; !ok {
			misses = append(misses, p)
		}
	}
	stats.Cached = len(todo) - len(misses)

	if len(misses) == 0 {
		return rates, stats, nil
	}

	fetched := n.fetchAll(ctx, misses, progressFn)
	for p, v := range fetched {
		rates[p] = v
	}
	stats.Fetched = len(fetched)
	stats.Failed = len(misses) - len(fetched)

	if n.cache != nil && len(fetched) > 0 {
		if err := n.cache.SaveRates(fetched); err != nil {
			log.Printf("fxrates: saving %d rates to cache: %v", len(fetched), err)
		}
	}

	return rates, stats, nil
}

// fetchAll looks up each pair exactly once with a bounded worker pool.
func (n *Normalizer) fetchAll(ctx context.Context, pairs []Pair, progressFn ProgressFunc) Rates {
	numWorkers := n.workers
	if numWorkers > len(pairs) {
		numWorkers = len(pairs)
	}

	type result struct {
		rate float64
		ok   bool
	}

	work := make(chan int, len(pairs))
	results := make([]result, len(pairs))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range pairs {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				p := pairs[idx]
				rate, err := n.fetcher.FetchRate(ctx, p.Date, p.Currency)
				if err != nil {
					log.Printf("fxrates: no rate for %s on %s: %v", p.Currency, p.Date, err)
				} else {
					results[idx] = result{rate: rate, ok: true}
				}
				c := processed.Add(1)
				if progressFn != nil {
					progressFn(int(c), len(pairs))
				}
			}
		}()
	}
	wg.Wait()

	out := make(Rates, len(pairs))
	for i, r := range results {
		if r.ok {
			out[pairs[i]] = r.rate
		}
	}
	return out
}

// Convert returns amount in USD using rates. The result is absent when the
// amount is absent or the rate lookup failed. USD amounts pass through.
func Convert(amount decimal.NullDecimal, p Pair, rates Rates) decimal.NullDecimal {
	if !amount.Valid {
		return decimal.NullDecimal{}
	}
	if p.Currency == USD {
		return amount
	}
	rate, ok := rates.Lookup(p)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: amount.Decimal.Mul(decimal.NewFromFloat(rate)), Valid: true}
}

// NormalizePayments returns a copy of payments with USDAmount filled in,
// keyed on each payment's date.
func (n *Normalizer) NormalizePayments(ctx context.Context, payments []model.Payment, progressFn ProgressFunc) ([]model.Payment, Stats, error) {
	pairs := make([]Pair, len(payments))
	for i, p := range payments {
		pairs[i] = n.PairFor(p.Date, p.OriginalCurrency)
	}
	rates, stats, err := n.Resolve(ctx, pairs, progressFn)
	if err != nil {
		return nil, stats, err
	}

	out := make([]model.Payment, len(payments))
	for i, p := range payments {
		p.USDAmount = Convert(p.OriginalAmount, pairs[i], rates)
		out[i] = p
	}
	return out, stats, nil
}

// NormalizePledges returns a copy of pledges with USDContributionAmount
// filled in, keyed on each pledge's start date.
func (n *Normalizer) NormalizePledges(ctx context.Context, pledges []model.Pledge, progressFn ProgressFunc) ([]model.Pledge, Stats, error) {
	pairs := make([]Pair, len(pledges))
	for i, p := range pledges {
		pairs[i] = n.PairFor(p.StartsAt, p.Currency)
	}
	rates, stats, err := n.Resolve(ctx, pairs, progressFn)
	if err != nil {
		return nil, stats, err
	}

	out := make([]model.Pledge, len(pledges))
	for i, p := range pledges {
		p.USDContributionAmount = Convert(p.OriginalContributionAmount, pairs[i], rates)
		out[i] = p
	}
	return out, stats, nil
}
