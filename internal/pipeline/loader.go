// Package pipeline loads, normalizes and reconciles payment and pledge records.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/theirongolddev/fundburn/internal/config"
	"github.com/theirongolddev/fundburn/internal/fxrates"
	"github.com/theirongolddev/fundburn/internal/model"
	"github.com/theirongolddev/fundburn/internal/source"
	"github.com/theirongolddev/fundburn/internal/store"
)

// ErrNoInput indicates an input file is missing.
var ErrNoInput = errors.New("pipeline: input file not found")

// Stage names the step a progress callback refers to.
type Stage string

const (
	StagePaymentRates Stage = "payment rates"
	StagePledgeRates  Stage = "pledge rates"
)

// ProgressFunc is called during loading to report progress.
// current is the number of lookups completed so far, total is the total count.
type ProgressFunc func(stage Stage, current, total int)

// Options configures a Loader.
type Options struct {
	Paths    config.DataPaths
	Cache    *store.Cache // nil disables snapshot and rate caching
	Fetcher  fxrates.Fetcher
	Workers  int
	NoCache  bool // ignore existing snapshots and rebuild them
	Progress ProgressFunc
}

// EntityStats describes how one table was produced.
type EntityStats struct {
	Records     int
	ParseErrors int
	FromCache   bool
	Stale       bool // snapshot predates the current input file
	Rates       fxrates.Stats
}

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Payments []model.Payment
	Pledges  []model.Pledge // reconciled
	Rows     []model.Row    // payments/pledges outer join

	PaymentStats   EntityStats
	PledgeStats    EntityStats
	Reconciliation ReconcileStats
}

// Loader produces normalized tables from the configured inputs.
type Loader struct {
	opts Options
	norm *fxrates.Normalizer
}

// New creates a loader.
func New(opts Options) *Loader {
	var cache fxrates.Cache
	if opts.Cache != nil {
		cache = opts.Cache
	}
	return &Loader{
		opts: opts,
		norm: fxrates.NewNormalizer(opts.Fetcher, cache, opts.Workers),
	}
}

// Normalizer exposes the currency normalizer, mainly so tests can pin its clock.
func (l *Loader) Normalizer() *fxrates.Normalizer {
	return l.norm
}

// Load runs the full pipeline: both tables, reconciliation and the merge.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	payments, pstats, err := l.LoadPayments(ctx)
	if err != nil {
		return nil, err
	}
	normalized, lstats, err := l.loadNormalizedPledges(ctx)
	if err != nil {
		return nil, err
	}

	pledges, rstats := Reconcile(normalized, payments)
	return &LoadResult{
		Payments:       payments,
		Pledges:        pledges,
		Rows:           Merge(payments, pledges),
		PaymentStats:   pstats,
		PledgeStats:    lstats,
		Reconciliation: rstats,
	}, nil
}

// LoadPayments returns the normalized payment table.
func (l *Loader) LoadPayments(ctx context.Context) ([]model.Payment, EntityStats, error) {
	var stats EntityStats
	fp, statErr := statInput(l.opts.Paths.Payments)

	if cached, ok, stale, err := l.cachedSnapshot(store.EntityPayments, fp, statErr == nil); err != nil {
		return nil, stats, err
	} else if ok {
		payments, err := l.opts.Cache.LoadPayments()
		if err != nil {
			return nil, stats, fmt.Errorf("loading cached payments: %w", err)
		}
		stats.Records = cached
		stats.FromCache = true
		stats.Stale = stale
		return payments, stats, nil
	}

	if statErr != nil {
		return nil, stats, statErr
	}
	res, err := source.ParsePaymentsFile(fp.Path)
	if err != nil {
		return nil, stats, err
	}
	stats.ParseErrors = res.ParseErrors

	payments, rstats, err := l.norm.NormalizePayments(ctx, res.Payments, l.progress(StagePaymentRates))
	if err != nil {
		return nil, stats, fmt.Errorf("normalizing payments: %w", err)
	}
	stats.Records = len(payments)
	stats.Rates = rstats

	if l.opts.Cache != nil {
		if err := l.opts.Cache.SavePayments(fp, payments); err != nil {
			log.Printf("pipeline: caching payments: %v", err)
		}
	}
	return payments, stats, nil
}

// LoadPledges returns the reconciled pledge table.
func (l *Loader) LoadPledges(ctx context.Context) ([]model.Pledge, error) {
	payments, _, err := l.LoadPayments(ctx)
	if err != nil {
		return nil, err
	}
	normalized, _, err := l.loadNormalizedPledges(ctx)
	if err != nil {
		return nil, err
	}
	pledges, _ := Reconcile(normalized, payments)
	return pledges, nil
}

// LoadMerged returns the outer join of payments and reconciled pledges.
func (l *Loader) LoadMerged(ctx context.Context) ([]model.Row, error) {
	res, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// loadNormalizedPledges returns pledges with USD amounts, before reconciliation.
func (l *Loader) loadNormalizedPledges(ctx context.Context) ([]model.Pledge, EntityStats, error) {
	var stats EntityStats
	fp, statErr := statInput(l.opts.Paths.Pledges)

	if cached, ok, stale, err := l.cachedSnapshot(store.EntityPledges, fp, statErr == nil); err != nil {
		return nil, stats, err
	} else if ok {
		pledges, err := l.opts.Cache.LoadPledges()
		if err != nil {
			return nil, stats, fmt.Errorf("loading cached pledges: %w", err)
		}
		stats.Records = cached
		stats.FromCache = true
		stats.Stale = stale
		return pledges, stats, nil
	}

	if statErr != nil {
		return nil, stats, statErr
	}
	res, err := source.ParsePledgesFile(fp.Path)
	if err != nil {
		return nil, stats, err
	}
	stats.ParseErrors = res.ParseErrors

	pledges, rstats, err := l.norm.NormalizePledges(ctx, res.Pledges, l.progress(StagePledgeRates))
	if err != nil {
		return nil, stats, fmt.Errorf("normalizing pledges: %w", err)
	}
	stats.Records = len(pledges)
	stats.Rates = rstats

	if l.opts.Cache != nil {
		if err := l.opts.Cache.SavePledges(fp, pledges); err != nil {
			log.Printf("pipeline: caching pledges: %v", err)
		}
	}
	return pledges, stats, nil
}

// cachedSnapshot reports whether a usable snapshot exists for entity. A
// snapshot is used whenever present, even if the input file is gone; stale is
// set when the input file exists and has changed since it was written.
func (l *Loader) cachedSnapshot(entity store.Entity, fp source.Fingerprint, haveInput bool) (rows int, ok, stale bool, err error) {
	if l.opts.Cache == nil || l.opts.NoCache {
		return 0, false, false, nil
	}
	snap, ok, err := l.opts.Cache.GetSnapshot(entity)
	if err != nil {
		return 0, false, false, fmt.Errorf("reading %s snapshot: %w", entity, err)
	}
	if !ok {
		return 0, false, false, nil
	}
	return snap.Rows, true, haveInput && !snap.Source.Matches(fp), nil
}

func (l *Loader) progress(stage Stage) fxrates.ProgressFunc {
	if l.opts.Progress == nil {
		return nil
	}
	return func(current, total int) {
		l.opts.Progress(stage, current, total)
	}
}

func statInput(path string) (source.Fingerprint, error) {
	if path == "" {
		return source.Fingerprint{}, fmt.Errorf("%w: no path configured", ErrNoInput)
	}
	fp, err := source.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return source.Fingerprint{}, fmt.Errorf("%w: %s", ErrNoInput, path)
		}
		return source.Fingerprint{}, err
	}
	return fp, nil
}
