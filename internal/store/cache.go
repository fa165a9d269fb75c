// Package store provides a SQLite-backed cache for exchange rates and
// normalized record snapshots.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fundburn/internal/fxrates"
	"github.com/theirongolddev/fundburn/internal/model"
	"github.com/theirongolddev/fundburn/internal/source"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Entity names a cached record table.
type Entity string

const (
	EntityPayments Entity = "payments"
	EntityPledges  Entity = "pledges"
)

// Cache provides SQLite-backed rate and snapshot caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// LoadRates returns the cached rates for the requested pairs.
func (c *Cache) LoadRates(pairs []fxrates.Pair) (fxrates.Rates, error) {
	want := make(map[fxrates.Pair]bool, len(pairs))
	for _, p := range pairs {
		want[p] = true
	}

	rows, err := c.db.Query("SELECT rate_date, currency, usd_rate FROM exchange_rates")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(fxrates.Rates)
	for rows.Next() {
		var p fxrates.Pair
		var rate float64
		if err := rows.Scan(&p.Date, &p.Currency, &rate); err != nil {
			return nil, err
		}
		if want[p] {
			out[p] = rate
		}
	}
	return out, rows.Err()
}

// SaveRates stores fetched rates.
func (c *Cache) SaveRates(rates fxrates.Rates) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO exchange_rates
		(rate_date, currency, usd_rate, fetched_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for p, rate := range rates {
		if p.Currency == fxrates.USD {
			continue
		}
		if _, err := stmt.Exec(p.Date, p.Currency, rate, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RateCount returns the number of cached rates.
func (c *Cache) RateCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM exchange_rates").Scan(&count)
	return count, err
}

// Snapshot describes one cached normalized table.
type Snapshot struct {
	Entity   Entity
	RunID    string
	Source   source.Fingerprint
	Rows     int
	LoadedAt time.Time
}

// GetSnapshot returns the snapshot metadata for entity, if present.
func (c *Cache) GetSnapshot(entity Entity) (Snapshot, bool, error) {
	var s Snapshot
	var loadedAt string
	err := c.db.QueryRow(`SELECT entity, run_id, source_path, source_size, source_mtime_ns, row_count, loaded_at
		FROM snapshots WHERE entity = ?`, string(entity)).Scan(
		&s.Entity, &s.RunID, &s.Source.Path, &s.Source.Size, &s.Source.ModTime, &s.Rows, &loadedAt,
	)
	if err == sql.ErrNoRows {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	s.LoadedAt, _ = time.Parse(time.RFC3339, loadedAt)
	return s, true, nil
}

func putSnapshot(tx *sql.Tx, entity Entity, src source.Fingerprint, rows int) error {
	_, err := tx.Exec(`INSERT OR REPLACE INTO snapshots
		(entity, run_id, source_path, source_size, source_mtime_ns, row_count, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(entity), uuid.NewString(), src.Path, src.Size, src.ModTime, rows,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// SavePayments replaces the cached payment table.
func (c *Cache) SavePayments(src source.Fingerprint, payments []model.Payment) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM payments"); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO payments
		(seq, payment_id, donor_id, pledge_id, payment_date, original_amount, original_currency,
		 usd_amount, payment_platform, portfolio, counterfactuality)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, p := range payments {
		var cf sql.NullFloat64
		if p.Counterfactuality != nil {
			cf = sql.NullFloat64{Float64: *p.Counterfactuality, Valid: true}
		}
		_, err := stmt.Exec(i, p.PaymentID, p.DonorID, p.PledgeID, model.FormatDate(p.Date),
			decimalText(p.OriginalAmount), p.OriginalCurrency, decimalText(p.USDAmount),
			p.PaymentPlatform, p.Portfolio, cf)
		if err != nil {
			return err
		}
	}

	if err := putSnapshot(tx, EntityPayments, src, len(payments)); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadPayments reads the cached payment table in its original order.
func (c *Cache) LoadPayments() ([]model.Payment, error) {
	rows, err := c.db.Query(`SELECT
		payment_id, donor_id, pledge_id, payment_date, original_amount, original_currency,
		usd_amount, payment_platform, portfolio, counterfactuality
		FROM payments ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		var donorID, pledgeID, date, amount, currency, usd, platform, portfolio sql.NullString
		var cf sql.NullFloat64

		if err := rows.Scan(&p.PaymentID, &donorID, &pledgeID, &date, &amount, &currency,
			&usd, &platform, &portfolio, &cf); err != nil {
			return nil, err
		}

		p.DonorID = donorID.String
		p.PledgeID = pledgeID.String
		p.OriginalCurrency = currency.String
		p.PaymentPlatform = platform.String
		p.Portfolio = portfolio.String
		if p.Date, err = model.ParseDate(date.String); err != nil {
			return nil, err
		}
		if p.OriginalAmount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		if p.USDAmount, err = parseDecimal(usd); err != nil {
			return nil, err
		}
		if cf.Valid {
			v := cf.Float64
			p.Counterfactuality = &v
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// SavePledges replaces the cached pledge table.
func (c *Cache) SavePledges(src source.Fingerprint, pledges []model.Pledge) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM pledges"); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO pledges
		(seq, pledge_id, donor_id, donor_chapter, chapter_type, payment_platform,
		 created_at, starts_at, ended_at, pledge_status, frequency,
		 original_amount, currency, usd_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, p := range pledges {
		_, err := stmt.Exec(i, p.PledgeID, p.DonorID, p.DonorChapter, p.ChapterType, p.PaymentPlatform,
			model.FormatDate(p.CreatedAt), model.FormatDate(p.StartsAt), model.FormatDate(p.EndedAt),
			string(p.Status), string(p.Frequency),
			decimalText(p.OriginalContributionAmount), p.Currency, decimalText(p.USDContributionAmount))
		if err != nil {
			return err
		}
	}

	if err := putSnapshot(tx, EntityPledges, src, len(pledges)); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadPledges reads the cached pledge table in its original order.
func (c *Cache) LoadPledges() ([]model.Pledge, error) {
	rows, err := c.db.Query(`SELECT
		pledge_id, donor_id, donor_chapter, chapter_type, payment_platform,
		created_at, starts_at, ended_at, pledge_status, frequency,
		original_amount, currency, usd_amount
		FROM pledges ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var pledges []model.Pledge
	for rows.Next() {
		var p model.Pledge
		var donorID, chapter, chapterType, platform, created, starts, ended sql.NullString
		var status, freq, amount, currency, usd sql.NullString

		if err := rows.Scan(&p.PledgeID, &donorID, &chapter, &chapterType, &platform,
			&created, &starts, &ended, &status, &freq, &amount, &currency, &usd); err != nil {
			return nil, err
		}

		p.DonorID = donorID.String
		p.DonorChapter = chapter.String
		p.ChapterType = chapterType.String
		p.PaymentPlatform = platform.String
		p.Status = model.PledgeStatus(status.String)
		p.Frequency = model.Frequency(freq.String)
		p.Currency = currency.String
		if p.CreatedAt, err = model.ParseDate(created.String); err != nil {
			return nil, err
		}
		if p.StartsAt, err = model.ParseDate(starts.String); err != nil {
			return nil, err
		}
		if p.EndedAt, err = model.ParseDate(ended.String); err != nil {
			return nil, err
		}
		if p.OriginalContributionAmount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		if p.USDContributionAmount, err = parseDecimal(usd); err != nil {
			return nil, err
		}
		pledges = append(pledges, p)
	}
	return pledges, rows.Err()
}

// ClearSnapshots drops the cached record tables, keeping the rates.
func (c *Cache) ClearSnapshots() error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{"DELETE FROM payments", "DELETE FROM pledges", "DELETE FROM snapshots"} {
		if _, err := tx.Exec(q); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ClearRates drops every cached exchange rate.
func (c *Cache) ClearRates() error {
	_, err := c.db.Exec("DELETE FROM exchange_rates")
	return err
}

func decimalText(d decimal.NullDecimal) sql.NullString {
	if !d.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Decimal.String(), Valid: true}
}

func parseDecimal(s sql.NullString) (decimal.NullDecimal, error) {
	if !s.Valid || s.String == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("parsing cached amount %q: %w", s.String, err)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}
