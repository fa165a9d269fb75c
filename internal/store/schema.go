package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS exchange_rates (
    rate_date            TEXT NOT NULL,
    currency             TEXT NOT NULL,
    usd_rate             REAL NOT NULL,
    fetched_at           TEXT NOT NULL,
    PRIMARY KEY (rate_date, currency)
);

CREATE TABLE IF NOT EXISTS snapshots (
    entity               TEXT PRIMARY KEY,
    run_id               TEXT NOT NULL,
    source_path          TEXT NOT NULL,
    source_size          INTEGER NOT NULL,
    source_mtime_ns      INTEGER NOT NULL,
    row_count            INTEGER NOT NULL,
    loaded_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
    seq                  INTEGER PRIMARY KEY,
    payment_id           TEXT NOT NULL,
    donor_id             TEXT,
    pledge_id            TEXT,
    payment_date         TEXT,
    original_amount      TEXT,
    original_currency    TEXT,
    usd_amount           TEXT,
    payment_platform     TEXT,
    portfolio            TEXT,
    counterfactuality    REAL
);

CREATE TABLE IF NOT EXISTS pledges (
    seq                  INTEGER PRIMARY KEY,
    pledge_id            TEXT NOT NULL,
    donor_id             TEXT,
    donor_chapter        TEXT,
    chapter_type         TEXT,
    payment_platform     TEXT,
    created_at           TEXT,
    starts_at            TEXT,
    ended_at             TEXT,
    pledge_status        TEXT,
    frequency            TEXT,
    original_amount      TEXT,
    currency             TEXT,
    usd_amount           TEXT
);

CREATE INDEX IF NOT EXISTS idx_payments_pledge ON payments(pledge_id);
`
