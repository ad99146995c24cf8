package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- runs: one row per scrape session
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    keywords TEXT NOT NULL,
    geo_id TEXT,
    location TEXT,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL,

    pages_fetched INTEGER NOT NULL DEFAULT 0,
    new_listings INTEGER NOT NULL DEFAULT 0,
    skipped_existing INTEGER NOT NULL DEFAULT 0,
    promoted_skipped INTEGER NOT NULL DEFAULT 0,
    enriched INTEGER NOT NULL DEFAULT 0,
    enrich_failed INTEGER NOT NULL DEFAULT 0,

    rate_limited BOOLEAN NOT NULL DEFAULT 0,
    final_mode TEXT NOT NULL DEFAULT 'parallel',
    output_file TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_keywords ON runs(keywords);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
`
