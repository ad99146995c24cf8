package db

import (
	"fmt"
	"time"
)

// Run is one recorded scrape session.
type Run struct {
	RunID           int64
	Keywords        string
	GeoID           string
	Location        string
	StartedAt       time.Time
	FinishedAt      time.Time
	PagesFetched    int
	NewListings     int
	SkippedExisting int
	PromotedSkipped int
	Enriched        int
	EnrichFailed    int
	RateLimited     bool
	FinalMode       string
	OutputFile      string
}

// InsertRun records a finished session and returns its ID.
func (db *DB) InsertRun(run Run) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO runs (
			keywords, geo_id, location, started_at, finished_at,
			pages_fetched, new_listings, skipped_existing, promoted_skipped,
			enriched, enrich_failed, rate_limited, final_mode, output_file
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Keywords, run.GeoID, run.Location,
		run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339),
		run.PagesFetched, run.NewListings, run.SkippedExisting, run.PromotedSkipped,
		run.Enriched, run.EnrichFailed, run.RateLimited, run.FinalMode, run.OutputFile,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return result.LastInsertId()
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT run_id, keywords, geo_id, location, started_at, finished_at,
		       pages_fetched, new_listings, skipped_existing, promoted_skipped,
		       enriched, enrich_failed, rate_limited, final_mode, output_file
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(
			&r.RunID, &r.Keywords, &r.GeoID, &r.Location, &started, &finished,
			&r.PagesFetched, &r.NewListings, &r.SkippedExisting, &r.PromotedSkipped,
			&r.Enriched, &r.EnrichFailed, &r.RateLimited, &r.FinalMode, &r.OutputFile,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// CountRateLimitedRuns reports how often the source throttled past sessions
// for the given keywords. Useful for tuning worker counts.
func (db *DB) CountRateLimitedRuns(keywords string) (int, error) {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM runs WHERE keywords = ? AND rate_limited = 1`, keywords).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count rate-limited runs: %w", err)
	}
	return n, nil
}
