package db

import (
	"testing"
	"time"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func sampleRun() Run {
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return Run{
		Keywords:        "engineering manager",
		GeoID:           "90009496",
		StartedAt:       started,
		FinishedAt:      started.Add(4 * time.Minute),
		PagesFetched:    7,
		NewListings:     42,
		SkippedExisting: 11,
		PromotedSkipped: 5,
		Enriched:        40,
		EnrichFailed:    2,
		RateLimited:     true,
		FinalMode:       "sequential-fallback",
		OutputFile:      "linkedin_jobs.json",
	}
}

func TestInsertRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	id, err := db.InsertRun(sampleRun())
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if id == 0 {
		t.Error("InsertRun() returned 0 ID")
	}

	var keywords, mode string
	var rateLimited bool
	err = db.QueryRow(`
		SELECT keywords, final_mode, rate_limited FROM runs WHERE run_id = ?
	`, id).Scan(&keywords, &mode, &rateLimited)
	if err != nil {
		t.Fatalf("failed to query run: %v", err)
	}
	if keywords != "engineering manager" {
		t.Errorf("keywords = %q, want %q", keywords, "engineering manager")
	}
	if mode != "sequential-fallback" {
		t.Errorf("final_mode = %q, want %q", mode, "sequential-fallback")
	}
	if !rateLimited {
		t.Error("rate_limited = false, want true")
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first := sampleRun()
	second := sampleRun()
	second.Keywords = "platform lead"

	if _, err := db.InsertRun(first); err != nil {
		t.Fatal(err)
	}
	if _, err := db.InsertRun(second); err != nil {
		t.Fatal(err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRuns() returned %d runs, want 2", len(runs))
	}
	if runs[0].Keywords != "platform lead" {
		t.Errorf("runs[0].Keywords = %q, want newest first", runs[0].Keywords)
	}
	if !runs[0].StartedAt.Equal(second.StartedAt) {
		t.Errorf("runs[0].StartedAt = %v, want %v", runs[0].StartedAt, second.StartedAt)
	}
}

func TestCountRateLimitedRuns(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	throttled := sampleRun()
	clean := sampleRun()
	clean.RateLimited = false
	clean.FinalMode = "parallel"

	for _, r := range []Run{throttled, clean, throttled} {
		if _, err := db.InsertRun(r); err != nil {
			t.Fatal(err)
		}
	}

	n, err := db.CountRateLimitedRuns("engineering manager")
	if err != nil {
		t.Fatalf("CountRateLimitedRuns() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CountRateLimitedRuns() = %d, want 2", n)
	}

	n, err = db.CountRateLimitedRuns("unknown")
	if err != nil {
		t.Fatalf("CountRateLimitedRuns() error = %v", err)
	}
	if n != 0 {
		t.Errorf("CountRateLimitedRuns(unknown) = %d, want 0", n)
	}
}
