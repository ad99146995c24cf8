package scraper

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/joaovl/advanced-job-scraper/models"
	"github.com/joaovl/advanced-job-scraper/pkg/detail"
	"github.com/joaovl/advanced-job-scraper/pkg/fetcher"
)

// enrichBatchSize keeps parallel bursts small; the source tolerates short
// bursts better than sustained pressure.
const enrichBatchSize = 5

// EnrichStats summarizes one enrichment pass.
type EnrichStats struct {
	Attempted   int
	Enriched    int
	Failed      int
	RateLimited bool
	FinalMode   Mode
}

// Enricher fills in descriptions for pending listings. It starts with a
// bounded worker pool on the primary channel and degrades, once and for the
// rest of the session, to sequential fetching through the fallback channel
// when any worker observes a rate-limit signal.
type Enricher struct {
	Primary  detail.Fetcher
	Fallback detail.Fetcher
	Workers  int
	Switch   *ModeSwitch
	Logger   *slog.Logger

	// Cooldown is the wait after observing a rate-limit signal, before
	// retrying the current item via the fallback.
	Cooldown time.Duration
	// BatchPause separates parallel batches.
	BatchPause time.Duration
}

// NewEnricher wires an enricher with the default conservative pacing.
func NewEnricher(primary, fallback detail.Fetcher, workers int, logger *slog.Logger) *Enricher {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		Primary:    primary,
		Fallback:   fallback,
		Workers:    workers,
		Switch:     &ModeSwitch{},
		Logger:     logger,
		Cooldown:   90 * time.Second,
		BatchPause: 5 * time.Second,
	}
}

// Run enriches every pending listing in place. Individual failures mark the
// listing Failed and never abort the pass. The worker pool is fully drained
// before Run returns.
func (e *Enricher) Run(ctx context.Context, jobs []models.JobListing) (EnrichStats, error) {
	var pending []int
	for i := range jobs {
		if jobs[i].NeedsDescription() {
			pending = append(pending, i)
		}
	}

	stats := EnrichStats{Attempted: len(pending)}
	if len(pending) == 0 {
		stats.FinalMode = e.Switch.Mode()
		return stats, nil
	}

	e.Logger.Info("starting enrichment", "pending", len(pending), "workers", e.Workers)

	for batchStart := 0; batchStart < len(pending); batchStart += enrichBatchSize {
		if err := ctx.Err(); err != nil {
			return e.finish(jobs, stats), err
		}

		if e.Switch.Sequential() {
			// Everything still queued drains one at a time through the
			// fallback; the pool is not restarted for this session.
			e.Logger.Info("draining remaining listings sequentially", "remaining", len(pending)-batchStart)
			for _, idx := range pending[batchStart:] {
				if err := ctx.Err(); err != nil {
					return e.finish(jobs, stats), err
				}
				e.enrichViaFallback(ctx, &jobs[idx])
			}
			break
		}

		end := batchStart + enrichBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		e.runBatch(ctx, jobs, pending[batchStart:end])

		if end < len(pending) && !e.Switch.Sequential() {
			if err := sleep(ctx, e.BatchPause); err != nil {
				return e.finish(jobs, stats), err
			}
		}
	}

	final := e.finish(jobs, stats)
	e.Logger.Info("enrichment finished",
		"enriched", final.Enriched,
		"failed", final.Failed,
		"mode", final.FinalMode.String())
	return final, nil
}

// runBatch pushes one batch through the worker pool. Workers write to
// disjoint indexes, so no listing-level locking is needed.
func (e *Enricher) runBatch(ctx context.Context, jobs []models.JobListing, batch []int) {
	work := make(chan int, len(batch))
	var wg sync.WaitGroup

	workers := e.Workers
	if workers > len(batch) {
		workers = len(batch)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				e.enrichOne(ctx, &jobs[idx])
			}
		}()
	}

	for _, idx := range batch {
		work <- idx
	}
	close(work)
	wg.Wait()
}

// enrichOne tries the primary channel first. A rate-limit signal trips the
// session switch (idempotently), waits out the cooldown, and retries this
// item through the fallback. Workers that raced into the primary after the
// switch flipped take the same path.
func (e *Enricher) enrichOne(ctx context.Context, job *models.JobListing) {
	if e.Switch.Sequential() {
		e.enrichViaFallback(ctx, job)
		return
	}

	desc, err := e.Primary.FetchDescription(ctx, *job)
	if err == nil {
		job.SetDescription(desc)
		return
	}

	if errors.Is(err, fetcher.ErrRateLimited) {
		if e.Switch.TripSequential() {
			e.Logger.Warn("rate limited, switching to sequential fallback for the rest of the session",
				"cooldown", e.Cooldown)
		}
		if sleepErr := sleep(ctx, e.Cooldown); sleepErr != nil {
			job.MarkFailed()
			return
		}
		e.enrichViaFallback(ctx, job)
		return
	}

	if ctx.Err() != nil {
		return
	}

	e.Logger.Debug("enrichment failed", "url", job.URL, "error", err)
	job.MarkFailed()
}

func (e *Enricher) enrichViaFallback(ctx context.Context, job *models.JobListing) {
	desc, err := e.Fallback.FetchDescription(ctx, *job)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		e.Logger.Debug("fallback enrichment failed", "url", job.URL, "error", err)
		job.MarkFailed()
		return
	}
	job.SetDescription(desc)
}

// finish computes final stats from the listing states.
func (e *Enricher) finish(jobs []models.JobListing, stats EnrichStats) EnrichStats {
	for i := range jobs {
		switch jobs[i].Enrichment {
		case models.EnrichmentEnriched:
			stats.Enriched++
		case models.EnrichmentFailed:
			stats.Failed++
		}
	}
	stats.RateLimited = e.Switch.Sequential()
	stats.FinalMode = e.Switch.Mode()
	return stats
}
