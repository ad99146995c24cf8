// Package scrape orchestrates a full session: load the store, paginate each
// search, enrich what is new, then merge and persist.
package scrape

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/joaovl/advanced-job-scraper/models"
	"github.com/joaovl/advanced-job-scraper/pkg/dedupe"
	"github.com/joaovl/advanced-job-scraper/pkg/detail"
	"github.com/joaovl/advanced-job-scraper/pkg/extractor"
	"github.com/joaovl/advanced-job-scraper/pkg/relativedate"
	"github.com/joaovl/advanced-job-scraper/pkg/scraper"
	"github.com/joaovl/advanced-job-scraper/pkg/store"
)

// Runner wires the scraping pipeline for one session. The network-facing
// dependencies are interfaces so tests can run the whole pipeline offline.
type Runner struct {
	Config    models.ScrapeConfig
	Fetcher   scraper.PageFetcher
	Extractor extractor.Extractor
	Primary   detail.Fetcher
	Fallback  detail.Fetcher
	Logger    *slog.Logger

	PagerDelays scraper.PagerDelays
	Cooldown    time.Duration
	BatchPause  time.Duration
	// TitlePauseMin/Max bound the randomized delay between searches in a
	// multi-title run.
	TitlePauseMin time.Duration
	TitlePauseMax time.Duration
}

// NewRunner returns a Runner with the default conservative pacing.
func NewRunner(cfg models.ScrapeConfig, f scraper.PageFetcher, e extractor.Extractor, primary, fallback detail.Fetcher, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		Config:        cfg,
		Fetcher:       f,
		Extractor:     e,
		Primary:       primary,
		Fallback:      fallback,
		Logger:        logger,
		PagerDelays:   scraper.DefaultPagerDelays(),
		Cooldown:      90 * time.Second,
		BatchPause:    5 * time.Second,
		TitlePauseMin: 3 * time.Second,
		TitlePauseMax: 6 * time.Second,
	}
}

// Run executes one session over the given search titles. The seen-URL set is
// shared across titles, so a listing surfacing under two searches is captured
// once. The rate-limit switch is likewise session-scoped: once any search
// degrades to the sequential fallback, later searches stay degraded.
func (r *Runner) Run(ctx context.Context, titles []string) (Summary, error) {
	start := time.Now()
	summary := Summary{
		Keywords:   titles,
		FinalMode:  scraper.ModeParallel.String(),
		OutputFile: r.Config.OutputFile,
	}

	existing, err := store.Load(r.Config.OutputFile)
	if err != nil {
		r.Logger.Warn("existing store unreadable, starting empty",
			"path", r.Config.OutputFile, "error", err)
		existing = nil
	}

	var seed []string
	if r.Config.MergeExisting {
		seed = store.URLs(existing)
	}
	seen := dedupe.New(seed)

	timeRange, ok := relativedate.ParseTimeRange(r.Config.TimeRange)
	if !ok && r.Config.TimeRange != "" {
		r.Logger.Warn("unrecognized time range, searching without a filter",
			"time_range", r.Config.TimeRange)
	}

	pager := scraper.NewPager(r.Fetcher, r.Extractor, r.Config.MaxPages, r.Logger)
	pager.Delays = r.PagerDelays

	enricher := scraper.NewEnricher(r.Primary, r.Fallback, r.Config.Workers, r.Logger)
	enricher.Cooldown = r.Cooldown
	enricher.BatchPause = r.BatchPause

	var fresh []models.JobListing
	for i, title := range titles {
		if i > 0 {
			if err := sleepBetween(ctx, r.TitlePauseMin, r.TitlePauseMax); err != nil {
				return r.finish(summary, start), err
			}
		}

		session := &scraper.Session{
			Keywords:    title,
			GeoID:       r.Config.GeoID,
			Location:    r.Config.Location,
			TimeRange:   timeRange,
			TargetCount: r.Config.MaxJobs,
			EasyApply:   r.Config.EasyApply,
			Dedupe:      seen,
		}

		r.Logger.Info("searching", "keywords", title, "known_urls", seen.Len())
		found, stats, err := pager.Run(ctx, session)
		if err != nil {
			return r.finish(summary, start), err
		}

		summary.Pages += stats.Pages
		summary.PromotedSkipped += stats.PromotedSkipped
		summary.SkippedExisting += stats.SkippedExisting
		fresh = append(fresh, found...)
	}
	summary.NewListings = len(fresh)

	if r.Config.FetchDescriptions && len(fresh) > 0 {
		stats, err := enricher.Run(ctx, fresh)
		summary.Enriched = stats.Enriched
		summary.EnrichFailed = stats.Failed
		summary.RateLimited = stats.RateLimited
		summary.FinalMode = stats.FinalMode.String()
		if err != nil {
			return r.finish(summary, start), err
		}
	}

	merged := fresh
	if r.Config.MergeExisting {
		merged = store.Merge(existing, fresh)
	}
	summary.TotalStored = len(merged)

	if r.Config.MaxAge != "" {
		if window, ok := relativedate.ParseTimeRange(r.Config.MaxAge); ok {
			summary.WithinMaxAge = len(store.FilterMaxAge(fresh, window, time.Now()))
		} else {
			r.Logger.Warn("unrecognized max age, skipping the filter", "max_age", r.Config.MaxAge)
		}
	}

	if err := store.Save(r.Config.OutputFile, merged); err != nil {
		r.Logger.Error("failed to persist store, previous artifact intact",
			"path", r.Config.OutputFile, "error", err)
		return r.finish(summary, start), err
	}

	final := r.finish(summary, start)
	r.Logger.Info("session finished",
		"new", final.NewListings,
		"enriched", final.Enriched,
		"failed", final.EnrichFailed,
		"stored", final.TotalStored,
		"mode", final.FinalMode,
		"duration", final.Duration)
	return final, nil
}

func (r *Runner) finish(summary Summary, start time.Time) Summary {
	summary.Duration = time.Since(start).Round(time.Millisecond).String()
	if summary.EnrichFailed > 0 {
		summary.Status = "partial_failure"
	} else {
		summary.Status = "success"
	}
	return summary
}

func sleepBetween(ctx context.Context, min, max time.Duration) error {
	d := min
	if max > min {
		d = min + time.Duration(rand.Int63n(int64(max-min)))
	}
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
