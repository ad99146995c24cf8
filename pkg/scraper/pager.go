package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/joaovl/advanced-job-scraper/models"
	"github.com/joaovl/advanced-job-scraper/pkg/dedupe"
	"github.com/joaovl/advanced-job-scraper/pkg/extractor"
)

// BaseSearchURL is the guest search endpoint.
const BaseSearchURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"

// JobsPerPage is fixed by the source.
const JobsPerPage = 10

// maxConsecutiveEmpty ends pagination after this many successive pages with
// no new listings.
const maxConsecutiveEmpty = 3

// batchPauseEvery inserts a longer pause after this many pages.
const batchPauseEvery = 5

// PageFetcher is the one network dependency of the pager.
type PageFetcher interface {
	GetDocument(ctx context.Context, url string) (*goquery.Document, error)
}

// Session holds the parameters and identity state for one scrape run.
type Session struct {
	Keywords string
	// GeoID is preferred; Location is the deprecated text fallback.
	GeoID    string
	Location string
	// TimeRange restricts the remote search; zero means no filter.
	TimeRange time.Duration
	// TargetCount stops pagination once this many new listings
	// accumulated. Zero means unlimited.
	TargetCount int
	EasyApply   bool

	// Dedupe carries the seen-URL set, pre-seeded from the store and
	// shared across searches in a multi-title run.
	Dedupe *dedupe.Deduplicator
}

// PageStats summarizes one pagination run.
type PageStats struct {
	Pages           int
	PromotedSkipped int
	SkippedExisting int
}

// PagerDelays paces page requests.
type PagerDelays struct {
	// InterPageMin/Max bound the randomized delay between pages.
	InterPageMin time.Duration
	InterPageMax time.Duration
	// BatchPause applies every batchPauseEvery pages.
	BatchPause time.Duration
}

// DefaultPagerDelays mirrors the source-tolerant pacing.
func DefaultPagerDelays() PagerDelays {
	return PagerDelays{
		InterPageMin: 500 * time.Millisecond,
		InterPageMax: 1500 * time.Millisecond,
		BatchPause:   5 * time.Second,
	}
}

// Pager walks search result pages sequentially. Page order matters: the
// consecutive-empty termination counter depends on it, so there is never
// more than one page request in flight.
type Pager struct {
	Fetcher   PageFetcher
	Extractor extractor.Extractor
	Delays    PagerDelays
	// MaxPages guards against a source that never signals the end.
	MaxPages int
	Logger   *slog.Logger
}

// NewPager wires a pager with default pacing.
func NewPager(f PageFetcher, e extractor.Extractor, maxPages int, logger *slog.Logger) *Pager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pager{
		Fetcher:   f,
		Extractor: e,
		Delays:    DefaultPagerDelays(),
		MaxPages:  maxPages,
		Logger:    logger,
	}
}

// Run fetches pages at increasing offsets until a termination condition
// triggers: target reached, three consecutive pages with nothing new, or
// the page ceiling. Extraction failures and all-duplicate pages count as
// empty. Accepted listings come back in first-seen order.
func (p *Pager) Run(ctx context.Context, session *Session) ([]models.JobListing, PageStats, error) {
	var accepted []models.JobListing
	var stats PageStats

	skippedBefore := session.Dedupe.Skipped()
	consecutiveEmpty := 0

	for pageIdx := 0; pageIdx < p.MaxPages && consecutiveEmpty < maxConsecutiveEmpty; pageIdx++ {
		if session.TargetCount > 0 && len(accepted) >= session.TargetCount {
			break
		}

		if pageIdx > 0 {
			if err := sleep(ctx, randomBetween(p.Delays.InterPageMin, p.Delays.InterPageMax)); err != nil {
				return accepted, stats, err
			}
		}

		pageURL := p.buildSearchURL(session, pageIdx*JobsPerPage)
		newOnPage, promoted, err := p.fetchPage(ctx, session, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return accepted, stats, ctx.Err()
			}
			p.Logger.Warn("search page failed, counting as empty", "page", pageIdx+1, "error", err)
		}

		stats.Pages++
		stats.PromotedSkipped += promoted
		accepted = append(accepted, newOnPage...)

		if len(newOnPage) == 0 {
			consecutiveEmpty++
			p.Logger.Info("page yielded nothing new", "page", pageIdx+1, "consecutive_empty", consecutiveEmpty)
		} else {
			consecutiveEmpty = 0
			p.Logger.Info("page processed",
				"page", pageIdx+1,
				"new", len(newOnPage),
				"promoted", promoted,
				"total", len(accepted))
		}

		if (pageIdx+1)%batchPauseEvery == 0 {
			if err := sleep(ctx, p.Delays.BatchPause); err != nil {
				return accepted, stats, err
			}
		}
	}

	stats.SkippedExisting = session.Dedupe.Skipped() - skippedBefore
	return accepted, stats, nil
}

// fetchPage retrieves and extracts one page, returning only genuinely new
// listings.
func (p *Pager) fetchPage(ctx context.Context, session *Session, pageURL string) ([]models.JobListing, int, error) {
	doc, err := p.Fetcher.GetDocument(ctx, pageURL)
	if err != nil {
		return nil, 0, err
	}

	candidates, promoted := p.Extractor.Extract(doc, time.Now())

	var fresh []models.JobListing
	for _, job := range candidates {
		if session.Dedupe.Accept(job.URL) {
			fresh = append(fresh, job)
		}
	}
	return fresh, promoted, nil
}

// buildSearchURL assembles the paginated query. geoID wins over the text
// location when both are set.
func (p *Pager) buildSearchURL(session *Session, start int) string {
	params := url.Values{}
	params.Set("keywords", session.Keywords)
	params.Set("start", fmt.Sprintf("%d", start))
	if session.GeoID != "" {
		params.Set("geoId", session.GeoID)
	} else if session.Location != "" {
		params.Set("location", session.Location)
	}

	built := BaseSearchURL + "?" + params.Encode()
	if session.TimeRange > 0 {
		built += fmt.Sprintf("&f_TPR=r%d", int(session.TimeRange.Seconds()))
	}
	if session.EasyApply {
		built += "&f_AL=true"
	}
	return built
}

func randomBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

func sleep(ctx context.Context, d time.Duration) error {
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
