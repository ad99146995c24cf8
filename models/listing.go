// Package models defines the shared data structures for scraping and
// persistence.
package models

import (
	"strings"
	"time"
)

// EnrichmentState tracks how far a listing has progressed through the
// description-fetching phase. It only ever moves forward.
type EnrichmentState string

const (
	EnrichmentPending  EnrichmentState = "pending"
	EnrichmentEnriched EnrichmentState = "enriched"
	EnrichmentFailed   EnrichmentState = "failed"
)

// MinDescriptionLen is the shortest description considered real content.
// Anything shorter is treated as extraction noise and the listing stays
// eligible for enrichment.
const MinDescriptionLen = 30

// JobListing is one scraped job posting. URL is the identity key: query
// parameters are stripped before a listing is ever constructed, so two
// listings with the same URL are the same posting.
type JobListing struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	PostedDate  string `json:"posted_date"`
	Description string `json:"description"`
	Source      string `json:"source"`
	ScrapedAt   string `json:"scraped_at"`
	// PostedTimestamp is derived once from PostedDate and the capture
	// instant. Empty when PostedDate does not match a relative pattern.
	PostedTimestamp string `json:"posted_timestamp"`

	Enrichment EnrichmentState `json:"enrichment_state,omitempty"`
}

// NeedsDescription reports whether the listing is still eligible for an
// enrichment pass. Enriched and Failed listings are never re-fetched.
func (j *JobListing) NeedsDescription() bool {
	if j.Enrichment == EnrichmentEnriched || j.Enrichment == EnrichmentFailed {
		return false
	}
	return len(j.Description) < MinDescriptionLen
}

// SetDescription stores a fetched description and advances the state.
func (j *JobListing) SetDescription(desc string) {
	j.Description = desc
	j.Enrichment = EnrichmentEnriched
}

// MarkFailed records that every enrichment attempt was exhausted. The
// description stays empty; the listing is still persisted.
func (j *JobListing) MarkFailed() {
	if j.Enrichment != EnrichmentEnriched {
		j.Enrichment = EnrichmentFailed
	}
}

// PostedAt parses the normalized timestamp, if one was captured.
func (j *JobListing) PostedAt() (time.Time, bool) {
	if j.PostedTimestamp == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, j.PostedTimestamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CleanURL strips query parameters from a listing URL so it can serve as a
// stable identity key.
func CleanURL(rawURL string) string {
	if i := strings.Index(rawURL, "?"); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
