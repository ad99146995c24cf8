// Package store persists the accumulated listing collection as a single
// JSON artifact per source/query combination.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joaovl/advanced-job-scraper/models"
	"github.com/joaovl/advanced-job-scraper/pkg/relativedate"
)

// Load reads the existing store. A missing or corrupt file yields an empty
// store and a non-nil error the caller may log; the session proceeds either
// way.
func Load(path string) ([]models.JobListing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	var listings []models.JobListing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("failed to parse store: %w", err)
	}
	return listings, nil
}

// URLs returns the identity keys of a loaded store, for seeding the
// deduplicator.
func URLs(listings []models.JobListing) []string {
	urls := make([]string, 0, len(listings))
	for _, l := range listings {
		if l.URL != "" {
			urls = append(urls, l.URL)
		}
	}
	return urls
}

// Merge combines freshly scraped listings into an existing store, keyed by
// URL. An unknown URL is inserted; a known URL keeps the existing record
// unless the fresh one carries a description the existing one lacks.
// Existing order is preserved and new records append in first-seen order,
// so merging the same inputs twice produces identical output.
func Merge(existing, fresh []models.JobListing) []models.JobListing {
	index := make(map[string]int, len(existing))
	merged := make([]models.JobListing, 0, len(existing)+len(fresh))

	for _, l := range existing {
		if l.URL == "" {
			continue
		}
		if _, dup := index[l.URL]; dup {
			continue
		}
		index[l.URL] = len(merged)
		merged = append(merged, l)
	}

	for _, l := range fresh {
		if l.URL == "" {
			continue
		}
		at, known := index[l.URL]
		if !known {
			index[l.URL] = len(merged)
			merged = append(merged, l)
			continue
		}
		if l.Description != "" && merged[at].Description == "" {
			merged[at] = l
		}
	}

	return merged
}

// Save writes the store atomically: the previous artifact survives intact if
// anything fails before the final rename.
func Save(path string, listings []models.JobListing) error {
	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp store: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close store: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}

// FilterMaxAge drops listings older than the window, judged by their
// normalized posted time. Listings without one are kept only when the raw
// posted string hints at recency. This filters what the caller sees for one
// invocation; the persisted store is not affected.
func FilterMaxAge(listings []models.JobListing, maxAge time.Duration, now time.Time) []models.JobListing {
	cutoff := now.Add(-maxAge)
	kept := make([]models.JobListing, 0, len(listings))
	for _, l := range listings {
		if postedAt, ok := l.PostedAt(); ok {
			if !postedAt.Before(cutoff) {
				kept = append(kept, l)
			}
			continue
		}
		if relativedate.HintsRecent(l.PostedDate) {
			kept = append(kept, l)
		}
	}
	return kept
}
