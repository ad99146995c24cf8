// Package extractor turns raw search-result markup into candidate listings.
// One implementation exists per source dialect; the pipeline depends only on
// the interface contract.
package extractor

import (
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/joaovl/advanced-job-scraper/models"
)

// Extractor pulls candidate listings out of one search-result page.
// Candidates come back in page order. The second return value counts cards
// that were recognized but dropped as promoted/sponsored.
type Extractor interface {
	Extract(doc *goquery.Document, capturedAt time.Time) ([]models.JobListing, int)
}
