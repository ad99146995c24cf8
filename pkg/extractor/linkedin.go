package extractor

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/joaovl/advanced-job-scraper/models"
	"github.com/joaovl/advanced-job-scraper/pkg/relativedate"
)

var promotedClass = regexp.MustCompile(`(?i)promoted`)

// LinkedIn extracts job cards from the guest search API markup.
type LinkedIn struct {
	// SkipPromoted drops sponsored cards and counts them separately.
	SkipPromoted bool
}

// NewLinkedIn returns an extractor with the default promoted filter on.
func NewLinkedIn() *LinkedIn {
	return &LinkedIn{SkipPromoted: true}
}

// Extract walks every base-card div on the page. Cards missing required
// fields are skipped; they are noise, not listings.
func (e *LinkedIn) Extract(doc *goquery.Document, capturedAt time.Time) ([]models.JobListing, int) {
	var jobs []models.JobListing
	promoted := 0

	doc.Find("div.base-card").Each(func(_ int, card *goquery.Selection) {
		if e.SkipPromoted && isPromoted(card) {
			promoted++
			return
		}

		title := strings.TrimSpace(card.Find("h3.base-search-card__title").Text())
		company := strings.TrimSpace(card.Find("h4.base-search-card__subtitle").Text())
		location := strings.TrimSpace(card.Find("span.job-search-card__location").Text())

		href, ok := card.Find("a.base-card__full-link").Attr("href")
		if !ok || title == "" {
			return
		}

		postedDate := strings.TrimSpace(card.Find("time.job-search-card__listdate").Text())
		if postedDate == "" {
			postedDate = "N/A"
		}

		job := models.JobListing{
			Title:      title,
			Company:    company,
			Location:   location,
			URL:        models.CleanURL(href),
			PostedDate: postedDate,
			Source:     "LinkedIn",
			ScrapedAt:  capturedAt.Format(time.RFC3339),
			Enrichment: models.EnrichmentPending,
		}
		if postedAt, ok := relativedate.Normalize(postedDate, capturedAt); ok {
			job.PostedTimestamp = postedAt.Format(time.RFC3339)
		}
		jobs = append(jobs, job)
	})

	return jobs, promoted
}

// isPromoted checks the card footer, any span text, and class names for a
// promoted marker.
func isPromoted(card *goquery.Selection) bool {
	footer := strings.ToLower(card.Find("footer").Text())
	if strings.Contains(footer, "promoted") {
		return true
	}

	found := false
	card.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(s.Text()), "promoted") {
			found = true
			return false
		}
		return true
	})
	if found {
		return true
	}

	card.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if class, ok := s.Attr("class"); ok && promotedClass.MatchString(class) {
			found = true
			return false
		}
		return true
	})
	return found
}
