package detail

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/joaovl/advanced-job-scraper/models"
	"github.com/joaovl/advanced-job-scraper/pkg/fetcher"
)

// JobDetailAPI is the guest posting endpoint, keyed by numeric job ID. It
// tolerates far more traffic than the public job page.
const JobDetailAPI = "https://www.linkedin.com/jobs-guest/jobs/api/jobPosting/%s"

// ErrNoDescription means the page was fetched but nothing on it qualified
// as a description.
var ErrNoDescription = errors.New("no description found on detail page")

var jobIDPattern = regexp.MustCompile(`/jobs/view/(\d+)`)

// Fetcher retrieves the full description for one listing.
type Fetcher interface {
	FetchDescription(ctx context.Context, job models.JobListing) (string, error)
}

// Delays paces detail requests. The defaults are deliberately conservative;
// tests shrink them.
type Delays struct {
	// Min/Max bound the randomized pre-request delay on the direct channel.
	Min time.Duration
	Max time.Duration
	// Sequential is the fixed base delay on the fallback channel.
	Sequential time.Duration
	// Cooldown is how long to wait after an explicit rate-limit signal.
	Cooldown time.Duration
}

// DefaultDelays mirrors the pacing the source is known to tolerate.
func DefaultDelays() Delays {
	return Delays{
		Min:        2 * time.Second,
		Max:        4 * time.Second,
		Sequential: 3 * time.Second,
		Cooldown:   90 * time.Second,
	}
}

func (d Delays) randomDirect() time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + time.Duration(rand.Int63n(int64(d.Max-d.Min)))
}

// ExtractJobID pulls the numeric posting ID out of a listing URL.
func ExtractJobID(url string) (string, bool) {
	m := jobIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Direct fetches the listing's own page. Fast, but the source throttles it
// aggressively; a 429 propagates as fetcher.ErrRateLimited so the caller can
// switch channels.
type Direct struct {
	Client *fetcher.Client
	Delays Delays
	// Retries bounds attempts per listing.
	Retries int
}

// NewDirect returns the primary detail fetcher.
func NewDirect(client *fetcher.Client) *Direct {
	return &Direct{Client: client, Delays: DefaultDelays(), Retries: 3}
}

func (f *Direct) FetchDescription(ctx context.Context, job models.JobListing) (string, error) {
	if job.URL == "" {
		return "", ErrNoDescription
	}

	var lastErr error
	for attempt := 0; attempt < f.Retries; attempt++ {
		delay := f.Delays.randomDirect()
		if attempt > 0 {
			delay = time.Duration(1<<uint(attempt))*time.Second + f.Delays.randomDirect()
		}
		if err := sleep(ctx, delay); err != nil {
			return "", err
		}

		body, err := f.Client.GetBytes(ctx, job.URL)
		if err != nil {
			if errors.Is(err, fetcher.ErrRateLimited) || errors.Is(err, context.Canceled) {
				return "", err
			}
			lastErr = err
			continue
		}

		if desc := ExtractDescription(body, job.URL); len(desc) > models.MinDescriptionLen {
			return desc, nil
		}
		lastErr = ErrNoDescription
	}

	return "", lastErr
}

// GuestAPI fetches descriptions through the posting API. Slower per request
// but keeps working once the direct channel is throttled. A 429 here is
// waited out rather than escalated; there is no further channel to fall
// back to.
type GuestAPI struct {
	Client *fetcher.Client
	Delays Delays
	Retries int
	// Endpoint overrides JobDetailAPI in tests.
	Endpoint string
}

// NewGuestAPI returns the fallback detail fetcher.
func NewGuestAPI(client *fetcher.Client) *GuestAPI {
	return &GuestAPI{Client: client, Delays: DefaultDelays(), Retries: 3, Endpoint: JobDetailAPI}
}

func (f *GuestAPI) FetchDescription(ctx context.Context, job models.JobListing) (string, error) {
	jobID, ok := ExtractJobID(job.URL)
	if !ok {
		return "", fmt.Errorf("no job ID in URL %s: %w", job.URL, ErrNoDescription)
	}
	apiURL := fmt.Sprintf(f.Endpoint, jobID)

	var lastErr error
	for attempt := 0; attempt < f.Retries; attempt++ {
		delay := f.Delays.Sequential
		if attempt > 0 {
			delay *= time.Duration(1 << uint(attempt))
		}
		if err := sleep(ctx, delay); err != nil {
			return "", err
		}

		body, err := f.Client.GetBytes(ctx, apiURL)
		if err != nil {
			if errors.Is(err, fetcher.ErrRateLimited) {
				if werr := sleep(ctx, f.Delays.Cooldown); werr != nil {
					return "", werr
				}
				lastErr = err
				continue
			}
			if errors.Is(err, context.Canceled) {
				return "", err
			}
			lastErr = err
			continue
		}

		if desc := ExtractDescription(body, apiURL); len(desc) > models.MinDescriptionLen {
			return desc, nil
		}
		lastErr = ErrNoDescription
	}

	return "", lastErr
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
