// Package fetcher wraps an HTTP client with the retry, timeout and
// rate-limit-detection behavior the remote source requires.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrRateLimited is returned when the source answers with an explicit
// throttling response (HTTP 429). It is a signal, not a failure: callers
// switch channels instead of retrying blindly.
var ErrRateLimited = errors.New("rate limited by remote source")

var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Connection":      "keep-alive",
	"DNT":             "1",
	"Cache-Control":   "no-cache",
}

// Client fetches pages with bounded retries. Timeouts and 5xx responses are
// retried with exponential backoff plus jitter; 429 is surfaced immediately
// as ErrRateLimited.
type Client struct {
	client      *http.Client
	maxRetries  int
	backoffBase time.Duration
}

// NewClient returns a Client with the given per-request timeout.
func NewClient(timeout time.Duration, maxRetries int) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		client:      &http.Client{Timeout: timeout},
		maxRetries:  maxRetries,
		backoffBase: time.Second,
	}
}

// GetDocument fetches a URL and parses the body as HTML.
func (c *Client) GetDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.GetBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// GetBytes fetches a URL and returns the raw body.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(c.backoffBase, attempt)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := c.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, ErrRateLimited) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("exhausted %d attempts for %s: %w", c.maxRetries, url, lastErr)
}

func (c *Client) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// backoff returns base*2^attempt plus up to two more base units of jitter.
func backoff(base time.Duration, attempt int) time.Duration {
	wait := time.Duration(1<<uint(attempt)) * base
	jitter := time.Duration(rand.Int63n(int64(2*base) + 1))
	return wait + jitter
}
