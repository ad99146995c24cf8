package detail

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/joaovl/advanced-job-scraper/models"
	"github.com/joaovl/advanced-job-scraper/pkg/fetcher"
)

var zeroDelays = Delays{}

func TestExtractDescription_JSONLD(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">{"@type":"JobPosting","description":"We are hiring an engineering manager to lead our platform team."}</script>
	</head><body></body></html>`

	got := ExtractDescription([]byte(html), "https://example.com/jobs/view/1")
	want := "We are hiring an engineering manager to lead our platform team."
	if got != want {
		t.Errorf("ExtractDescription() = %q, want %q", got, want)
	}
}

func TestExtractDescription_SelectorLadder(t *testing.T) {
	long := strings.Repeat("responsibilities and requirements ", 5)
	html := `<html><body>
		<div class="show-more-less-html__markup">` + long + `</div>
	</body></html>`

	got := ExtractDescription([]byte(html), "https://example.com/jobs/view/1")
	if !strings.Contains(got, "responsibilities") {
		t.Errorf("ExtractDescription() = %q, want selector content", got)
	}
}

func TestExtractDescription_MetaFallback(t *testing.T) {
	html := `<html><head>
		<meta name="description" content="A long enough meta description for a role that definitely exceeds fifty characters.">
	</head><body><p>short</p></body></html>`

	got := ExtractDescription([]byte(html), "https://example.com/jobs/view/1")
	if !strings.Contains(got, "meta description") {
		t.Errorf("ExtractDescription() = %q, want meta content", got)
	}
}

func TestExtractDescription_NothingQualifies(t *testing.T) {
	got := ExtractDescription([]byte("<html><body><p>hi</p></body></html>"), "https://example.com/x")
	if got != "" {
		t.Errorf("ExtractDescription() = %q, want empty", got)
	}
}

func TestExtractJobID(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://www.linkedin.com/jobs/view/1234567890", "1234567890", true},
		{"https://uk.linkedin.com/jobs/view/987-engineering-manager", "987", true},
		{"https://www.linkedin.com/jobs/search", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractJobID(tt.url)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ExtractJobID(%q) = %q, %v, want %q, %v", tt.url, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDirect_RateLimitPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewDirect(fetcher.NewClient(2*time.Second, 1))
	f.Delays = zeroDelays

	_, err := f.FetchDescription(context.Background(), models.JobListing{URL: srv.URL + "/jobs/view/1"})
	if !errors.Is(err, fetcher.ErrRateLimited) {
		t.Fatalf("FetchDescription() error = %v, want ErrRateLimited", err)
	}
}

func TestDirect_Success(t *testing.T) {
	desc := strings.Repeat("interesting work ", 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="description__text">` + desc + `</div></body></html>`))
	}))
	defer srv.Close()

	f := NewDirect(fetcher.NewClient(2*time.Second, 1))
	f.Delays = zeroDelays

	got, err := f.FetchDescription(context.Background(), models.JobListing{URL: srv.URL + "/jobs/view/1"})
	if err != nil {
		t.Fatalf("FetchDescription() error = %v", err)
	}
	if !strings.Contains(got, "interesting work") {
		t.Errorf("description = %q, want fetched content", got)
	}
}

func TestGuestAPI_FetchesByJobID(t *testing.T) {
	desc := strings.Repeat("fallback channel description ", 5)
	var requestedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		_, _ = w.Write([]byte(`<div class="show-more-less-html__markup">` + desc + `</div>`))
	}))
	defer srv.Close()

	f := NewGuestAPI(fetcher.NewClient(2*time.Second, 1))
	f.Delays = zeroDelays
	f.Endpoint = srv.URL + "/jobPosting/%s"

	got, err := f.FetchDescription(context.Background(), models.JobListing{
		URL: "https://www.linkedin.com/jobs/view/424242",
	})
	if err != nil {
		t.Fatalf("FetchDescription() error = %v", err)
	}
	if requestedPath != "/jobPosting/424242" {
		t.Errorf("requested path = %q, want /jobPosting/424242", requestedPath)
	}
	if !strings.Contains(got, "fallback channel") {
		t.Errorf("description = %q, want fetched content", got)
	}
}

func TestGuestAPI_NoJobID(t *testing.T) {
	f := NewGuestAPI(fetcher.NewClient(time.Second, 1))
	f.Delays = zeroDelays

	_, err := f.FetchDescription(context.Background(), models.JobListing{URL: "https://example.com/nope"})
	if !errors.Is(err, ErrNoDescription) {
		t.Fatalf("FetchDescription() error = %v, want ErrNoDescription", err)
	}
}
