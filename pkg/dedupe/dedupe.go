// Package dedupe tracks listing identity by canonical URL across a session.
package dedupe

// Deduplicator decides whether a candidate URL is genuinely new. It is
// seeded from the persisted store so an incremental re-run never re-emits a
// listing that was captured before.
type Deduplicator struct {
	seen    map[string]struct{}
	skipped int
}

// New returns a Deduplicator pre-seeded with already-known URLs.
func New(existing []string) *Deduplicator {
	seen := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		if u != "" {
			seen[u] = struct{}{}
		}
	}
	return &Deduplicator{seen: seen}
}

// Accept reports whether the URL is new. An empty URL is always rejected:
// it cannot be deduplicated or merged safely. Known URLs are rejected and
// counted as skips.
func (d *Deduplicator) Accept(url string) bool {
	if url == "" {
		return false
	}
	if _, ok := d.seen[url]; ok {
		d.skipped++
		return false
	}
	d.seen[url] = struct{}{}
	return true
}

// Add records a URL as seen without counting a skip. Used between searches
// in a multi-title run.
func (d *Deduplicator) Add(url string) {
	if url != "" {
		d.seen[url] = struct{}{}
	}
}

// Skipped returns how many candidates were rejected as already known.
func (d *Deduplicator) Skipped() int {
	return d.skipped
}

// Len returns the number of distinct URLs tracked.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}
