// Package relativedate converts human-relative timestamps like "2 hours ago"
// into absolute times.
package relativedate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativePattern = regexp.MustCompile(`^(\d+)\s*(second|minute|hour|day|week|month)s?\s*ago$`)

// Normalize converts a relative phrase to an absolute time anchored at
// capturedAt. The second return value is false when the input does not match
// the pattern; that is a defined outcome, not an error. "month" is
// approximated as 30 days.
func Normalize(raw string, capturedAt time.Time) (time.Time, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "n/a" {
		return time.Time{}, false
	}

	m := relativePattern.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, false
	}

	value, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	var unit time.Duration
	switch m[2] {
	case "second":
		unit = time.Second
	case "minute":
		unit = time.Minute
	case "hour":
		unit = time.Hour
	case "day":
		unit = 24 * time.Hour
	case "week":
		unit = 7 * 24 * time.Hour
	case "month":
		unit = 30 * 24 * time.Hour
	default:
		return time.Time{}, false
	}

	return capturedAt.Add(-time.Duration(value) * unit), true
}

// ParseTimeRange parses compact range strings like "48h", "7d", "2w" into a
// duration. Unknown suffixes return false.
func ParseTimeRange(s string) (time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return 0, false
	}

	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || value < 0 {
		return 0, false
	}

	switch s[len(s)-1] {
	case 'h':
		return time.Duration(value) * time.Hour, true
	case 'd':
		return time.Duration(value) * 24 * time.Hour, true
	case 'w':
		return time.Duration(value) * 7 * 24 * time.Hour, true
	}
	return 0, false
}

// HintsRecent reports whether a raw posted string suggests the listing was
// posted within the last day, even when it cannot be normalized. Used by the
// max-age filter to conservatively keep listings without a timestamp.
func HintsRecent(raw string) bool {
	raw = strings.ToLower(raw)
	return strings.Contains(raw, "hour") ||
		strings.Contains(raw, "minute") ||
		strings.Contains(raw, "second")
}
