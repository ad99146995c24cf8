package relativedate

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	capturedAt := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantOK  bool
	}{
		{
			name:   "hours",
			raw:    "2 hours ago",
			want:   capturedAt.Add(-2 * time.Hour),
			wantOK: true,
		},
		{
			name:   "days",
			raw:    "5 days ago",
			want:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "singular unit",
			raw:    "1 week ago",
			want:   capturedAt.Add(-7 * 24 * time.Hour),
			wantOK: true,
		},
		{
			name:   "month approximated as 30 days",
			raw:    "2 months ago",
			want:   capturedAt.Add(-60 * 24 * time.Hour),
			wantOK: true,
		},
		{
			name:   "mixed case with surrounding space",
			raw:    "  3 Minutes Ago ",
			want:   capturedAt.Add(-3 * time.Minute),
			wantOK: true,
		},
		{
			name:   "garbled",
			raw:    "garbled",
			wantOK: false,
		},
		{
			name:   "empty",
			raw:    "",
			wantOK: false,
		},
		{
			name:   "not available marker",
			raw:    "N/A",
			wantOK: false,
		},
		{
			name:   "unknown unit",
			raw:    "2 years ago",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw, capturedAt)
			if ok != tt.wantOK {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("Normalize(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Duration
		wantOK bool
	}{
		{"48h", 48 * time.Hour, true},
		{"7d", 7 * 24 * time.Hour, true},
		{"2w", 14 * 24 * time.Hour, true},
		{"2H", 2 * time.Hour, true},
		{"", 0, false},
		{"h", 0, false},
		{"10m", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseTimeRange(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseTimeRange(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeRange(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHintsRecent(t *testing.T) {
	if !HintsRecent("3 hours ago") {
		t.Error("HintsRecent(\"3 hours ago\") = false, want true")
	}
	if !HintsRecent("45 Minutes ago") {
		t.Error("HintsRecent(\"45 Minutes ago\") = false, want true")
	}
	if HintsRecent("2 days ago") {
		t.Error("HintsRecent(\"2 days ago\") = true, want false")
	}
	if HintsRecent("") {
		t.Error("HintsRecent(\"\") = true, want false")
	}
}
