package scrape

// Summary is the end-of-session report printed to stdout as YAML.
type Summary struct {
	Status          string   `yaml:"status"`
	Keywords        []string `yaml:"keywords"`
	Pages           int      `yaml:"pages"`
	NewListings     int      `yaml:"new_listings"`
	SkippedExisting int      `yaml:"skipped_existing"`
	PromotedSkipped int      `yaml:"promoted_skipped"`
	Enriched        int      `yaml:"enriched"`
	EnrichFailed    int      `yaml:"enrich_failed"`
	RateLimited     bool     `yaml:"rate_limited"`
	FinalMode       string   `yaml:"final_mode"`
	TotalStored     int      `yaml:"total_stored"`
	WithinMaxAge    int      `yaml:"within_max_age,omitempty"`
	OutputFile      string   `yaml:"output_file"`
	Duration        string   `yaml:"duration"`
}
