package models

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScrapeConfig enumerates every recognized option for a scrape run, with
// explicit defaults. CLI flags override file values; validation happens once
// before any network activity.
type ScrapeConfig struct {
	// Keywords is the search query. Required unless JobTitles is set and
	// the run searches all titles.
	Keywords string `yaml:"keywords"`

	// JobTitles is an optional list of queries for --all-titles runs.
	JobTitles []string `yaml:"job_titles"`

	// GeoID is the source's numeric location identifier (preferred).
	// Location is the deprecated free-text fallback.
	GeoID    string `yaml:"geo_id"`
	Location string `yaml:"location"`

	// TimeRange restricts the remote search, e.g. "48h", "7d".
	TimeRange string `yaml:"time_range"`

	// MaxJobs caps new listings per search. 0 means unlimited.
	MaxJobs int `yaml:"max_jobs_per_title"`

	// MaxPages bounds pagination even when the source never signals end.
	MaxPages int `yaml:"max_pages"`

	// Workers is the parallel enrichment pool size.
	Workers int `yaml:"workers"`

	FetchDescriptions bool `yaml:"fetch_descriptions"`
	IncludePromoted   bool `yaml:"include_promoted"`
	EasyApply         bool `yaml:"easy_apply"`

	// MergeExisting controls whether the output store is merged with the
	// previous artifact or overwritten.
	MergeExisting bool `yaml:"merge_existing"`

	// MaxAge is a local post-filter window, e.g. "6h". Empty disables it.
	MaxAge string `yaml:"max_age"`

	OutputFile string `yaml:"output_file"`
}

// DefaultScrapeConfig returns the conservative defaults used when neither
// the config file nor a CLI flag says otherwise.
func DefaultScrapeConfig() ScrapeConfig {
	return ScrapeConfig{
		Location:          "London, UK",
		TimeRange:         "48h",
		MaxPages:          100,
		Workers:           2,
		FetchDescriptions: true,
		MergeExisting:     true,
	}
}

// LoadScrapeConfig reads a YAML config file over the defaults. A missing
// file is not an error; a malformed one is.
func LoadScrapeConfig(path string) (ScrapeConfig, error) {
	cfg := DefaultScrapeConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations that cannot produce a meaningful run.
func (c *ScrapeConfig) Validate(allTitles bool) error {
	if allTitles {
		if len(c.JobTitles) == 0 {
			return errors.New("no job titles configured for --all-titles run")
		}
	} else if c.Keywords == "" {
		return errors.New("no search keywords provided")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max pages must be >= 1, got %d", c.MaxPages)
	}
	if c.MaxJobs < 0 {
		return fmt.Errorf("max jobs must be >= 0, got %d", c.MaxJobs)
	}
	return nil
}
