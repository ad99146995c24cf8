package scrape

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/joaovl/advanced-job-scraper/models"
	"github.com/joaovl/advanced-job-scraper/pkg/db"
	"github.com/joaovl/advanced-job-scraper/pkg/detail"
	"github.com/joaovl/advanced-job-scraper/pkg/extractor"
	"github.com/joaovl/advanced-job-scraper/pkg/fetcher"
)

const defaultOutputFile = "linkedin_jobs.json"

// Action runs one scrape session from CLI flags layered over the optional
// config file. Only a configuration error aborts before network activity.
func Action(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	cfg, err := models.LoadScrapeConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	applyFlags(c, &cfg)

	allTitles := c.Bool("all-titles")
	if err := cfg.Validate(allTitles); err != nil {
		logger.Error("invalid configuration", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  job-scraper scrape --keywords "software engineer"`)
		fmt.Fprintln(os.Stderr, `  job-scraper scrape --all-titles --config config.yaml`)
		os.Exit(2)
	}

	titles := []string{cfg.Keywords}
	if allTitles {
		titles = cfg.JobTitles
	}

	client := fetcher.NewClient(30*time.Second, 3)
	ext := &extractor.LinkedIn{SkipPromoted: !cfg.IncludePromoted}
	runner := NewRunner(cfg, client, ext, detail.NewDirect(client), detail.NewGuestAPI(client), logger)

	summary, runErr := runner.Run(c.Context, titles)
	recordRun(logger, cfg, titles, summary, startTime)

	out, err := yaml.Marshal(summary)
	if err != nil {
		logger.Error("failed to marshal summary", "error", err)
		os.Exit(2)
	}
	fmt.Println(string(out))

	if runErr != nil {
		logger.Error("session ended with an error", "error", runErr)
		os.Exit(1)
	}
	return nil
}

// applyFlags layers explicitly set CLI flags over the config file values.
func applyFlags(c *cli.Context, cfg *models.ScrapeConfig) {
	if c.IsSet("keywords") {
		cfg.Keywords = c.String("keywords")
	}
	if c.IsSet("geo-id") {
		cfg.GeoID = c.String("geo-id")
	}
	if c.IsSet("location") {
		cfg.Location = c.String("location")
	}
	if c.IsSet("max-jobs") {
		cfg.MaxJobs = c.Int("max-jobs")
	}
	if c.IsSet("time-range") {
		cfg.TimeRange = c.String("time-range")
	}
	if c.IsSet("max-age") {
		cfg.MaxAge = c.String("max-age")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("max-pages") {
		cfg.MaxPages = c.Int("max-pages")
	}
	if c.IsSet("output") {
		cfg.OutputFile = c.String("output")
	}
	if c.Bool("no-merge") {
		cfg.MergeExisting = false
	}
	if c.Bool("no-description") {
		cfg.FetchDescriptions = false
	}
	if c.Bool("include-promoted") {
		cfg.IncludePromoted = true
	}
	if c.Bool("easy-apply") {
		cfg.EasyApply = true
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = defaultOutputFile
	}
}

// recordRun appends the session to the local run history. Best effort: a
// history failure never fails the scrape.
func recordRun(logger *slog.Logger, cfg models.ScrapeConfig, titles []string, summary Summary, startedAt time.Time) {
	database, err := db.Open(filepath.Dir(cfg.OutputFile))
	if err != nil {
		logger.Warn("failed to open run history", "error", err)
		return
	}
	defer database.Close()

	_, err = database.InsertRun(db.Run{
		Keywords:        strings.Join(titles, ", "),
		GeoID:           cfg.GeoID,
		Location:        cfg.Location,
		StartedAt:       startedAt,
		FinishedAt:      time.Now(),
		PagesFetched:    summary.Pages,
		NewListings:     summary.NewListings,
		SkippedExisting: summary.SkippedExisting,
		PromotedSkipped: summary.PromotedSkipped,
		Enriched:        summary.Enriched,
		EnrichFailed:    summary.EnrichFailed,
		RateLimited:     summary.RateLimited,
		FinalMode:       summary.FinalMode,
		OutputFile:      cfg.OutputFile,
	})
	if err != nil {
		logger.Warn("failed to record run", "error", err)
	}
}
