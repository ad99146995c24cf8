package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/joaovl/advanced-job-scraper/internal/export"
	"github.com/joaovl/advanced-job-scraper/internal/runs"
	"github.com/joaovl/advanced-job-scraper/internal/scrape"
)

func main() {
	app := &cli.App{
		Name:  "job-scraper",
		Usage: "scrape job listings, enrich them with descriptions, and export the results",
		Commands: []*cli.Command{
			{
				Name:   "scrape",
				Usage:  "Run a scrape session and merge results into the JSON store",
				Action: scrape.Action,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "keywords",
						Usage: "Search keywords, e.g. \"software engineer\"",
					},
					&cli.StringFlag{
						Name:  "geo-id",
						Usage: "Numeric location identifier (preferred over --location)",
					},
					&cli.StringFlag{
						Name:  "location",
						Usage: "Free-text location filter (deprecated, use --geo-id)",
					},
					&cli.IntFlag{
						Name:  "max-jobs",
						Usage: "Stop after this many new listings per search (0 = unlimited)",
					},
					&cli.StringFlag{
						Name:  "time-range",
						Usage: "Remote posting-age filter, e.g. 24h, 48h, 7d",
					},
					&cli.StringFlag{
						Name:  "max-age",
						Usage: "Local posting-age filter for the summary, e.g. 6h",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Parallel description fetchers",
					},
					&cli.IntFlag{
						Name:  "max-pages",
						Usage: "Hard ceiling on search pages per query",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Path of the JSON store",
					},
					&cli.BoolFlag{
						Name:  "no-merge",
						Usage: "Overwrite the store instead of merging with previous results",
					},
					&cli.BoolFlag{
						Name:  "no-description",
						Usage: "Skip the description-enrichment phase",
					},
					&cli.BoolFlag{
						Name:  "include-promoted",
						Usage: "Keep sponsored listings instead of skipping them",
					},
					&cli.BoolFlag{
						Name:  "easy-apply",
						Usage: "Restrict the search to easy-apply listings",
					},
					&cli.BoolFlag{
						Name:  "all-titles",
						Usage: "Search every title in the config file's job_titles list",
					},
					&cli.StringFlag{
						Name:  "config",
						Value: "config.yaml",
						Usage: "Path to the YAML config file",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Log errors only",
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Export the JSON store to an XLSX workbook",
				Action: export.Action,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "input",
						Value: "linkedin_jobs.json",
						Usage: "Path of the JSON store to export",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Path of the workbook (defaults to the input name with .xlsx)",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Log errors only",
					},
				},
			},
			{
				Name:   "runs",
				Usage:  "List recent scrape runs from the local history",
				Action: runs.Action,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Value: ".",
						Usage: "Directory holding the run-history database",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "Maximum number of runs to show",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
