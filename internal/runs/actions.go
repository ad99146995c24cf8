// Package runs lists the local scrape-run history.
package runs

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/joaovl/advanced-job-scraper/pkg/db"
)

// Action prints recent runs, newest first.
func Action(c *cli.Context) error {
	database, err := db.Open(c.String("dir"))
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}

	fmt.Printf("%-6s %-20s %-30s %-7s %-6s %-8s %-8s %-7s %-20s\n",
		"ID", "Started", "Keywords", "Pages", "New", "Skipped", "Enriched", "Failed", "Mode")
	fmt.Println(strings.Repeat("-", 120))

	for _, r := range runs {
		keywords := r.Keywords
		if len(keywords) > 28 {
			keywords = keywords[:25] + "..."
		}
		fmt.Printf("%-6d %-20s %-30s %-7d %-6d %-8d %-8d %-7d %-20s\n",
			r.RunID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			keywords,
			r.PagesFetched,
			r.NewListings,
			r.SkippedExisting,
			r.Enriched,
			r.EnrichFailed,
			r.FinalMode,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	return nil
}
