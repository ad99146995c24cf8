package export

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/joaovl/advanced-job-scraper/pkg/store"
)

// Action exports the JSON store to an XLSX workbook.
func Action(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	start := time.Now()

	input := c.String("input")
	output := c.String("output")
	if output == "" {
		output = strings.TrimSuffix(input, ".json") + ".xlsx"
	}

	listings, err := store.Load(input)
	if err != nil {
		logger.Error("failed to load store", "path", input, "error", err)
		os.Exit(2)
	}
	if len(listings) == 0 {
		fmt.Printf("Nothing to export: %s is empty or missing\n", input)
		return nil
	}

	data, err := BuildWorkbook(listings)
	if err != nil {
		logger.Error("failed to build workbook", "error", err)
		os.Exit(2)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		logger.Error("failed to write workbook", "path", output, "error", err)
		os.Exit(2)
	}

	logger.Info("export finished",
		"rows", len(listings),
		"file", output,
		"elapsed_ms", time.Since(start).Milliseconds())
	fmt.Printf("Exported %d listings to %s\n", len(listings), output)
	return nil
}
