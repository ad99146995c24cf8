// Package export turns the persisted listing store into an XLSX workbook.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joaovl/advanced-job-scraper/models"
)

const sheetName = "Jobs"

// descriptionExcerptLen keeps the spreadsheet readable; the full text stays
// in the JSON store.
const descriptionExcerptLen = 500

var headers = []string{
	"Title",
	"Company",
	"Location",
	"Posted",
	"Posted At",
	"Description",
	"URL",
	"Scraped At",
}

// BuildWorkbook renders the listings as XLSX bytes, one row per listing in
// store order.
func BuildWorkbook(listings []models.JobListing) ([]byte, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, l := range listings {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}

		write(1, l.Title)
		write(2, l.Company)
		write(3, l.Location)
		write(4, l.PostedDate)
		if postedAt, ok := l.PostedAt(); ok {
			write(5, postedAt.Format("2006-01-02 15:04"))
		} else {
			write(5, "")
		}
		write(6, truncate(l.Description, descriptionExcerptLen))
		write(7, l.URL)
		if scrapedAt, err := time.Parse(time.RFC3339, l.ScrapedAt); err == nil {
			write(8, scrapedAt.Format("2006-01-02 15:04"))
		} else {
			write(8, l.ScrapedAt)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 36)
	_ = f.SetColWidth(sheetName, "B", "C", 24)
	_ = f.SetColWidth(sheetName, "D", "E", 16)
	_ = f.SetColWidth(sheetName, "F", "F", 60)
	_ = f.SetColWidth(sheetName, "G", "G", 48)
	_ = f.SetColWidth(sheetName, "H", "H", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
