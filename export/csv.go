// Package export renders canonical records for tabular download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cinefeed/cinefeed/story"
)

// header is the CSV column order, matching the canonical field order.
var header = []string{
	"source", "sourceIconURL", "sourceSection",
	"title", "content", "author",
	"urlArticle", "urlBannerImage", "urlThumbnailImage",
	"publishedDate", "publishedTime", "capturedDate", "capturedTime",
}

// WriteCSV writes a header row and one row per record. Content
// paragraphs are joined with newlines inside the single content cell.
func WriteCSV(w io.Writer, records []story.Canonical) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.Source, rec.SourceIconURL, rec.SourceSection,
			rec.Title, strings.Join(rec.Content, "\n"), rec.Author,
			rec.URLArticle, rec.URLBannerImage, rec.URLThumbnailImage,
			rec.PublishedDate, rec.PublishedTime, rec.CapturedDate, rec.CapturedTime,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}
