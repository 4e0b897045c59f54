package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefeed/cinefeed/story"
)

// TestWriteCSV verifies the header row and content joining.
func TestWriteCSV(t *testing.T) {
	records := []story.Canonical{
		{
			Source:        "variety",
			SourceSection: "Film",
			Title:         "A headline",
			Content:       []string{"First paragraph.", "Second paragraph."},
			Author:        "A. Writer",
			URLArticle:    "https://variety.com/a",
			PublishedDate: "2024-03-05",
			CapturedDate:  "2024-03-06",
			CapturedTime:  "09:00:00",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "source", rows[0][0])
	assert.Equal(t, "capturedTime", rows[0][len(rows[0])-1])
	assert.Equal(t, "variety", rows[1][0])
	assert.Equal(t, "First paragraph.\nSecond paragraph.", rows[1][4])
}

// TestWriteCSV_Empty verifies an empty record set still writes the
// header.
func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
