package services

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/posterwatch/mapsync-cli/internal/core/domain"
)

func parseCSV(t *testing.T, doc []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(doc)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestBuildCSV_HeaderAlwaysFixed(t *testing.T) {
	p := NewProjector()

	// Records missing every export field still get the full header.
	doc, err := p.BuildCSV([]domain.Record{{"Unrelated": "x"}})
	require.NoError(t, err)

	rows := parseCSV(t, doc)
	require.Len(t, rows, 2)
	assert.Equal(t, ExportFields, rows[0])
	assert.Equal(t, []string{"", "", "", ""}, rows[1])
}

func TestBuildCSV_EmptyInput(t *testing.T) {
	p := NewProjector()

	doc, err := p.BuildCSV(nil)
	require.NoError(t, err)

	rows := parseCSV(t, doc)
	require.Len(t, rows, 1)
	assert.Equal(t, ExportFields, rows[0])
}

func TestBuildCSV_RowPerRecordInOrder(t *testing.T) {
	p := NewProjector()

	records := []domain.Record{
		{"Latitude": 52.52, "Longitude": 13.4, "Submitted At": "2026-08-01"},
		{"Latitude": 48.85, "Longitude": 2.35, "Submitted At": "2026-08-02"},
		{"Latitude": 51.5, "Longitude": -0.12, "Submitted At": "2026-08-03"},
	}

	doc, err := p.BuildCSV(records)
	require.NoError(t, err)

	rows := parseCSV(t, doc)
	require.Len(t, rows, len(records)+1)
	assert.Equal(t, "52.52", rows[1][0])
	assert.Equal(t, "48.85", rows[2][0])
	assert.Equal(t, "51.5", rows[3][0])
	assert.Equal(t, "2026-08-03", rows[3][3])
}

func TestBuildCSV_PictureThumbnailResolution(t *testing.T) {
	p := NewProjector()

	records := []domain.Record{
		{
			"Picture": []any{map[string]any{
				"url": "https://files.example/direct.jpg",
				"thumbnails": map[string]any{
					"large": map[string]any{"url": "https://files.example/large.jpg"},
				},
			}},
		},
		{
			"Picture": []any{map[string]any{"url": "https://files.example/direct-only.jpg"}},
		},
		{},
	}

	doc, err := p.BuildCSV(records)
	require.NoError(t, err)

	rows := parseCSV(t, doc)
	pictureCol := 2
	assert.Equal(t, "https://files.example/large.jpg", rows[1][pictureCol])
	assert.Equal(t, "https://files.example/direct-only.jpg", rows[2][pictureCol])
	assert.Equal(t, "", rows[3][pictureCol])
}

func TestBuildCSV_RoundTrip(t *testing.T) {
	p := NewProjector()

	records := []domain.Record{
		{"Latitude": 1.5, "Longitude": -2.25, "Submitted At": `has "quotes", commas`},
		{"Latitude": 0.0, "Longitude": 0.0, "Submitted At": "line\nbreak"},
	}

	doc, err := p.BuildCSV(records)
	require.NoError(t, err)

	rows := parseCSV(t, doc)
	require.Len(t, rows, 3)
	assert.Equal(t, ExportFields, rows[0])
	assert.Equal(t, []string{"1.5", "-2.25", "", `has "quotes", commas`}, rows[1])
	assert.Equal(t, []string{"0", "0", "", "line\nbreak"}, rows[2])
}

func TestNewProjector_CustomFields(t *testing.T) {
	p := NewProjector("A", "B")

	doc, err := p.BuildCSV([]domain.Record{{"B": "b-val"}})
	require.NoError(t, err)

	rows := parseCSV(t, doc)
	assert.Equal(t, []string{"A", "B"}, rows[0])
	assert.Equal(t, []string{"", "b-val"}, rows[1])
}
