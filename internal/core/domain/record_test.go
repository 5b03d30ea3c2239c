package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellValue_Scalars(t *testing.T) {
	rec := Record{
		"Latitude":     52.5163,
		"Longitude":    13.3777,
		"Submitted At": "2026-08-20T09:15:00.000Z",
		"Flagged":      true,
	}

	assert.Equal(t, "52.5163", rec.CellValue("Latitude"))
	assert.Equal(t, "13.3777", rec.CellValue("Longitude"))
	assert.Equal(t, "2026-08-20T09:15:00.000Z", rec.CellValue("Submitted At"))
	assert.Equal(t, "true", rec.CellValue("Flagged"))
}

func TestCellValue_MissingField(t *testing.T) {
	rec := Record{"Latitude": 1.0}

	assert.Equal(t, "", rec.CellValue("Picture"))
	assert.Equal(t, "", rec.CellValue("No Such Field"))
}

func TestCellValue_NilValue(t *testing.T) {
	rec := Record{"Picture": nil}

	assert.Equal(t, "", rec.CellValue("Picture"))
}

func TestCellValue_AttachmentLargeThumbnail(t *testing.T) {
	rec := Record{
		"Picture": []any{
			map[string]any{
				"url": "https://files.example/full.jpg",
				"thumbnails": map[string]any{
					"large": map[string]any{"url": "https://files.example/large.jpg"},
					"small": map[string]any{"url": "https://files.example/small.jpg"},
				},
			},
		},
	}

	assert.Equal(t, "https://files.example/large.jpg", rec.CellValue("Picture"))
}

func TestCellValue_AttachmentDirectURLFallback(t *testing.T) {
	rec := Record{
		"Picture": []any{
			map[string]any{"url": "https://files.example/full.jpg"},
		},
	}

	assert.Equal(t, "https://files.example/full.jpg", rec.CellValue("Picture"))
}

func TestCellValue_AttachmentWithoutURLs(t *testing.T) {
	rec := Record{
		"Picture": []any{
			map[string]any{"filename": "poster.jpg"},
		},
	}

	assert.Equal(t, "", rec.CellValue("Picture"))
}

func TestCellValue_EmptyAttachmentArray(t *testing.T) {
	rec := Record{"Picture": []any{}}

	assert.Equal(t, "", rec.CellValue("Picture"))
}

func TestCellValue_FirstAttachmentWins(t *testing.T) {
	rec := Record{
		"Picture": []any{
			map[string]any{"url": "https://files.example/first.jpg"},
			map[string]any{"url": "https://files.example/second.jpg"},
		},
	}

	assert.Equal(t, "https://files.example/first.jpg", rec.CellValue("Picture"))
}
