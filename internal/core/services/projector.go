package services

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/posterwatch/mapsync-cli/internal/core/domain"
)

// ExportFields is the CSV column list, in order. The order is a
// published contract with the consuming map layer and must not change.
var ExportFields = []string{"Latitude", "Longitude", "Picture", "Submitted At"}

// Projector turns records into a CSV document with a fixed header.
type Projector struct {
	fields []string
}

// NewProjector creates a projector for the given field list.
// No fields means the standard export columns.
func NewProjector(fields ...string) *Projector {
	if len(fields) == 0 {
		fields = ExportFields
	}
	return &Projector{fields: fields}
}

// Fields returns the projector's column list.
func (p *Projector) Fields() []string {
	return p.fields
}

// BuildCSV serialises the records as an RFC-4180 CSV document: the
// fixed header followed by one row per record, in input order. The
// header is always emitted in full, regardless of which fields exist
// on the records. Missing fields project to empty cells and never
// fail; only an encoding failure raises domain.ErrSerialization.
func (p *Projector) BuildCSV(records []domain.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(p.fields); err != nil {
		return nil, fmt.Errorf("%w: write header: %w", domain.ErrSerialization, err)
	}

	row := make([]string, len(p.fields))
	for _, rec := range records {
		for i, field := range p.fields {
			row[i] = rec.CellValue(field)
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("%w: write row: %w", domain.ErrSerialization, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: flush: %w", domain.ErrSerialization, err)
	}

	return buf.Bytes(), nil
}
