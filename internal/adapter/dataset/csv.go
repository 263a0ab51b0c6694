package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/couchcryptid/disaster-scatter/internal/domain"
)

// ReadCSV parses a CSV table with a header row.
func ReadCSV(r io.Reader) ([]domain.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idx, err := newColumnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []domain.RawRecord //nolint:prealloc // size depends on file contents
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		records = append(records, idx.record(row))
	}
	return records, nil
}
