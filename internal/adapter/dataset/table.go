// Package dataset reads the disaster table from CSV, XLSX and XLS files into
// typed raw records.
package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/disaster-scatter/internal/domain"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")

	// ErrUnsupportedFormat is returned for files that are not CSV, XLSX or XLS.
	ErrUnsupportedFormat = errors.New("unsupported data format")

	// ErrEmptyTable is returned when the table has no header row.
	ErrEmptyTable = errors.New("table has no header row")
)

// columnIndex maps the columns this service reads to their header positions.
// Absent optional columns have index -1.
type columnIndex struct {
	country      int
	startYear    int
	totalDeaths  int
	group        int
	subgroup     int
	disasterType int
	subtype      int
}

func newColumnIndex(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	for _, required := range domain.RequiredColumns {
		if _, ok := pos[required]; !ok {
			return columnIndex{}, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}

	lookup := func(name string) int {
		if i, ok := pos[name]; ok {
			return i
		}
		return -1
	}

	return columnIndex{
		country:      lookup(domain.ColumnCountry),
		startYear:    lookup(domain.ColumnStartYear),
		totalDeaths:  lookup(domain.ColumnTotalDeaths),
		group:        lookup(domain.ColumnGroup),
		subgroup:     lookup(domain.ColumnSubgroup),
		disasterType: lookup(domain.ColumnType),
		subtype:      lookup(domain.ColumnSubtype),
	}, nil
}

// record builds a RawRecord from one data row. Short rows yield empty strings
// for the missing cells.
func (c columnIndex) record(row []string) domain.RawRecord {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}
	return domain.RawRecord{
		Country:     cell(c.country),
		StartYear:   cell(c.startYear),
		TotalDeaths: cell(c.totalDeaths),
		Group:       cell(c.group),
		Subgroup:    cell(c.subgroup),
		Type:        cell(c.disasterType),
		Subtype:     cell(c.subtype),
	}
}

// fromRows converts a header row plus data rows into raw records.
func fromRows(rows [][]string) ([]domain.RawRecord, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	idx, err := newColumnIndex(rows[0])
	if err != nil {
		return nil, err
	}
	records := make([]domain.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, idx.record(row))
	}
	return records, nil
}
