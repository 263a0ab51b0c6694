package dataset

import (
	"bytes"
	"fmt"
	"io"

	"github.com/anrid/xls"

	"github.com/couchcryptid/disaster-scatter/internal/domain"
)

// ReadXLS parses the first sheet of a legacy BIFF8 (.xls) workbook with a
// header row.
func ReadXLS(r io.Reader) ([]domain.RawRecord, error) {
	// The BIFF reader needs random access.
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read xls: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	wb, err := xls.OpenReader(rs, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	// A compound file without a Workbook stream opens without error.
	if wb == nil {
		return nil, fmt.Errorf("open xls: no workbook stream: %w", ErrEmptyTable)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyTable
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		cols := make([]string, 0, row.LastCol()+1)
		for j := 0; j <= row.LastCol(); j++ {
			cols = append(cols, row.Col(j))
		}
		rows = append(rows, cols)
	}
	return fromRows(rows)
}
