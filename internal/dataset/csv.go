// Package dataset persists accident records as flat files: a CSV
// table with a UTF-8 byte-order mark and a JSON record array. The two
// formats round-trip exactly for non-null values.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/ppiankov/sanket/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes records to path as a UTF-8-with-BOM CSV file with
// the canonical header. Nil fields become empty cells.
func WriteCSV(path string, records []model.AccidentRecord) error {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(model.CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range records {
		if err := w.Write(rec.Columns()); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadCSV loads records from a CSV file written by WriteCSV. Empty
// cells load as nil fields; a file with only a header yields an empty
// record set.
func ReadCSV(path string) ([]model.AccidentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(model.CSVHeader)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}
	for i, col := range rows[0] {
		if col != model.CSVHeader[i] {
			return nil, fmt.Errorf("%s: unexpected column %q at position %d", path, col, i)
		}
	}

	records := make([]model.AccidentRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, fromColumns(row))
	}
	return records, nil
}

func fromColumns(row []string) model.AccidentRecord {
	cell := func(i int) *string {
		if row[i] == "" {
			return nil
		}
		v := row[i]
		return &v
	}
	return model.AccidentRecord{
		Date:          cell(0),
		Mine:          cell(1),
		Time:          cell(2),
		Owner:         cell(3),
		District:      cell(4),
		State:         cell(5),
		PersonsKilled: cell(6),
		Description:   cell(7),
		Precaution:    cell(8),
	}
}
