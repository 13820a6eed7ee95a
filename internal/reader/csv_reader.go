package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// CSVReader streams rows of a headed CSV file as column->value maps.
type CSVReader struct {
	reader  *csv.Reader
	headers []string
	line    int
}

func NewCSVReader(r io.Reader) *CSVReader {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &CSVReader{reader: cr}
}

// Next returns the next row. It returns io.EOF after the last row.
// A malformed row yields a RowError; the reader stays usable.
func (cr *CSVReader) Next() (map[string]string, error) {
	if cr.headers == nil {
		headers, err := cr.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("failed to read csv headers: %w", err)
		}
		cr.headers = append([]string(nil), headers...)
		cr.line++
	}

	row, err := cr.reader.Read()
	cr.line++
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &RowError{Line: cr.line, Err: err}
	}
	if len(row) != len(cr.headers) {
		return nil, &RowError{Line: cr.line, Err: fmt.Errorf("expected %d columns, got %d", len(cr.headers), len(row))}
	}

	record := make(map[string]string, len(cr.headers))
	for i, h := range cr.headers {
		record[h] = row[i]
	}
	return record, nil
}

// Read returns all remaining rows.
func (cr *CSVReader) Read() ([]map[string]string, error) {
	var records []map[string]string
	for {
		record, err := cr.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("csv line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
