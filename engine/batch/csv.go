package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// File is a parsed input CSV: a header, its rows, and the index of the
// query column.
type File struct {
	Header   []string
	Rows     [][]string
	queryIdx int
}

// ReadFile parses the CSV at path and locates the query column by name.
func ReadFile(path, queryColumn string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("input CSV is empty")
	}

	header := records[0]
	queryIdx := -1
	for i, name := range header {
		if name == queryColumn {
			queryIdx = i
			break
		}
	}
	if queryIdx < 0 {
		return nil, fmt.Errorf("column %q not found in CSV header", queryColumn)
	}

	return &File{Header: header, Rows: records[1:], queryIdx: queryIdx}, nil
}

// Queries returns the query column values in row order.
func (f *File) Queries() []string {
	queries := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		if f.queryIdx < len(row) {
			queries[i] = row[f.queryIdx]
		}
	}
	return queries
}

// WriteResults writes the original rows augmented with answer, error,
// citations_count, and success columns. Results must be in row order.
func (f *File) WriteResults(path string, results []Result) error {
	if len(results) != len(f.Rows) {
		return fmt.Errorf("result count %d does not match row count %d", len(results), len(f.Rows))
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	header := append(append([]string{}, f.Header...), "answer", "error", "citations_count", "success")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range f.Rows {
		r := results[i]
		record := append(append([]string{}, row...),
			r.Answer,
			r.Error,
			strconv.Itoa(r.CitationsCount),
			strconv.FormatBool(r.Success),
		)
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}
