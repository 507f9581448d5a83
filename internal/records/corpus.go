// Package records reads and writes the comma-delimited record stores of the
// pipeline: the generated query corpus and the annotated dataset.
package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// CorpusRow is one persisted generated query
type CorpusRow struct {
	Line     int
	SQL      string
	Features []string
}

// CorpusWriter writes generated queries as sql_text followed by the
// flattened feature fields
type CorpusWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCorpusWriter wraps an io.Writer
func NewCorpusWriter(w io.Writer) *CorpusWriter {
	return &CorpusWriter{writer: csv.NewWriter(w)}
}

// CreateCorpus creates (or truncates) the corpus file at path
func CreateCorpus(path string) (*CorpusWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create corpus file: %w", err)
	}
	cw := NewCorpusWriter(f)
	cw.file = f
	return cw, nil
}

// Write appends one query row
func (w *CorpusWriter) Write(sql string, features []string) error {
	row := make([]string, 0, len(features)+1)
	row = append(row, sql)
	row = append(row, features...)
	return w.writer.Write(row)
}

// Close flushes buffered rows and closes the underlying file, if any
func (w *CorpusWriter) Close() error {
	w.writer.Flush()
	err := w.writer.Error()
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// ReadCorpus reads every corpus row from r. When width is positive each row
// must carry exactly width feature fields after the query text.
func ReadCorpus(r io.Reader, width int) ([]CorpusRow, error) {
	reader := csv.NewReader(r)
	if width > 0 {
		reader.FieldsPerRecord = width + 1
	} else {
		reader.FieldsPerRecord = -1
	}

	var rows []CorpusRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus row %d: %w", len(rows)+1, err)
		}
		if len(record) == 0 || record[0] == "" {
			return nil, fmt.Errorf("corpus row %d has no query text", len(rows)+1)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, CorpusRow{
			Line:     line,
			SQL:      record[0],
			Features: record[1:],
		})
	}
	return rows, nil
}

// ReadCorpusFile reads a corpus from disk
func ReadCorpusFile(path string, width int) ([]CorpusRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadCorpus(f, width)
}
