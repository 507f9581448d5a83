package records

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// AnnotatedWriter appends labeled rows. Every Append hands the complete row
// to the underlying writer in a single call and syncs it when the writer is
// a file, so a crash never leaves a truncated row behind.
type AnnotatedWriter struct {
	out  io.Writer
	file *os.File
	buf  bytes.Buffer
	enc  *csv.Writer
}

// NewAnnotatedWriter wraps an io.Writer
func NewAnnotatedWriter(w io.Writer) *AnnotatedWriter {
	aw := &AnnotatedWriter{out: w}
	aw.enc = csv.NewWriter(&aw.buf)
	return aw
}

// CreateAnnotated creates (or truncates) the annotated dataset at path
func CreateAnnotated(path string) (*AnnotatedWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create annotated output file: %w", err)
	}
	aw := NewAnnotatedWriter(f)
	aw.file = f
	return aw, nil
}

// Append writes the feature fields followed by the estimated and actual row
// counts, and returns once the row is durable
func (w *AnnotatedWriter) Append(features []string, estimated, actual int64) error {
	row := make([]string, 0, len(features)+2)
	row = append(row, features...)
	row = append(row, strconv.FormatInt(estimated, 10), strconv.FormatInt(actual, 10))

	w.buf.Reset()
	if err := w.enc.Write(row); err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}
	w.enc.Flush()
	if err := w.enc.Error(); err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}

	if _, err := w.out.Write(w.buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	if w.file != nil {
		if err := w.file.Sync(); err != nil {
			return fmt.Errorf("failed to sync output: %w", err)
		}
	}
	return nil
}

// Close closes the file opened by CreateAnnotated, if any
func (w *AnnotatedWriter) Close() error {
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}
