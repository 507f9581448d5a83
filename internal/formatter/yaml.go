package formatter

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tordrt/cardgen/internal/schema"
)

// YAMLFormatter writes tables as a graph file that schema.LoadFile accepts
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the tables as a graph document
func (f *YAMLFormatter) Format(tables []schema.Table) error {
	enc := yaml.NewEncoder(f.writer)
	enc.SetIndent(2)
	if err := enc.Encode(schema.File{Tables: tables}); err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	return enc.Close()
}
