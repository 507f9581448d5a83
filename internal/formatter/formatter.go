// Package formatter renders join graphs for people (text, markdown) and for
// cardgen itself (YAML graph files).
package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/cardgen/internal/schema"
)

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

// Formatter writes a list of tables
type Formatter interface {
	Format(tables []schema.Table) error
}

// New returns the formatter for format
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case FormatText:
		return NewTextFormatter(w), nil
	case FormatMarkdown:
		return NewMarkdownFormatter(w), nil
	case FormatYAML:
		return NewYAMLFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'text', 'markdown' or 'yaml')", format)
	}
}
