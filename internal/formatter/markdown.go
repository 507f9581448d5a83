package formatter

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/tordrt/cardgen/internal/schema"
)

// MarkdownFormatter formats a join graph as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the tables in markdown format
func (f *MarkdownFormatter) Format(tables []schema.Table) error {
	_, _ = fmt.Fprintln(f.writer, "# Join Graph")
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range tables {
		if err := f.formatTable(table); err != nil {
			return err
		}
	}
	return nil
}

func (f *MarkdownFormatter) formatTable(table schema.Table) error {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table.Name)

	if len(table.Columns) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Columns")
		_, _ = fmt.Fprintln(f.writer)
		for _, col := range table.Columns {
			if c := formatConstraints(col, table.PrimaryKey); c != "" {
				_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", col.Name, col.Type, c)
			} else {
				_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", col.Name, col.Type)
			}
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(table.Relations) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Joins")
		_, _ = fmt.Fprintln(f.writer)
		for _, rel := range table.Relations {
			_, _ = fmt.Fprintf(f.writer, "- %s → %s\n", rel.SourceColumn, joinTarget(rel))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(table.Predicates) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Predicates")
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "| Column | Low | High |")
		_, _ = fmt.Fprintln(f.writer, "|---|---|---|")
		for _, p := range table.Predicates {
			_, _ = fmt.Fprintf(f.writer, "| %s | %s | %s |\n", p.Column, formatBound(p.Low), formatBound(p.High))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	return nil
}

// joinTarget qualifies the target column with its table unless extraction
// already did
func joinTarget(rel schema.Relation) string {
	if strings.HasPrefix(rel.TargetColumn, rel.TargetTable+".") {
		return rel.TargetColumn
	}
	return rel.TargetTable + "." + rel.TargetColumn
}

func formatConstraints(col schema.Column, primaryKey []string) string {
	var constraints []string
	if slices.Contains(primaryKey, col.Name) {
		constraints = append(constraints, "PK")
	}
	if !col.Nullable {
		constraints = append(constraints, "NOT NULL")
	}
	return strings.Join(constraints, ", ")
}
