package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tordrt/cardgen/internal/schema"
)

// TextFormatter formats a join graph as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the tables in compact text format
func (f *TextFormatter) Format(tables []schema.Table) error {
	for i, table := range tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}

		if err := f.formatTable(table); err != nil {
			return err
		}
	}
	return nil
}

// FormatLayout writes the feature vector layout: one line per relation flag
// and per predicate column, in encoding order
func (f *TextFormatter) FormatLayout(g *schema.Graph) error {
	_, _ = fmt.Fprintf(f.writer, "FEATURES (%d)\n", g.FeatureWidth())

	pos := 0
	for _, rel := range g.Relations() {
		_, _ = fmt.Fprintf(f.writer, "  %3d  relation %s\n", pos, rel)
		pos++
	}
	for _, col := range g.PredicateColumns() {
		_, _ = fmt.Fprintf(f.writer, "  %3d  predicate %s\n", pos, col)
		pos++
	}
	return nil
}

func (f *TextFormatter) formatTable(table schema.Table) error {
	// Table header with primary key
	pkStr := ""
	if len(table.PrimaryKey) > 0 {
		pkStr = fmt.Sprintf(" (PK: %s)", strings.Join(table.PrimaryKey, ", "))
	}
	_, _ = fmt.Fprintf(f.writer, "TABLE %s%s\n", table.Name, pkStr)

	// Columns, only known for extracted schemas
	for _, col := range table.Columns {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", formatColumn(col))
	}

	if len(table.Relations) > 0 {
		_, _ = fmt.Fprintln(f.writer, "  JOINS:")
		for _, rel := range table.Relations {
			_, _ = fmt.Fprintf(f.writer, "    → %s ON %s\n", rel.TargetTable, rel.JoinCondition())
		}
	}

	if len(table.Predicates) > 0 {
		_, _ = fmt.Fprintln(f.writer, "  PREDICATES:")
		for _, p := range table.Predicates {
			_, _ = fmt.Fprintf(f.writer, "    %s [%s, %s]\n", p.Column, formatBound(p.Low), formatBound(p.High))
		}
	}

	return nil
}

func formatColumn(col schema.Column) string {
	parts := []string{col.Name + ":", col.Type}
	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}
	return strings.Join(parts, " ")
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
