package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/cardgen/internal/schema"
)

// SchemaExtractor reads tables, foreign keys and predicate ranges from a
// live database
type SchemaExtractor interface {
	// ExtractSchema extracts the specified tables, or every table when
	// tables is empty.
	ExtractSchema(ctx context.Context, tables []string) ([]schema.Table, error)
}

// columnRanger returns the MIN and MAX of a numeric column; ok is false
// when the column holds no values
type columnRanger func(ctx context.Context, table, column string) (low, high float64, ok bool, err error)

// numericTypes are substrings identifying numeric column types across
// PostgreSQL data_type, MySQL data_type and SQLite declared types
var numericTypes = []string{"int", "numeric", "decimal", "real", "double", "float"}

func isNumericType(colType string) bool {
	t := strings.ToLower(colType)
	if strings.Contains(t, "interval") || strings.Contains(t, "point") {
		return false
	}
	for _, n := range numericTypes {
		if strings.Contains(t, n) {
			return true
		}
	}
	return false
}

// derivePredicates turns every numeric, non primary key column holding a
// non-degenerate range into a predicate column
func derivePredicates(ctx context.Context, table *schema.Table, ranger columnRanger) error {
	pk := make(map[string]bool, len(table.PrimaryKey))
	for _, c := range table.PrimaryKey {
		pk[c] = true
	}

	for _, col := range table.Columns {
		if pk[col.Name] || !isNumericType(col.Type) {
			continue
		}
		low, high, ok, err := ranger(ctx, table.Name, col.Name)
		if err != nil {
			return fmt.Errorf("failed to read range of %s.%s: %w", table.Name, col.Name, err)
		}
		if !ok || !(high > low) {
			continue
		}
		table.Predicates = append(table.Predicates, schema.PredicateColumn{
			Column: col.Name,
			Low:    low,
			High:   high,
		})
	}
	return nil
}

// qualifyColumns prefixes join and predicate columns with their table name.
// Extracted schemas routinely reuse column names ("id") across tables, which
// would make join conditions ambiguous and collapse feature vector slots.
func qualifyColumns(tables []schema.Table) {
	for i := range tables {
		t := &tables[i]
		for j := range t.Relations {
			rel := &t.Relations[j]
			rel.SourceColumn = t.Name + "." + rel.SourceColumn
			rel.TargetColumn = rel.TargetTable + "." + rel.TargetColumn
		}
		for j := range t.Predicates {
			t.Predicates[j].Column = t.Name + "." + t.Predicates[j].Column
		}
	}
}

// extractTables runs extractTable over every table name and qualifies the result
func extractTables(ctx context.Context, names []string, extractTable func(context.Context, string) (*schema.Table, error)) ([]schema.Table, error) {
	extracted := make([]schema.Table, 0, len(names))
	for _, name := range names {
		table, err := extractTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", name, err)
		}
		extracted = append(extracted, *table)
	}
	qualifyColumns(extracted)
	return extracted, nil
}
