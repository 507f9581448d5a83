package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/cardgen/internal/schema"
)

func TestIsNumericType(t *testing.T) {
	tests := []struct {
		colType string
		want    bool
	}{
		{"integer", true},
		{"bigint", true},
		{"INTEGER", true},
		{"numeric", true},
		{"decimal", true},
		{"double precision", true},
		{"REAL", true},
		{"float", true},
		{"tinyint", true},
		{"character varying", false},
		{"text", false},
		{"date", false},
		{"interval", false},
		{"point", false},
		{"timestamp with time zone", false},
	}

	for _, tt := range tests {
		t.Run(tt.colType, func(t *testing.T) {
			assert.Equal(t, tt.want, isNumericType(tt.colType))
		})
	}
}

func TestQualifyColumns(t *testing.T) {
	tables := []schema.Table{
		{
			Name:       "orders",
			Relations:  []schema.Relation{{TargetTable: "customer", SourceColumn: "customer_id", TargetColumn: "id"}},
			Predicates: []schema.PredicateColumn{{Column: "total", Low: 0, High: 10}},
		},
	}
	qualifyColumns(tables)

	assert.Equal(t, "orders.customer_id = customer.id", tables[0].Relations[0].JoinCondition())
	assert.Equal(t, "orders.total", tables[0].Predicates[0].Column)
}

func newTestSQLite(t *testing.T) *SQLiteClient {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "tpch.db")
	setup, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer func() { _ = setup.Close() }()

	stmts := []string{
		`CREATE TABLE nation (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE customer (
			id INTEGER PRIMARY KEY,
			nation_id INTEGER REFERENCES nation(id),
			acctbal REAL,
			empty_score REAL,
			constant INTEGER
		)`,
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			customer_id INTEGER REFERENCES customer(id),
			total DECIMAL(12,2),
			comment TEXT
		)`,
		`INSERT INTO nation VALUES (1, 'FRANCE'), (2, 'PERU')`,
		`INSERT INTO customer VALUES (1, 1, -10.5, NULL, 7), (2, 2, 99.25, NULL, 7)`,
		`INSERT INTO orders VALUES (1, 1, 5.00, 'a'), (2, 2, 250.50, 'b'), (3, 2, 42.00, 'c')`,
	}
	for _, stmt := range stmts {
		_, err := setup.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	client, err := NewSQLiteClient(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewSQLiteClientMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")

	_, err := NewSQLiteClient(context.Background(), path)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no database file may be created")
}

func TestSQLiteClientIsReadOnly(t *testing.T) {
	client := newTestSQLite(t)

	_, err := client.GetDB().Exec(`DELETE FROM orders`)
	assert.Error(t, err)
}

func TestSQLiteExtractor(t *testing.T) {
	ctx := context.Background()
	extractor := NewSQLiteExtractor(newTestSQLite(t))

	tables, err := extractor.ExtractSchema(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tables, 3)

	byName := make(map[string]schema.Table)
	for _, table := range tables {
		byName[table.Name] = table
	}

	customer := byName["customer"]
	assert.Equal(t, []string{"id"}, customer.PrimaryKey)
	require.Len(t, customer.Relations, 1)
	assert.Equal(t, "customer.nation_id = nation.id", customer.Relations[0].JoinCondition())
	// empty_score has no values and constant a degenerate range
	assert.Equal(t, []schema.PredicateColumn{
		{Column: "customer.nation_id", Low: 1, High: 2},
		{Column: "customer.acctbal", Low: -10.5, High: 99.25},
	}, customer.Predicates)

	orders := byName["orders"]
	assert.Equal(t, []schema.PredicateColumn{
		{Column: "orders.customer_id", Low: 1, High: 2},
		{Column: "orders.total", Low: 5, High: 250.5},
	}, orders.Predicates)

	assert.Empty(t, byName["nation"].Relations)
	assert.Empty(t, byName["nation"].Predicates)

	g, err := schema.NewGraph(tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"customer", "nation", "orders"}, g.Relations())
}

func TestSQLiteExtractorSpecificTables(t *testing.T) {
	extractor := NewSQLiteExtractor(newTestSQLite(t))

	tables, err := extractor.ExtractSchema(context.Background(), []string{"nation"})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "nation", tables[0].Name)
}
