package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient is a read-only handle on an SQLite database file
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens an existing database file read-only. A missing file
// is an error rather than a new, empty database.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// Close closes the database handle
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying handle
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}
