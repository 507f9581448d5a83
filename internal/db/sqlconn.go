package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLConnector hands out dedicated connections from a database/sql handle
type SQLConnector struct {
	db *sql.DB
}

// NewSQLConnector wraps db. Connections are returned to db when closed, so
// callers wanting a fresh connection per task set db.SetMaxIdleConns(0).
func NewSQLConnector(db *sql.DB) *SQLConnector {
	return &SQLConnector{db: db}
}

// Connect reserves a dedicated connection
func (s *SQLConnector) Connect(ctx context.Context) (Conn, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &sqlConn{conn: conn}, nil
}

// Close closes the underlying handle
func (s *SQLConnector) Close() error {
	return s.db.Close()
}

type sqlConn struct {
	conn *sql.Conn
}

func (c *sqlConn) ExplainAnalyze(ctx context.Context, query string) (string, error) {
	rows, err := c.conn.QueryContext(ctx, "EXPLAIN ANALYZE "+query)
	if err != nil {
		return "", err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}
	if len(cols) == 0 {
		return "", errors.New("plan analysis returned no columns")
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", err
		}
		return "", errors.New("plan analysis returned no rows")
	}

	var plan sql.NullString
	dest := make([]any, len(cols))
	dest[0] = &plan
	for i := 1; i < len(dest); i++ {
		dest[i] = new(sql.RawBytes)
	}
	if err := rows.Scan(dest...); err != nil {
		return "", err
	}
	return plan.String, nil
}

func (c *sqlConn) Close(context.Context) error {
	return c.conn.Close()
}
