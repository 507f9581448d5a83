package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PostgresClient manages a single connection to PostgreSQL
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{conn: conn}, nil
}

// ExplainAnalyze runs EXPLAIN ANALYZE and returns the first plan line
func (c *PostgresClient) ExplainAnalyze(ctx context.Context, query string) (string, error) {
	rows, err := c.conn.Query(ctx, "EXPLAIN ANALYZE "+query)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", err
		}
		return "", errors.New("plan analysis returned no rows")
	}

	var plan string
	if err := rows.Scan(&plan); err != nil {
		return "", err
	}
	return plan, nil
}

// Close closes the database connection
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// GetConnection returns the underlying connection
func (c *PostgresClient) GetConnection() *pgx.Conn {
	return c.conn
}

// PostgresConnector opens a fresh PostgreSQL connection per task
type PostgresConnector struct {
	config *pgx.ConnConfig
}

// NewPostgresConnector validates connString once so tasks do not each fail
// on a malformed URL
func NewPostgresConnector(connString string) (*PostgresConnector, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL connection string: %w", err)
	}
	return &PostgresConnector{config: cfg}, nil
}

// Connect opens a new connection
func (p *PostgresConnector) Connect(ctx context.Context) (Conn, error) {
	conn, err := pgx.ConnectConfig(ctx, p.config.Copy())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &PostgresClient{conn: conn}, nil
}

// Close is a no-op; every connection is closed by its task
func (p *PostgresConnector) Close() error {
	return nil
}
