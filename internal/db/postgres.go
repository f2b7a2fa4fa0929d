package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/tordrt/dbedit/internal/schema"
)

// PostgresClient manages the connection to PostgreSQL
type PostgresClient struct {
	conn   *pgx.Conn
	logger *slog.Logger
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(ctx context.Context, connString string, logger *slog.Logger) (*PostgresClient, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresClient{conn: conn, logger: logger}, nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	c.logger.Debug("closing database connection")
	return c.conn.Close(context.Background())
}

// GetConnection returns the underlying connection
func (c *PostgresClient) GetConnection() *pgx.Conn {
	return c.conn
}

// Query runs a statement returning rows
func (c *PostgresClient) Query(ctx context.Context, sql string) (*Result, error) {
	res, err := c.Execute(ctx, sql)
	if err != nil {
		return nil, err
	}
	if !res.IsQuery {
		return nil, fmt.Errorf("statement returned no rows: %s", sql)
	}
	return res, nil
}

// Exec runs a statement returning an affected-row count
func (c *PostgresClient) Exec(ctx context.Context, sql string) (int64, error) {
	c.logger.Debug("executing statement", "sql", sql)

	tag, err := c.conn.Exec(ctx, sql)
	if err != nil {
		return 0, fmt.Errorf("failed to execute statement: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Execute runs any statement. Statements without a row description report
// their command tag's affected-row count.
func (c *PostgresClient) Execute(ctx context.Context, sql string) (*Result, error) {
	c.logger.Debug("executing query", "sql", sql)

	rows, err := c.conn.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	if len(fields) == 0 {
		for rows.Next() {
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to execute statement: %w", err)
		}
		return &Result{RowsAffected: rows.CommandTag().RowsAffected()}, nil
	}

	res := &Result{IsQuery: true, Columns: make([]string, len(fields))}
	typeNames := make([]string, len(fields))
	typeMap := c.conn.TypeMap()
	for i, f := range fields {
		res.Columns[i] = f.Name
		if t, ok := typeMap.TypeForOID(f.DataTypeOID); ok {
			typeNames[i] = normalizeUdtName(t.Name)
		}
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(schema.Row, len(values))
		for i, v := range values {
			row[res.Columns[i]] = DecodeValue(v, typeNames[i])
		}
		res.Rows = append(res.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return res, nil
}

// FetchRow runs a lookup and returns its first row
func (c *PostgresClient) FetchRow(ctx context.Context, sql string) (schema.Row, bool, error) {
	res, err := c.Query(ctx, sql)
	if err != nil {
		return nil, false, err
	}
	row, ok := firstRow(res)
	return row, ok, nil
}
