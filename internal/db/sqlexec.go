package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tordrt/dbedit/internal/schema"
)

// SQLExecutor runs raw statements over database/sql. Embedded by the MySQL
// and SQLite clients.
type SQLExecutor struct {
	DB     *sql.DB
	Logger *slog.Logger
}

func (e *SQLExecutor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Close closes the database connection
func (e *SQLExecutor) Close() error {
	if e.DB == nil {
		return nil
	}
	e.logger().Debug("closing database connection")
	return e.DB.Close()
}

// GetDB returns the underlying database connection
func (e *SQLExecutor) GetDB() *sql.DB {
	return e.DB
}

// Query runs a statement returning rows
func (e *SQLExecutor) Query(ctx context.Context, sqlStr string) (*Result, error) {
	if e.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	e.logger().Debug("executing query", "sql", sqlStr)

	rows, err := e.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanResult(rows)
}

// Exec runs a statement returning an affected-row count
func (e *SQLExecutor) Exec(ctx context.Context, sqlStr string) (int64, error) {
	if e.DB == nil {
		return 0, fmt.Errorf("database connection not established")
	}
	e.logger().Debug("executing statement", "sql", sqlStr)

	res, err := e.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return 0, fmt.Errorf("failed to execute statement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

// Execute runs any statement, choosing Query or Exec by its leading keyword
func (e *SQLExecutor) Execute(ctx context.Context, sqlStr string) (*Result, error) {
	if returnsRows(sqlStr) {
		return e.Query(ctx, sqlStr)
	}
	n, err := e.Exec(ctx, sqlStr)
	if err != nil {
		return nil, err
	}
	return &Result{RowsAffected: n}, nil
}

// FetchRow runs a lookup and returns its first row
func (e *SQLExecutor) FetchRow(ctx context.Context, sqlStr string) (schema.Row, bool, error) {
	res, err := e.Query(ctx, sqlStr)
	if err != nil {
		return nil, false, err
	}
	row, ok := firstRow(res)
	return row, ok, nil
}

func scanResult(rows *sql.Rows) (*Result, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	res := &Result{IsQuery: true, Columns: make([]string, len(colTypes))}
	typeNames := make([]string, len(colTypes))
	for i, ct := range colTypes {
		res.Columns[i] = ct.Name()
		typeNames[i] = ct.DatabaseTypeName()
	}

	for rows.Next() {
		values := make([]any, len(colTypes))
		ptrs := make([]any, len(colTypes))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
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
