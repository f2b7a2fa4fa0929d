package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tordrt/dbedit/internal/schema"
)

// MySQLInspector reads table metadata from MySQL's information_schema
type MySQLInspector struct {
	db *sql.DB
}

// NewMySQLInspector creates a new MySQL catalog inspector
func NewMySQLInspector(db *sql.DB) *MySQLInspector {
	return &MySQLInspector{db: db}
}

// Tables lists the base tables of a database
func (e *MySQLInspector) Tables(ctx context.Context, database string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.db.QueryContext(ctx, query, database)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

// Columns reads the column rows of one table
func (e *MySQLInspector) Columns(ctx context.Context, database, table string) ([]schema.RawColumn, error) {
	query := `
		SELECT
			column_name,
			column_type,
			data_type,
			column_key,
			is_nullable,
			column_default,
			ordinal_position,
			character_maximum_length,
			character_octet_length,
			column_comment,
			extra
		FROM information_schema.columns
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := e.db.QueryContext(ctx, query, database, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []schema.RawColumn
	for rows.Next() {
		var col schema.RawColumn
		var defaultVal, position, charMax, charOctet sql.NullString

		if err := rows.Scan(
			&col.Name, &col.ColumnType, &col.DataType, &col.ColumnKey, &col.IsNullable,
			&defaultVal, &position, &charMax, &charOctet, &col.Comment, &col.Extra,
		); err != nil {
			return nil, err
		}

		col.Default = optional(defaultVal)
		col.OrdinalPosition = optional(position)
		col.CharMaxLength = optional(charMax)
		col.CharOctetLength = optional(charOctet)
		columns = append(columns, col)
	}

	return columns, rows.Err()
}
