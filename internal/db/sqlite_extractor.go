package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/tordrt/dbedit/internal/dialect"
	"github.com/tordrt/dbedit/internal/schema"
)

// SQLiteInspector reads table metadata through SQLite pragmas
type SQLiteInspector struct {
	db *sql.DB
}

// NewSQLiteInspector creates a new SQLite catalog inspector
func NewSQLiteInspector(db *sql.DB) *SQLiteInspector {
	return &SQLiteInspector{db: db}
}

// Tables lists the user tables of an attached database
func (e *SQLiteInspector) Tables(ctx context.Context, database string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT name
		FROM %s
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%%'
		ORDER BY name
	`, qualify(database, "sqlite_master"))

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tableList []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tableList = append(tableList, tableName)
	}

	return tableList, rows.Err()
}

// Columns reads PRAGMA table_info. A lone INTEGER primary key aliases the
// rowid and is reported as auto_increment.
func (e *SQLiteInspector) Columns(ctx context.Context, database, table string) ([]schema.RawColumn, error) {
	query := fmt.Sprintf("PRAGMA %s(%s)", qualify(database, "table_info"), dialect.SQLite.QuoteIdent(table))

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []schema.RawColumn
	var pkCount int
	intKey := -1

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}

		position := strconv.Itoa(cid + 1)
		col := schema.RawColumn{
			Name:            name,
			ColumnType:      colType,
			DataType:        sqliteDataType(colType),
			IsNullable:      "YES",
			Default:         optional(defaultValue),
			OrdinalPosition: &position,
		}
		if notNull != 0 {
			col.IsNullable = "NO"
		}
		if pk > 0 {
			col.ColumnKey = "PRI"
			col.IsNullable = "NO"
			pkCount++
			if strings.EqualFold(colType, "integer") {
				intKey = len(columns)
			}
		}

		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if pkCount == 1 && intKey >= 0 {
		columns[intKey].Extra = "auto_increment"
	}
	return columns, nil
}

// sqliteDataType is the lowercase declared type without size, with SQLite's
// real and numeric affinities renamed for the form classifier
func sqliteDataType(colType string) string {
	t := strings.ToLower(strings.TrimSpace(colType))
	if i := strings.IndexAny(t, "( "); i >= 0 {
		t = t[:i]
	}
	switch t {
	case "":
		return "text"
	case "real":
		return "float"
	case "numeric":
		return "decimal"
	default:
		return t
	}
}

func qualify(database, name string) string {
	if database == "" {
		return name
	}
	return dialect.SQLite.QuoteIdent(database) + "." + name
}
