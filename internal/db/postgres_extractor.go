package db

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tordrt/dbedit/internal/schema"
)

const varcharType = "varchar"

// defaultCast matches the trailing type cast PostgreSQL appends to defaults,
// as in 'draft'::character varying
var defaultCast = regexp.MustCompile(`^(.*?)::[a-zA-Z_][\w ."]*(\[\])?$`)

// PostgresInspector reads table metadata from PostgreSQL's information_schema
type PostgresInspector struct {
	client *PostgresClient
}

// NewPostgresInspector creates a new PostgreSQL catalog inspector
func NewPostgresInspector(client *PostgresClient) *PostgresInspector {
	return &PostgresInspector{client: client}
}

// Tables lists the base tables of a schema
func (e *PostgresInspector) Tables(ctx context.Context, database string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = COALESCE(NULLIF($1, ''), current_schema()) AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.client.GetConnection().Query(ctx, query, database)
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

// Columns reads the column rows of one table. Primary-key membership is
// reported as column key PRI, serial and identity columns as auto_increment.
func (e *PostgresInspector) Columns(ctx context.Context, database, table string) ([]schema.RawColumn, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.udt_name,
			CASE WHEN EXISTS (
				SELECT 1 FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
					ON tc.constraint_name = kcu.constraint_name
					AND tc.table_schema = kcu.table_schema
					AND tc.table_name = kcu.table_name
				WHERE tc.table_schema = c.table_schema
					AND tc.table_name = c.table_name
					AND tc.constraint_type = 'PRIMARY KEY'
					AND kcu.column_name = c.column_name
			) THEN 'PRI' ELSE '' END AS column_key,
			c.is_nullable,
			c.column_default,
			c.ordinal_position::text,
			c.character_maximum_length::text,
			c.character_octet_length::text,
			COALESCE(col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position::int), ''),
			c.is_identity
		FROM information_schema.columns c
		WHERE c.table_schema = COALESCE(NULLIF($1, ''), current_schema()) AND c.table_name = $2
		ORDER BY c.ordinal_position
	`

	rows, err := e.client.GetConnection().Query(ctx, query, database, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []schema.RawColumn
	for rows.Next() {
		var col schema.RawColumn
		var dataType, udtName, isIdentity string

		if err := rows.Scan(
			&col.Name, &dataType, &udtName, &col.ColumnKey, &col.IsNullable, &col.Default,
			&col.OrdinalPosition, &col.CharMaxLength, &col.CharOctetLength, &col.Comment, &isIdentity,
		); err != nil {
			return nil, err
		}

		col.ColumnType = normalizePostgresType(dataType, udtName, col.CharMaxLength)
		col.DataType = normalizePostgresDataType(dataType)

		if isIdentity == "YES" {
			col.Extra = "auto_increment"
		}
		if col.Default != nil {
			def, serial := normalizePostgresDefault(*col.Default)
			if serial {
				col.Default = nil
				col.Extra = "auto_increment"
			} else {
				col.Default = &def
			}
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// normalizePostgresDefault strips type casts from a default expression and
// reports whether it draws from a sequence
func normalizePostgresDefault(def string) (string, bool) {
	if strings.HasPrefix(def, "nextval(") {
		return "", true
	}
	if m := defaultCast.FindStringSubmatch(def); m != nil {
		return m[1], false
	}
	return def, false
}

// normalizePostgresDataType maps information_schema data types onto the
// names the form classifier knows
func normalizePostgresDataType(dataType string) string {
	switch dataType {
	case "numeric":
		return "decimal"
	case "real":
		return "float"
	case "double precision":
		return "double"
	case "character varying":
		return varcharType
	case "character":
		return "char"
	default:
		return dataType
	}
}

// normalizePostgresType maps verbose SQL type names to commonly-used PostgreSQL equivalents
func normalizePostgresType(dataType, udtName string, charMaxLength *string) string {
	switch dataType {
	case "timestamp with time zone":
		return "timestamptz"
	case "timestamp without time zone":
		return "timestamp"
	case "time with time zone":
		return "timetz"
	case "time without time zone":
		return "time"
	case "character varying":
		if charMaxLength != nil {
			return fmt.Sprintf("varchar(%s)", *charMaxLength)
		}
		return varcharType
	case "character":
		if charMaxLength != nil {
			return fmt.Sprintf("char(%s)", *charMaxLength)
		}
		return "char"
	case "ARRAY":
		// udt_name has underscore prefix for arrays (e.g., "_text" for text[], "_int4" for integer[])
		if len(udtName) > 0 && udtName[0] == '_' {
			return fmt.Sprintf("%s[]", normalizeUdtName(udtName[1:]))
		}
		return "array"
	case "USER-DEFINED":
		return udtName
	default:
		return dataType
	}
}

// normalizeUdtName converts PostgreSQL internal type names to more readable forms
func normalizeUdtName(udtName string) string {
	switch udtName {
	case "int4":
		return "integer"
	case "int8":
		return "bigint"
	case "int2":
		return "smallint"
	case "float4":
		return "float"
	case "float8":
		return "double"
	case "numeric":
		return "decimal"
	case "bool":
		return "boolean"
	default:
		return udtName
	}
}
