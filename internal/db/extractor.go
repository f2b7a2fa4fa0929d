package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tordrt/dbedit/internal/schema"
)

var ErrTableNotFound = errors.New("db: table not found")

// Inspector reads table metadata from a database catalog. An empty database
// name means the connection's current database or schema.
type Inspector interface {
	Tables(ctx context.Context, database string) ([]string, error)
	Columns(ctx context.Context, database, table string) ([]schema.RawColumn, error)
}

// ExtractTable reads and normalizes the columns of one table
func ExtractTable(ctx context.Context, in Inspector, database, table string) (*schema.Table, error) {
	raw, err := in.Columns(ctx, database, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}
	return schema.LoadTable(table, raw)
}

// ExtractSchema extracts the given tables, or every table when none are named
func ExtractSchema(ctx context.Context, in Inspector, database string, tables []string) (*schema.Schema, error) {
	if len(tables) == 0 {
		names, err := in.Tables(ctx, database)
		if err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
		tables = names
	}

	s := &schema.Schema{Database: database}
	for _, name := range tables {
		t, err := ExtractTable(ctx, in, database, name)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", name, err)
		}
		s.Put(*t)
	}
	return s, nil
}

func optional(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
