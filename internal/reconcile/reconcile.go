// Package reconcile turns a possibly partial result row into a complete row
// of its table, fetching the missing columns by primary key when needed.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tordrt/dbedit/internal/dialect"
	"github.com/tordrt/dbedit/internal/schema"
)

// ErrRowNotFound is returned when the row vanished before it could be loaded
var ErrRowNotFound = errors.New("reconcile: row not found")

// Fetcher runs a lookup returning at most one row
type Fetcher interface {
	FetchRow(ctx context.Context, sql string) (schema.Row, bool, error)
}

// NeedsFetch reports whether display lacks any column of t
func NeedsFetch(display schema.Row, t *schema.Table) bool {
	for _, col := range t.Columns {
		if !display.Has(col.Name) {
			return true
		}
	}
	return false
}

// KeyCondition renders the AND conjunction matching row's primary key in t
func KeyCondition(d *dialect.Dialect, t *schema.Table, row schema.Row) (string, error) {
	if len(t.PrimaryKey) == 0 {
		return "", fmt.Errorf("table %s has no primary key", t.Name)
	}

	parts := make([]string, 0, len(t.PrimaryKey))
	for _, pk := range t.PrimaryKey {
		col, err := t.Column(pk)
		if err != nil {
			return "", err
		}
		v, ok := row[pk]
		if !ok {
			return "", fmt.Errorf("%w: row lacks primary key %s.%s", schema.ErrColumnNotFound, t.Name, pk)
		}
		parts = append(parts, d.Equals(col, v))
	}
	return strings.Join(parts, " AND "), nil
}

// FetchSQL is the single-row lookup for the row identified by row's key
func FetchSQL(d *dialect.Dialect, t *schema.Table, row schema.Row) (string, error) {
	where, err := KeyCondition(d, t, row)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT * FROM %s WHERE %s", d.QuoteIdent(t.Name), where), nil
}

// Complete returns display as a complete row of t. A row that already holds
// every column is returned as a copy; otherwise the row is re-read by its
// primary key and the fetched values override the displayed ones.
func Complete(ctx context.Context, d *dialect.Dialect, display schema.Row, t *schema.Table, f Fetcher) (schema.Row, error) {
	if !NeedsFetch(display, t) {
		return display.Clone(), nil
	}

	sql, err := FetchSQL(d, t, display)
	if err != nil {
		return nil, err
	}

	fetched, found, err := f.FetchRow(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch row: %w", err)
	}
	if !found {
		return nil, ErrRowNotFound
	}

	return display.Merge(fetched), nil
}
