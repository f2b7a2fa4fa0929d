package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/dbedit/internal/schema"
)

// Executor runs raw SQL text. Statements are sent as-is: values must already
// be embedded as escaped literals.
type Executor interface {
	// Query runs a statement returning rows
	Query(ctx context.Context, sql string) (*Result, error)
	// Exec runs a statement returning an affected-row count
	Exec(ctx context.Context, sql string) (int64, error)
	// Execute runs any statement and reports rows or an affected-row count
	Execute(ctx context.Context, sql string) (*Result, error)
	// FetchRow runs a lookup and returns its first row
	FetchRow(ctx context.Context, sql string) (schema.Row, bool, error)
	Close() error
}

// Result is the outcome of one statement
type Result struct {
	IsQuery      bool
	Columns      []string
	Rows         []schema.Row
	RowsAffected int64
}

// Summary is the short status line for the result
func (r *Result) Summary() string {
	if r.IsQuery {
		return plural(int64(len(r.Rows)), "row")
	}
	return plural(r.RowsAffected, "row") + " affected"
}

func plural(n int64, noun string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// returnsRows guesses from the leading keyword whether a statement produces
// a result set
func returnsRows(sql string) bool {
	s := strings.TrimLeft(sql, " \t\r\n(")
	end := strings.IndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '(' || r == ';'
	})
	if end >= 0 {
		s = s[:end]
	}
	switch strings.ToUpper(s) {
	case "SELECT", "SHOW", "DESCRIBE", "DESC", "EXPLAIN", "WITH", "PRAGMA", "VALUES", "TABLE":
		return true
	default:
		return false
	}
}

func firstRow(res *Result) (schema.Row, bool) {
	if len(res.Rows) == 0 {
		return nil, false
	}
	return res.Rows[0], true
}
