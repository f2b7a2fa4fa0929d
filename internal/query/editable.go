package query

import (
	"fmt"
	"strings"

	"github.com/tordrt/dbedit/internal/dialect"
	"github.com/tordrt/dbedit/internal/schema"
)

const (
	ReasonMultipleTables = "Edit of query from multiple table are not supported"
	ReasonMissingKeys    = "Select at least all primary columns"
)

// TargetTable returns the single table a result set was read from
func TargetTable(a *Analysis) (string, bool) {
	if a == nil || a.Kind != KindSelect || a.Table == "" {
		return "", false
	}
	return a.Table, true
}

// IsEditable reports whether rows of the analyzed result can be addressed
// individually in t: the statement reads exactly one table and selects
// every primary-key column, explicitly or through a wildcard.
func IsEditable(a *Analysis, t *schema.Table) bool {
	return Reason(a, t) == ""
}

// Reason explains why rows are not editable; it is empty when they are
func Reason(a *Analysis, t *schema.Table) string {
	name, ok := TargetTable(a)
	if !ok || t == nil || !strings.EqualFold(name, t.Name) {
		return ReasonMultipleTables
	}
	if a.Wildcard {
		return ""
	}
	for _, pk := range t.PrimaryKey {
		if !selects(a.Columns, pk) {
			return ReasonMissingKeys
		}
	}
	return ""
}

// selects matches exactly: the key is read back from the row by this name
func selects(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}

// BrowseSQL is the statement used to open a table for browsing.
// Outside MySQL the table name is quoted only when it has to be: when it
// holds upper-case letters, which an unquoted name would lose to case
// folding, or characters outside [a-z0-9_].
func BrowseSQL(d *dialect.Dialect, table string, limit int) string {
	ident := table
	if d == dialect.MySQL || !plainIdent(table) {
		ident = d.QuoteIdent(table)
	}
	if limit <= 0 {
		return fmt.Sprintf("SELECT * FROM %s", ident)
	}
	return fmt.Sprintf("SELECT * FROM %s \nLIMIT %d", ident, limit)
}

// plainIdent reports whether s reads the same quoted or unquoted
func plainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
