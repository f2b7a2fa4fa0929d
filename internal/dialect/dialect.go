// Package dialect renders identifiers and literal values for the supported
// SQL databases. Synthesized statements never use parameter binding, so every
// value must pass through a Dialect before it is embedded in SQL text.
package dialect

import (
	"math"
	"strings"

	"github.com/tordrt/dbedit/internal/schema"
)

// EscapeStyle selects how quotes inside string literals are escaped
type EscapeStyle int

const (
	// EscapeBackslash prefixes quotes and backslashes with a backslash
	EscapeBackslash EscapeStyle = iota
	// EscapeDouble doubles single quotes
	EscapeDouble
)

// Dialect describes how one database spells identifiers and literals
type Dialect struct {
	Name string

	IdentQuote  string // opening and closing identifier quote
	IdentEscape string // replacement for a quote inside an identifier

	Escape        EscapeStyle
	LiteralPrefix string // prepended to escaped string literals, e.g. E for PostgreSQL
	BoolLiterals  bool   // render boolean columns as TRUE/FALSE instead of 1/0
	FoldsLower    bool   // unquoted identifiers are folded to lower case

	DefaultValues string // INSERT tail used when no column is given a value
}

var (
	MySQL = &Dialect{
		Name:        "mysql",
		IdentQuote:  "`",
		IdentEscape: "``",
		Escape:      EscapeBackslash,

		DefaultValues: "() VALUES ()",
	}

	Postgres = &Dialect{
		Name:          "postgres",
		IdentQuote:    `"`,
		IdentEscape:   `""`,
		Escape:        EscapeBackslash,
		LiteralPrefix: "E",
		BoolLiterals:  true,
		FoldsLower:    true,
		DefaultValues: "DEFAULT VALUES",
	}

	SQLite = &Dialect{
		Name:        "sqlite",
		IdentQuote:  `"`,
		IdentEscape: `""`,
		Escape:      EscapeDouble,

		DefaultValues: "DEFAULT VALUES",
	}
)

// ByName returns the dialect registered under name
func ByName(name string) (*Dialect, bool) {
	switch strings.ToLower(name) {
	case "mysql":
		return MySQL, true
	case "postgres", "postgresql":
		return Postgres, true
	case "sqlite", "sqlite3":
		return SQLite, true
	default:
		return nil, false
	}
}

// QuoteIdent quotes a table or column name
func (d *Dialect) QuoteIdent(name string) string {
	escaped := strings.ReplaceAll(name, d.IdentQuote, d.IdentEscape)
	return d.IdentQuote + escaped + d.IdentQuote
}

// EscapeString escapes the content of a string literal without adding quotes
func (d *Dialect) EscapeString(s string) string {
	if d.Escape == EscapeDouble {
		return strings.ReplaceAll(s, "'", "''")
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}

// QuoteString renders s as an escaped string literal
func (d *Dialect) QuoteString(s string) string {
	escaped := d.EscapeString(s)
	if d.LiteralPrefix != "" && escaped != s {
		return d.LiteralPrefix + "'" + escaped + "'"
	}
	return "'" + escaped + "'"
}

// Literal renders a value for the given column
func (d *Dialect) Literal(col schema.Column, v schema.Value) string {
	switch v.Kind() {
	case schema.KindNull:
		return "NULL"
	case schema.KindNumber:
		n, _ := v.AsNumber()
		if d.BoolLiterals && col.Category() == schema.Boolean {
			if n != 0 {
				return "TRUE"
			}
			return "FALSE"
		}
		if !v.IsFinite() {
			return d.QuoteString(nonFinite(n))
		}
		return v.String()
	default:
		s, _ := v.AsText()
		return d.QuoteString(s)
	}
}

// nonFinite spells NaN and the infinities the way PostgreSQL reads them
// from a string literal
func nonFinite(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return "NaN"
	}
}

// Equals renders "col = value", or "col IS NULL" for a NULL value
func (d *Dialect) Equals(col schema.Column, v schema.Value) string {
	if v.IsNull() {
		return d.QuoteIdent(col.Name) + " IS NULL"
	}
	return d.QuoteIdent(col.Name) + " = " + d.Literal(col, v)
}
