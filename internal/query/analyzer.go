// Package query extracts the structural facts of a SQL statement needed to
// decide whether its result rows can be edited in place.
package query

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xwb1989/sqlparser"

	"github.com/tordrt/dbedit/internal/dialect"
)

// Kind is the statement kind
type Kind int

const (
	KindOther Kind = iota
	KindSelect
	KindInsert
	KindUpdate
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindInsert:
		return "insert"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "other"
	}
}

// ErrEmptyStatement is returned for input holding no statement at all
var ErrEmptyStatement = errors.New("query: empty statement")

// ParseError reports SQL text the parser could not understand
type ParseError struct {
	SQL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("query: failed to parse statement: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Analysis holds what the editor needs to know about a statement
type Analysis struct {
	Kind Kind

	// Table is set only for a SELECT reading from exactly one table
	Table     string
	Qualifier string // database or schema name written before the table
	Alias     string

	// Columns lists the plain column references of the select list under
	// the name each takes in the result row, its alias when it has one
	Columns  []string
	Wildcard bool
}

// Parser turns SQL text into an Analysis
type Parser interface {
	Parse(sql string) (*Analysis, error)
}

// MySQLParser analyzes statements with a MySQL grammar
type MySQLParser struct{}

// DefaultParser is used by Analyze
var DefaultParser Parser = MySQLParser{}

// Analyze parses the first statement in sql with DefaultParser
func Analyze(sql string) (*Analysis, error) {
	return DefaultParser.Parse(sql)
}

// AnalyzeDialect parses the first statement of sql written for d. Where d
// quotes identifiers with double quotes they are read as identifiers, and
// unquoted names are folded to lower case where d folds them.
func AnalyzeDialect(d *dialect.Dialect, sql string) (*Analysis, error) {
	if d == nil || d.IdentQuote != `"` {
		return Analyze(sql)
	}

	a, err := Analyze(backtickIdents(sql, d.FoldsLower))
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.SQL = sql
	}
	return a, err
}

// backtickIdents rewrites "ident" as `ident` outside string literals so the
// MySQL grammar reads it as an identifier. With fold set, text outside
// quotes is lower-cased, which only affects identifiers and keywords.
func backtickIdents(sql string, fold bool) string {
	var b strings.Builder
	b.Grow(len(sql))

	inString, inIdent := false, false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case inString:
			b.WriteByte(c)
			if c == '\'' {
				if i+1 < len(sql) && sql[i+1] == '\'' {
					b.WriteByte(c)
					i++
				} else {
					inString = false
				}
			}
		case inIdent:
			switch c {
			case '"':
				if i+1 < len(sql) && sql[i+1] == '"' {
					b.WriteByte('"')
					i++
				} else {
					b.WriteByte('`')
					inIdent = false
				}
			case '`':
				b.WriteString("``")
			default:
				b.WriteByte(c)
			}
		case c == '\'':
			inString = true
			b.WriteByte(c)
		case c == '"':
			inIdent = true
			b.WriteByte('`')
		case fold && c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Parse implements Parser
func (MySQLParser) Parse(sql string) (*Analysis, error) {
	if strings.TrimSpace(strings.Trim(strings.TrimSpace(sql), ";")) == "" {
		return nil, ErrEmptyStatement
	}

	// Only the first statement of a multi-statement text is considered
	tokens := sqlparser.NewStringTokenizer(sql)
	stmt, err := sqlparser.ParseNext(tokens)
	if err == io.EOF {
		return nil, ErrEmptyStatement
	}
	if err != nil {
		return nil, &ParseError{SQL: sql, Err: err}
	}

	return analyzeStatement(stmt), nil
}

func analyzeStatement(stmt sqlparser.Statement) *Analysis {
	switch s := stmt.(type) {
	case *sqlparser.Select:
		return analyzeSelect(s)
	case *sqlparser.ParenSelect:
		return analyzeStatement(s.Select)
	case *sqlparser.Union:
		return &Analysis{Kind: KindSelect}
	case *sqlparser.Insert:
		return &Analysis{Kind: KindInsert}
	case *sqlparser.Update:
		return &Analysis{Kind: KindUpdate}
	case *sqlparser.Delete:
		return &Analysis{Kind: KindDelete}
	default:
		return &Analysis{Kind: KindOther}
	}
}

func analyzeSelect(sel *sqlparser.Select) *Analysis {
	a := &Analysis{Kind: KindSelect}

	name, ok := singleTable(sel.From)
	if !ok {
		return a
	}
	a.Table = name.Name.String()
	a.Qualifier = name.Qualifier.String()
	if aliased, isAliased := sel.From[0].(*sqlparser.AliasedTableExpr); isAliased {
		a.Alias = aliased.As.String()
	}

	for _, expr := range sel.SelectExprs {
		switch e := expr.(type) {
		case *sqlparser.StarExpr:
			if e.TableName.IsEmpty() || a.refersToTable(e.TableName) {
				a.Wildcard = true
			}
		case *sqlparser.AliasedExpr:
			col, isCol := e.Expr.(*sqlparser.ColName)
			if !isCol {
				continue
			}
			if !col.Qualifier.IsEmpty() && !a.refersToTable(col.Qualifier) {
				continue
			}
			if !e.As.IsEmpty() {
				a.Columns = append(a.Columns, e.As.String())
				continue
			}
			a.Columns = append(a.Columns, col.Name.String())
		}
	}

	return a
}

// singleTable returns the table when from is exactly one plain table reference
func singleTable(from sqlparser.TableExprs) (sqlparser.TableName, bool) {
	if len(from) != 1 {
		return sqlparser.TableName{}, false
	}
	aliased, ok := from[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return sqlparser.TableName{}, false
	}
	name, ok := aliased.Expr.(sqlparser.TableName)
	if !ok || name.IsEmpty() {
		return sqlparser.TableName{}, false
	}
	// SELECT without FROM parses as a read from the dual pseudo table
	if strings.EqualFold(name.Name.String(), "dual") && name.Qualifier.IsEmpty() {
		return sqlparser.TableName{}, false
	}
	return name, true
}

func (a *Analysis) refersToTable(ref sqlparser.TableName) bool {
	n := ref.Name.String()
	if a.Alias != "" {
		return strings.EqualFold(n, a.Alias)
	}
	return strings.EqualFold(n, a.Table)
}
