// Package formatter renders query results, table layouts and edit rows.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tordrt/dbedit/internal/db"
	"github.com/tordrt/dbedit/internal/schema"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// Formatter writes everything the CLI prints
type Formatter interface {
	FormatResult(res *db.Result) error
	FormatTable(t *schema.Table) error
	FormatRow(t *schema.Table, row schema.Row) error
	FormatStatement(sql string) error
}

// New returns the formatter for an output format name
func New(format string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(format) {
	case formatText, "":
		return NewTextFormatter(w), nil
	case formatMarkdown, "md":
		return NewMarkdownFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: text, markdown)", format)
	}
}

func header(cols []string) table.Row {
	row := make(table.Row, len(cols))
	for i, col := range cols {
		row[i] = col
	}
	return row
}

func cells(cols []string, r schema.Row) table.Row {
	row := make(table.Row, len(cols))
	for i, col := range cols {
		row[i] = r[col].String()
	}
	return row
}

func columnRow(col schema.Column) table.Row {
	def := ""
	if col.Default != nil {
		def = col.Default.String()
	}
	category := col.Category().String()
	if col.AutoIncrement {
		category += ", auto"
	}
	return table.Row{col.Label(), category, def, col.Comment}
}

func primaryKeySuffix(t *schema.Table) string {
	if len(t.PrimaryKey) == 0 {
		return " (no primary key)"
	}
	return fmt.Sprintf(" (PK: %s)", strings.Join(t.PrimaryKey, ", "))
}
