package formatter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tordrt/dbedit/internal/db"
	"github.com/tordrt/dbedit/internal/schema"
)

// TextFormatter renders box-drawn tables for a terminal
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// FormatResult writes a result set, or the affected-row summary of a statement
func (f *TextFormatter) FormatResult(res *db.Result) error {
	if !res.IsQuery {
		_, _ = fmt.Fprintln(f.writer, res.Summary())
		return nil
	}
	if len(res.Rows) == 0 {
		_, _ = fmt.Fprintln(f.writer, "(0 rows)")
		return nil
	}

	t := newWriter(f.writer)
	t.AppendHeader(header(res.Columns))
	for _, row := range res.Rows {
		t.AppendRow(cells(res.Columns, row))
	}
	t.Render()

	_, _ = fmt.Fprintf(f.writer, "(%s)\n", res.Summary())
	return nil
}

// FormatTable writes the column form of a table: label, default and comment
func (f *TextFormatter) FormatTable(s *schema.Table) error {
	_, _ = fmt.Fprintf(f.writer, "TABLE %s%s\n", s.Name, primaryKeySuffix(s))

	t := newWriter(f.writer)
	t.AppendHeader(table.Row{"column", "category", "default", "comment"})
	for _, col := range s.Columns {
		t.AppendRow(columnRow(col))
	}
	t.Render()
	return nil
}

// FormatRow writes one row as label/value pairs in column order
func (f *TextFormatter) FormatRow(s *schema.Table, row schema.Row) error {
	t := newWriter(f.writer)
	t.AppendHeader(table.Row{"field", "value"})
	for _, col := range s.Columns {
		v, ok := row[col.Name]
		if !ok {
			continue
		}
		t.AppendRow(table.Row{col.Label(), v.String()})
	}
	t.Render()
	return nil
}

// FormatStatement writes a synthesized statement
func (f *TextFormatter) FormatStatement(sql string) error {
	_, _ = fmt.Fprintln(f.writer, sql)
	return nil
}

func newWriter(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}
