package formatter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tordrt/dbedit/internal/db"
	"github.com/tordrt/dbedit/internal/schema"
)

// MarkdownFormatter renders GitHub-flavored markdown tables
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// FormatResult writes a result set, or the affected-row summary of a statement
func (f *MarkdownFormatter) FormatResult(res *db.Result) error {
	if !res.IsQuery {
		_, _ = fmt.Fprintf(f.writer, "_%s_\n", res.Summary())
		return nil
	}
	if len(res.Rows) == 0 {
		_, _ = fmt.Fprintln(f.writer, "_(0 rows)_")
		return nil
	}

	t := f.newWriter()
	t.AppendHeader(header(res.Columns))
	for _, row := range res.Rows {
		t.AppendRow(cells(res.Columns, row))
	}
	t.RenderMarkdown()

	_, _ = fmt.Fprintf(f.writer, "\n_(%s)_\n", res.Summary())
	return nil
}

// FormatTable writes a table section with its column form
func (f *MarkdownFormatter) FormatTable(s *schema.Table) error {
	_, _ = fmt.Fprintf(f.writer, "## %s%s\n\n", s.Name, primaryKeySuffix(s))

	t := f.newWriter()
	t.AppendHeader(table.Row{"column", "category", "default", "comment"})
	for _, col := range s.Columns {
		t.AppendRow(columnRow(col))
	}
	t.RenderMarkdown()
	_, _ = fmt.Fprintln(f.writer)
	return nil
}

// FormatRow writes one row as a field/value table
func (f *MarkdownFormatter) FormatRow(s *schema.Table, row schema.Row) error {
	t := f.newWriter()
	t.AppendHeader(table.Row{"field", "value"})
	for _, col := range s.Columns {
		if v, ok := row[col.Name]; ok {
			t.AppendRow(table.Row{col.Label(), v.String()})
		}
	}
	t.RenderMarkdown()
	return nil
}

// FormatStatement writes a statement as a fenced sql block
func (f *MarkdownFormatter) FormatStatement(sql string) error {
	_, _ = fmt.Fprintf(f.writer, "```sql\n%s\n```\n", sql)
	return nil
}

func (f *MarkdownFormatter) newWriter() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.writer)
	return t
}
