package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tordrt/dbedit/internal/schema"
)

// MultiFileFormatter writes one column-form file per table plus an overview
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
	}
}

// Format writes the schema to multiple files
func (f *MultiFileFormatter) Format(s *schema.Schema) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(s); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for i := range s.Tables {
		if err := f.writeTableFile(&s.Tables[i]); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", s.Tables[i].Name, err)
		}
	}

	return nil
}

// writeOverview lists the tables alphabetically with their edit status
func (f *MultiFileFormatter) writeOverview(s *schema.Schema) error {
	file, err := os.Create(filepath.Join(f.OutputDir, "_overview"+f.getFileExtension()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	sorted := make([]schema.Table, len(s.Tables))
	copy(sorted, s.Tables)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	if f.OutputFormat == formatMarkdown {
		_, _ = fmt.Fprintf(file, "# %s\n\n", overviewTitle(s))
	} else {
		_, _ = fmt.Fprintf(file, "%s\n\n", overviewTitle(s))
	}

	for _, t := range sorted {
		status := "editable"
		if len(t.PrimaryKey) == 0 {
			status = "read-only, no primary key"
		}
		if f.OutputFormat == formatMarkdown {
			_, _ = fmt.Fprintf(file, "- **%s** (%d columns, %s)\n", t.Name, len(t.Columns), status)
		} else {
			_, _ = fmt.Fprintf(file, "%s (%d columns, %s)\n", t.Name, len(t.Columns), status)
		}
	}
	return nil
}

func (f *MultiFileFormatter) writeTableFile(t *schema.Table) error {
	file, err := os.Create(filepath.Join(f.OutputDir, t.Name+f.getFileExtension()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == formatMarkdown {
		return NewMarkdownFormatter(file).FormatTable(t)
	}
	return NewTextFormatter(file).FormatTable(t)
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}

func overviewTitle(s *schema.Schema) string {
	if s.Database == "" {
		return "Tables"
	}
	return "Tables in " + s.Database
}
