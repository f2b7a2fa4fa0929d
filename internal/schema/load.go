package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// RawColumn is one column row as read from a catalog, before normalization.
// Numeric fields stay textual because catalogs return them in varying shapes.
type RawColumn struct {
	Name            string
	ColumnType      string
	DataType        string
	ColumnKey       string
	IsNullable      string
	Default         *string
	OrdinalPosition *string
	CharMaxLength   *string
	CharOctetLength *string
	Comment         string
	Extra           string
}

// LoadTable normalizes catalog rows into a Table ordered by ordinal position
func LoadTable(name string, raw []RawColumn) (*Table, error) {
	table := &Table{Name: name}
	seen := make(map[string]bool, len(raw))

	for _, rc := range raw {
		if seen[rc.Name] {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateColumn, name, rc.Name)
		}
		seen[rc.Name] = true

		table.Columns = append(table.Columns, Column{
			Name:            rc.Name,
			Type:            rc.ColumnType,
			DataType:        rc.DataType,
			Key:             rc.ColumnKey,
			IsPrimaryKey:    rc.ColumnKey == "PRI",
			Nullable:        strings.EqualFold(rc.IsNullable, "yes"),
			Default:         ParseDefault(rc.Default),
			OrdinalPosition: parseOptionalInt(rc.OrdinalPosition),
			CharMaxLength:   parseOptionalInt(rc.CharMaxLength),
			CharOctetLength: parseOptionalInt(rc.CharOctetLength),
			Comment:         rc.Comment,
			AutoIncrement:   strings.Contains(strings.ToLower(rc.Extra), "auto_increment"),
		})
	}

	// Columns without a position keep their catalog order, after positioned ones
	sort.SliceStable(table.Columns, func(i, j int) bool {
		pi, pj := table.Columns[i].OrdinalPosition, table.Columns[j].OrdinalPosition
		if pi == nil || pj == nil {
			return pi != nil && pj == nil
		}
		return *pi < *pj
	})

	for _, col := range table.Columns {
		if col.IsPrimaryKey {
			table.PrimaryKey = append(table.PrimaryKey, col.Name)
		}
	}

	return table, nil
}

// ParseDefault normalizes a catalog default: the text NULL becomes the null
// value and a quoted literal loses its surrounding quotes.
func ParseDefault(s *string) *Value {
	if s == nil {
		return nil
	}
	text := *s
	if text == "NULL" {
		v := Null()
		return &v
	}
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '\'' || first == '"') && (last == '\'' || last == '"') {
			text = text[1 : len(text)-1]
		}
	}
	v := Text(text)
	return &v
}

func parseOptionalInt(s *string) *int {
	if s == nil || *s == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &n
}
