package schema

import (
	"errors"
	"fmt"
)

var (
	ErrColumnNotFound  = errors.New("schema: column not found")
	ErrDuplicateColumn = errors.New("schema: duplicate column name")
)

// Schema represents the tables inspected so far for one database
type Schema struct {
	Database string
	Tables   []Table
}

// Table represents the column layout of a single table
type Table struct {
	Name       string
	Columns    []Column
	PrimaryKey []string // ordinal order
}

// Column represents a table column
type Column struct {
	Name            string
	Type            string // full column type, e.g. varchar(255)
	DataType        string // raw type category, e.g. varchar
	Key             string // PRI, UNI, MUL or empty
	IsPrimaryKey    bool
	Nullable        bool
	Default         *Value // nil when the column declares no default
	OrdinalPosition *int
	CharMaxLength   *int
	CharOctetLength *int
	Comment         string
	AutoIncrement   bool
}

// Table returns the table with the given name, if it has been loaded
func (s *Schema) Table(name string) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// Put adds or replaces a table
func (s *Schema) Put(t Table) {
	for i := range s.Tables {
		if s.Tables[i].Name == t.Name {
			s.Tables[i] = t
			return
		}
	}
	s.Tables = append(s.Tables, t)
}

// Column looks up a column by name.
// A missing column means the caller paired a row with the wrong table.
func (t *Table) Column(name string) (Column, error) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, nil
		}
	}
	return Column{}, fmt.Errorf("%w: %s.%s", ErrColumnNotFound, t.Name, name)
}

// HasColumn reports whether the table has a column with the given name
func (t *Table) HasColumn(name string) bool {
	_, err := t.Column(name)
	return err == nil
}

// IsKey reports whether name is part of the primary key
func (t *Table) IsKey(name string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == name {
			return true
		}
	}
	return false
}

// ColumnNames returns the column names in ordinal order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// ColumnCategory returns the value category of the named column
func (t *Table) ColumnCategory(name string) (Category, error) {
	col, err := t.Column(name)
	if err != nil {
		return String, err
	}
	return col.Category(), nil
}

// Category classifies the column by its raw data type
func (c Column) Category() Category {
	if c.DataType != "" {
		return Classify(c.DataType)
	}
	return Classify(c.Type)
}

// Label is the form label for the column: "name | type", with a trailing
// asterisk for key columns.
func (c Column) Label() string {
	label := c.Name + " | " + c.Type
	if c.IsPrimaryKey {
		label += " *"
	}
	return label
}
