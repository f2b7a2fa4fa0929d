package schema

import (
	"strconv"
	"strings"
)

// DefaultRow builds the initial values of a brand-new row. A nullable column
// without a usable default starts as NULL, every other column starts at its
// default or the empty string.
func DefaultRow(t *Table) Row {
	row := make(Row, len(t.Columns))
	for _, col := range t.Columns {
		switch {
		case (col.Default == nil || col.Default.IsNull()) && col.Nullable:
			row[col.Name] = Null()
		case col.Default != nil && !col.Default.IsNull():
			row[col.Name] = CoerceCategory(col.Category(), col.Default.String())
		default:
			row[col.Name] = Text("")
		}
	}
	return row
}

// Coerce converts raw form input for the column into a value
func Coerce(col Column, input string) Value {
	return CoerceCategory(col.Category(), input)
}

// CoerceCategory converts raw form input into a value of the given category.
// The literal "null" in any case is NULL. Numeric input that does not parse
// is kept as text so the database reports the problem.
func CoerceCategory(c Category, input string) Value {
	if strings.EqualFold(input, "null") {
		return Null()
	}

	trimmed := strings.TrimSpace(input)
	switch c {
	case Integer:
		if v, ok := ParseInteger(trimmed); ok {
			return v
		}
	case Decimal:
		if v, ok := ParseNumber(trimmed); ok {
			return v
		}
	case Boolean:
		if b, err := strconv.ParseBool(trimmed); err == nil {
			return Bool(b)
		}
	}
	return Text(input)
}
