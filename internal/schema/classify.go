package schema

import "strings"

// Category is the form value category of a SQL type
type Category int

const (
	String Category = iota
	Boolean
	Integer
	Decimal
)

func (c Category) String() string {
	switch c {
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	default:
		return "string"
	}
}

// Classify maps a SQL type name to its category. Unknown types are strings.
func Classify(typeName string) Category {
	switch baseType(typeName) {
	case "bool", "boolean":
		return Boolean
	case "bit", "tinyint", "smallint", "mediumint", "int", "integer", "bigint":
		return Integer
	case "float", "double", "dec", "decimal":
		return Decimal
	default:
		return String
	}
}

// IsNumber reports whether the type takes numeric input
func IsNumber(typeName string) bool {
	c := Classify(typeName)
	return c == Integer || c == Decimal
}

// IsDecimal reports whether the type takes fractional numeric input
func IsDecimal(typeName string) bool {
	return Classify(typeName) == Decimal
}

// IsBoolean reports whether the type is a boolean
func IsBoolean(typeName string) bool {
	return Classify(typeName) == Boolean
}

// baseType strips length, precision and modifiers: "INT(11) unsigned" -> "int"
func baseType(typeName string) string {
	s := strings.ToLower(strings.TrimSpace(typeName))
	if i := strings.IndexAny(s, "( "); i >= 0 {
		s = s[:i]
	}
	return s
}
