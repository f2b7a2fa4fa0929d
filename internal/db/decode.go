package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/tordrt/dbedit/internal/schema"
)

// timeLayout keeps fractional seconds, trimmed when zero, so a timestamp
// read from a row matches itself in a key predicate
const timeLayout = "2006-01-02 15:04:05.999999999"

// DecodeValue converts a value returned by a driver into a row value.
// typeName is the driver's column type name; it decides whether textual
// driver output holds a number.
func DecodeValue(v any, typeName string) schema.Value {
	numeric := schema.IsNumber(typeName)

	switch val := v.(type) {
	case nil:
		return schema.Null()
	case bool:
		return schema.Bool(val)
	case []byte:
		return decodeText(string(val), numeric)
	case string:
		return decodeText(val, numeric)
	case time.Time:
		return schema.Text(formatTime(val))
	case [16]byte:
		return schema.Text(fmt.Sprintf("%x-%x-%x-%x-%x", val[0:4], val[4:6], val[6:8], val[8:10], val[10:16]))
	case int, int8, int16, int32, int64:
		n, err := cast.ToInt64E(val)
		if err == nil {
			return schema.Int(n)
		}
	case uint, uint8, uint16, uint32, uint64:
		n, err := cast.ToUint64E(val)
		if err == nil {
			return schema.Uint(n)
		}
	case float32, float64:
		f, err := cast.ToFloat64E(val)
		if err == nil {
			return schema.Number(f)
		}
	case driver.Valuer:
		inner, err := val.Value()
		if err == nil {
			return DecodeValue(inner, typeName)
		}
	}

	if s, err := cast.ToStringE(v); err == nil {
		return schema.Text(s)
	}
	if b, err := json.Marshal(v); err == nil {
		return schema.Text(string(b))
	}
	return schema.Text(fmt.Sprint(v))
}

// decodeText reads driver text. Whole numbers keep every digit.
func decodeText(s string, numeric bool) schema.Value {
	if numeric {
		if v, ok := schema.ParseInteger(s); ok {
			return v
		}
		if f, err := cast.ToFloat64E(s); err == nil {
			return schema.Number(f)
		}
	}
	return schema.Text(s)
}

// formatTime renders t in the form the databases accept back as a literal.
// Times outside UTC carry their offset.
func formatTime(t time.Time) string {
	if t.Location() == time.UTC {
		return t.Format(timeLayout)
	}
	return t.Format(timeLayout + "-07:00")
}
