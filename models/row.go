// backend/models/row.go
package models

import (
	"fmt"
	"strings"
)

// Row is one raw spreadsheet row: column header -> string, number or nil.
// Column names are matched case-sensitively.
type Row map[string]any

// ColumnRef is the key under which a cell is also stored by position, using
// spreadsheet column letters: 0 -> "$A", 25 -> "$Z", 29 -> "$AD".
func ColumnRef(index int) string {
	letters := ""
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		letters = string(rune('A'+(n-1)%26)) + letters
	}
	return "$" + letters
}

// Lookup returns the first value among keys that is present and non-empty.
// nil and whitespace-only strings count as empty; numeric zero does not.
func (r Row) Lookup(keys ...string) any {
	for _, key := range keys {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

// Text returns the first non-empty value among keys as a trimmed string, or "".
func (r Row) Text(keys ...string) string {
	v := r.Lookup(keys...)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(stringify(v))
}

// OptionalText is Text, but returns nil when no non-empty value exists.
func (r Row) OptionalText(keys ...string) *string {
	s := r.Text(keys...)
	if s == "" {
		return nil
	}
	return &s
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		// Spreadsheet numbers like site IDs come through as whole floats.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}
