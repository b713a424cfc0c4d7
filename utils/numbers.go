// backend/utils/numbers.go
package utils

import (
	"math"
	"strconv"
	"strings"
)

// SafeNumber coerces a spreadsheet cell to a number. Non-numeric, empty,
// NaN and infinite input yield nil instead of an error.
func SafeNumber(value any) *float64 {
	var f float64
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ClampProgress maps a nullable percentage into [0,100], with nil as 0.
func ClampProgress(pct *float64) float64 {
	if pct == nil {
		return 0
	}
	return Clamp(*pct, 0, 100)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
