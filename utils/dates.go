// backend/utils/dates.go
package utils

import (
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// excelEpochOffsetDays is the number of days between the spreadsheet serial
// epoch (1899-12-30, which absorbs the 1900 leap-year bug) and 1970-01-01.
const excelEpochOffsetDays = 25569

// Strict day-month-year layouts, tried in order before the lenient fallback.
var strictDMYLayouts = []string{
	"02-01-2006", // DD-MM-YYYY
	"02/01/2006", // DD/MM/YYYY
}

// ParseDate normalizes the date encodings found in progress sheets:
// spreadsheet serial numbers, time values and strings. Strings are tried as
// DD-MM-YYYY, then DD/MM/YYYY, then a lenient parse. Empty, zero or
// unparseable input yields nil. Results are UTC.
func ParseDate(value any) *time.Time {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		t := v.UTC()
		return &t
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		t := v.UTC()
		return &t
	case float64:
		return ExcelSerialToTime(v)
	case float32:
		return ExcelSerialToTime(float64(v))
	case int:
		return ExcelSerialToTime(float64(v))
	case int64:
		return ExcelSerialToTime(float64(v))
	case string:
		return parseDateString(v)
	default:
		return nil
	}
}

// ExcelSerialToTime converts a spreadsheet serial day number to UTC midnight.
// Fractional days (time of day) are dropped.
func ExcelSerialToTime(serial float64) *time.Time {
	if serial == 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return nil
	}
	days := math.Floor(serial - excelEpochOffsetDays)
	t := time.Unix(int64(days)*86400, 0).UTC()
	return &t
}

func parseDateString(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, layout := range strictDMYLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t
		}
	}

	// Lenient fallback: ISO dates, US-style m/d/yy exports, month names, timestamps.
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

// WholeDaysBetween returns floor((to - from) / 24h).
func WholeDaysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}
