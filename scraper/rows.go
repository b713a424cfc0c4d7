// backend/scraper/rows.go
package scraper

import (
	"fmt"
	"strings"

	"github.com/gewnthar/sitetrack/models"
)

// rowsFromRecords turns a header plus string records into Rows.
func rowsFromRecords(header []string, records [][]string) []models.Row {
	cells := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(rec))
		for j, s := range rec {
			row[j] = s
		}
		cells[i] = row
	}
	return buildRows(header, cells)
}

// rowsFromValues is rowsFromRecords for typed cells, as returned by the
// Sheets API. The first record is the header.
func rowsFromValues(values [][]any) []models.Row {
	if len(values) == 0 {
		return []models.Row{}
	}
	header := make([]string, len(values[0]))
	for i, h := range values[0] {
		if h != nil {
			header[i] = fmt.Sprint(h)
		}
	}
	return buildRows(header, values[1:])
}

// buildRows keys cells by header. Blank cells become nil, columns with a
// blank header are dropped and rows with no non-blank cell are skipped.
// Non-blank cells are also stored under their column reference ("$Y") for
// blocks read by position; those keys do not make a row non-empty.
func buildRows(header []string, records [][]any) []models.Row {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	rows := make([]models.Row, 0, len(records))
	for _, rec := range records {
		row := make(models.Row, len(cols))
		empty := true
		for i, col := range cols {
			if col == "" {
				continue
			}
			if _, dup := row[col]; dup {
				continue // first column with a given header wins
			}
			var cell any
			if i < len(rec) {
				cell = normalizeCell(rec[i])
			}
			if cell != nil {
				empty = false
			}
			row[col] = cell
		}
		if !empty {
			for i, v := range rec {
				if cell := normalizeCell(v); cell != nil {
					row[models.ColumnRef(i)] = cell
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func normalizeCell(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return s
		}
		return nil
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return val
	}
}
