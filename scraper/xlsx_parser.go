// backend/scraper/xlsx_parser.go
package scraper

import (
	"fmt"
	"io"
	"log"

	"github.com/xuri/excelize/v2"

	"github.com/gewnthar/sitetrack/models"
)

// ParseRowsXlsx reads the named sheet of a workbook, falling back to the first
// sheet when it is absent. Cells are read as displayed, so dates arrive in
// the sheet's own format.
func ParseRowsXlsx(reader io.Reader, sheetName string) ([]models.Row, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("WARN Scraper: closing workbook: %v\n", cerr)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	target := sheets[0]
	for _, s := range sheets {
		if s == sheetName {
			target = s
			break
		}
	}
	if target != sheetName && sheetName != "" {
		log.Printf("WARN Scraper: sheet %q not found, using %q\n", sheetName, target)
	}

	all, err := f.GetRows(target)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", target, err)
	}
	if len(all) == 0 {
		return []models.Row{}, nil
	}

	rows := rowsFromRecords(all[0], all[1:])
	log.Printf("Scraper: Parsed %d rows from sheet %s.\n", len(rows), target)
	return rows, nil
}
