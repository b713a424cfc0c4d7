// backend/scraper/csv_parser.go
package scraper

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/gewnthar/sitetrack/models"
)

// ParseRowsCsv reads a published CSV export into Rows keyed by the header line.
// Sheet exports often repeat blank or identical header cells; the first
// column with a given header wins.
func ParseRowsCsv(reader io.Reader) ([]models.Row, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Row{}, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var records [][]string
	for {
		rec, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read CSV record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}

	rows := rowsFromRecords(header, records)
	log.Printf("Scraper: Parsed %d rows (%d columns) from CSV.\n", len(rows), len(header))
	return rows, nil
}
