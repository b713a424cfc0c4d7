// backend/scraper/html_parser.go
package scraper

import (
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gewnthar/sitetrack/models"
)

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// ParseRowsHTML reads the grid of a published-to-web sheet (pubhtml). The
// first row with any text is the header; row-number cells (th) are ignored.
func ParseRowsHTML(reader io.Reader) ([]models.Row, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet HTML: %w", err)
	}

	table := doc.Find("table.waffle").First()
	if table.Length() == 0 {
		table = doc.Find("table").First()
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table found in published sheet")
	}

	var header []string
	var records [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		hasText := false
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			html, _ := td.Html()
			text := convertHTMLToPlainText(html)
			if text != "" {
				hasText = true
			}
			cells = append(cells, text)
		})
		if !hasText {
			return
		}
		if header == nil {
			header = cells
			return
		}
		records = append(records, cells)
	})

	if header == nil {
		return []models.Row{}, nil
	}
	rows := rowsFromRecords(header, records)
	log.Printf("Scraper: Parsed %d rows from published HTML.\n", len(rows))
	return rows, nil
}

// convertHTMLToPlainText flattens a cell's inner HTML, keeping line breaks.
func convertHTMLToPlainText(htmlStr string) string {
	text := strings.ReplaceAll(htmlStr, "<br>", "\n")
	text = strings.ReplaceAll(text, "<br />", "\n")
	text = strings.ReplaceAll(text, "<br/>", "\n")
	text = strings.ReplaceAll(text, "</p>", "\n\n")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		log.Printf("WARN Scraper: could not parse HTML for plain text conversion: %v. Returning partially cleaned.", err)
		return strings.TrimSpace(text)
	}

	plainText := doc.Text()
	plainText = strings.ReplaceAll(plainText, "\r\n", "\n")
	plainText = strings.ReplaceAll(plainText, "\r", "\n")
	plainText = excessNewlines.ReplaceAllString(plainText, "\n\n")
	plainText = strings.ReplaceAll(plainText, " \n", "\n")
	plainText = strings.ReplaceAll(plainText, "\n ", "\n")
	plainText = strings.ReplaceAll(plainText, " ", " ")
	return strings.TrimSpace(plainText)
}
