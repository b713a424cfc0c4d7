// backend/scraper/source_fetcher.go
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gewnthar/sitetrack/config"
	"github.com/gewnthar/sitetrack/models"
)

// Fetcher acquires raw rows for a configured sheet source. It satisfies
// services.RowFetcher.
type Fetcher struct {
	Client      *http.Client
	DownloadDir string // when set, every downloaded export is also saved here

	sheetValues sheetValuesFunc
}

func NewFetcher(cfg config.Config) *Fetcher {
	timeout := cfg.Refresh.FetchTimeout
	if timeout <= 0 {
		timeout = config.DefaultFetchTimeout
	}
	return &Fetcher{
		Client:      &http.Client{Timeout: timeout},
		DownloadDir: cfg.Refresh.DownloadDir,
		sheetValues: sheetsAPIValues(cfg.Google),
	}
}

// FetchRows returns the rows of one source, keyed by its header row.
func (f *Fetcher) FetchRows(ctx context.Context, src config.SheetSourceConfig) ([]models.Row, error) {
	switch src.Format {
	case config.FormatSheetsAPI:
		if f.sheetValues == nil {
			return nil, fmt.Errorf("package %s: Sheets API is not configured", src.PackageID)
		}
		values, err := f.sheetValues(ctx, src.SpreadsheetID, sheetRange(src))
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", src.PackageID, err)
		}
		return rowsFromValues(values), nil

	case config.FormatFile:
		return readFileRows(src)

	case config.FormatCSV, config.FormatXLSX, config.FormatHTML:
		data, err := DownloadExport(ctx, f.Client, src.URL)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", src.PackageID, err)
		}
		if f.DownloadDir != "" {
			if path, err := SaveExportCopy(f.DownloadDir, src.PackageID, src.Format, data, time.Now()); err != nil {
				log.Printf("WARN Scraper: %v\n", err)
			} else {
				log.Printf("Scraper: Saved export copy for %s to %s\n", src.PackageID, path)
			}
		}
		return ParseRows(src.Format, bytes.NewReader(data), src.SheetName)

	default:
		return nil, fmt.Errorf("package %s: unsupported source format %q", src.PackageID, src.Format)
	}
}

// ParseRows parses an export in the given format. sheetName only applies to XLSX.
func ParseRows(format string, r io.Reader, sheetName string) ([]models.Row, error) {
	switch format {
	case config.FormatCSV:
		return ParseRowsCsv(r)
	case config.FormatXLSX:
		if sheetName == "" {
			sheetName = config.DefaultSheetName
		}
		return ParseRowsXlsx(r, sheetName)
	case config.FormatHTML:
		return ParseRowsHTML(r)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// FormatForPath guesses an export format from a file extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return config.FormatCSV, nil
	case ".xlsx", ".xlsm":
		return config.FormatXLSX, nil
	case ".html", ".htm":
		return config.FormatHTML, nil
	default:
		return "", fmt.Errorf("cannot infer format of %s", path)
	}
}

// ReadFile parses a local export, picking the parser from its extension.
func ReadFile(path, sheetName string) ([]models.Row, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()
	return ParseRows(format, file, sheetName)
}

func readFileRows(src config.SheetSourceConfig) ([]models.Row, error) {
	rows, err := ReadFile(src.Path, src.SheetName)
	if err != nil {
		return nil, fmt.Errorf("package %s: %w", src.PackageID, err)
	}
	return rows, nil
}
