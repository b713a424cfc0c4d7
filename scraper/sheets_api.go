// backend/scraper/sheets_api.go
package scraper

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/gewnthar/sitetrack/config"
)

// sheetValuesFunc reads a range of cells, header row included.
type sheetValuesFunc func(ctx context.Context, spreadsheetID, readRange string) ([][]any, error)

// newSheetsService authenticates with an API key when one is configured,
// otherwise with a service account credentials file.
func newSheetsService(ctx context.Context, g config.GoogleConfig) (*sheets.Service, error) {
	if g.APIKey != "" {
		return sheets.NewService(ctx, option.WithAPIKey(g.APIKey))
	}
	if g.CredentialsFile == "" {
		return nil, fmt.Errorf("sheets_api source requires google.api_key or google.credentials_file")
	}

	b, err := os.ReadFile(g.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file %s: %w", g.CredentialsFile, err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(b, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account credentials: %w", err)
	}
	return sheets.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
}

// sheetsAPIValues returns a sheetValuesFunc backed by the Sheets v4 API. Cells
// come back unformatted, so numbers stay numbers and dates arrive as serials.
func sheetsAPIValues(g config.GoogleConfig) sheetValuesFunc {
	return func(ctx context.Context, spreadsheetID, readRange string) ([][]any, error) {
		srv, err := newSheetsService(ctx, g)
		if err != nil {
			return nil, err
		}
		resp, err := srv.Spreadsheets.Values.Get(spreadsheetID, readRange).
			ValueRenderOption("UNFORMATTED_VALUE").
			DateTimeRenderOption("SERIAL_NUMBER").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("sheets API read of %s failed: %w", readRange, err)
		}
		log.Printf("Scraper: Sheets API returned %d rows for %s\n", len(resp.Values), readRange)
		return resp.Values, nil
	}
}

func sheetRange(src config.SheetSourceConfig) string {
	sheet := src.SheetName
	if sheet == "" {
		sheet = config.DefaultSheetName
	}
	rng := src.Range
	if rng == "" {
		rng = config.DefaultRange
	}
	return sheet + "!" + rng
}
