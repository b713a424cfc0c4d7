// backend/scraper/export_downloader.go
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
)

// maxExportBytes bounds a single sheet export.
const maxExportBytes = 64 << 20

// DownloadExport fetches a sheet export (CSV, XLSX or pubhtml) into memory.
func DownloadExport(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	log.Printf("Scraper: Downloading export from %s\n", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "sitetrack/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make GET request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download export from %s: received status code %d", url, resp.StatusCode)
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, maxExportBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read export body from %s: %w", url, err)
	}
	if n > maxExportBytes {
		return nil, fmt.Errorf("export from %s exceeds %d bytes", url, maxExportBytes)
	}
	log.Printf("Scraper: Downloaded %d bytes from %s\n", n, url)
	return buf.Bytes(), nil
}

// SaveExportCopy writes a fetched export under dir as
// <packageID>_<timestamp>.<ext> and returns the path.
func SaveExportCopy(dir, packageID, ext string, data []byte, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	name := fmt.Sprintf("%s_%s.%s", sanitizeName(packageID), at.UTC().Format("20060102T150405Z"), ext)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export copy %s: %w", path, err)
	}
	return path, nil
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
