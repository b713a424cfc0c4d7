// backend/cmd_ingest.go
package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gewnthar/sitetrack/config"
	"github.com/gewnthar/sitetrack/models"
	"github.com/gewnthar/sitetrack/scraper"
	"github.com/gewnthar/sitetrack/services"
)

type ingestOptions struct {
	file        string
	packageID   string
	packageName string
	sheetName   string
	withSites   bool
}

func newIngestCmd() *cobra.Command {
	var opts ingestOptions
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion and print KPIs and summary as JSON",
		Long: "Runs a single ingestion over the configured sources, or over one local\n" +
			"export given with --file, and prints the result without starting a server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, cfg, err := ingestSources(opts)
			if err != nil {
				return err
			}
			ingestor := services.NewIngestor(sources, scraper.NewFetcher(cfg))
			data, err := ingestor.Ingest(cmd.Context(), time.Now().UTC())
			if err != nil {
				return err
			}

			out := map[string]interface{}{
				"summary":     services.BuildSummary(data),
				"lastRefresh": data.LastRefresh,
			}
			if opts.withSites {
				sites := append([]models.SiteAggregate(nil), data.Sites...)
				services.SortSitesByAttention(sites)
				out["sites"] = sites
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "local export to ingest (.csv, .xlsx or .html) instead of the configured sources")
	cmd.Flags().StringVar(&opts.packageID, "package-id", "", "package ID for --file (default: file name)")
	cmd.Flags().StringVar(&opts.packageName, "package-name", "", "package name for --file (default: package ID)")
	cmd.Flags().StringVar(&opts.sheetName, "sheet", config.DefaultSheetName, "worksheet to read from an XLSX --file")
	cmd.Flags().BoolVar(&opts.withSites, "sites", false, "include site aggregates in the output")
	return cmd
}

func ingestSources(opts ingestOptions) ([]config.SheetSourceConfig, config.Config, error) {
	if opts.file == "" {
		if err := loadConfig(); err != nil {
			return nil, config.Config{}, err
		}
		if len(config.AppConfig.Sources) == 0 {
			return nil, config.Config{}, fmt.Errorf("no sources configured")
		}
		return config.AppConfig.Sources, config.AppConfig, nil
	}

	id := opts.packageID
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(opts.file), filepath.Ext(opts.file))
	}
	name := opts.packageName
	if name == "" {
		name = id
	}
	src := config.SheetSourceConfig{
		PackageID:   id,
		PackageName: name,
		Format:      config.FormatFile,
		Path:        opts.file,
		SheetName:   opts.sheetName,
	}
	return []config.SheetSourceConfig{src}, config.Config{}, nil
}

