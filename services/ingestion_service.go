// backend/services/ingestion_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gewnthar/sitetrack/config"
	"github.com/gewnthar/sitetrack/models"
)

// SourceLabel identifies where snapshots come from.
const SourceLabel = "google-sheets"

// RowFetcher acquires the raw rows of one configured sheet.
type RowFetcher interface {
	FetchRows(ctx context.Context, src config.SheetSourceConfig) ([]models.Row, error)
}

// Ingestor fetches every configured source and builds a snapshot from them.
type Ingestor struct {
	Sources []config.SheetSourceConfig
	Fetcher RowFetcher
}

func NewIngestor(sources []config.SheetSourceConfig, fetcher RowFetcher) *Ingestor {
	return &Ingestor{Sources: sources, Fetcher: fetcher}
}

// Ingest fetches all sources concurrently and builds a validated snapshot.
// A source that fails to fetch contributes zero rows; if every source fails
// the ingestion fails.
func (in *Ingestor) Ingest(ctx context.Context, now time.Time) (*models.IngestedData, error) {
	log.Printf("Service: Starting ingestion of %d sources...\n", len(in.Sources))

	results := make([]models.SourceRows, len(in.Sources))
	errs := make([]error, len(in.Sources))

	var wg sync.WaitGroup
	for i, src := range in.Sources {
		wg.Add(1)
		go func(i int, src config.SheetSourceConfig) {
			defer wg.Done()
			rows, err := in.Fetcher.FetchRows(ctx, src)
			if err != nil {
				log.Printf("ERROR Service: Failed to fetch package %s: %v\n", src.PackageID, err)
				errs[i] = err
			}
			results[i] = models.SourceRows{PackageID: src.PackageID, PackageName: src.PackageName, Rows: rows}
			if err == nil {
				log.Printf("Service: Fetched %d rows for package %s\n", len(rows), src.PackageID)
			}
		}(i, src)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ingestion cancelled: %w", err)
	}
	failed := 0
	var firstErr error
	for _, err := range errs {
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if len(in.Sources) > 0 && failed == len(in.Sources) {
		return nil, fmt.Errorf("all %d sources failed to fetch: %w", failed, firstErr)
	}
	for i := range results {
		if errs[i] != nil {
			results[i].Rows = nil
		}
	}

	return BuildSnapshot(results, now)
}

// BuildSnapshot runs the pure pipeline over already-fetched rows: map, derive
// status, dedupe by task_uid (first write wins), normalize site weights,
// aggregate sites and KPIs, extract compliance and IPC status and validate
// integrity.
func BuildSnapshot(sources []models.SourceRows, now time.Time) (*models.IngestedData, error) {
	start := time.Now()

	var rawTasks []models.Task
	totalRawRows := 0
	packages := make([]string, 0, len(sources))
	compliance := make(map[string]models.PackageCompliance, len(sources))
	ipc := make(map[string][]models.IPCRecord, len(sources))
	for _, src := range sources {
		totalRawRows += len(src.Rows)
		packages = append(packages, src.PackageID)
		rawTasks = append(rawTasks, MapRows(src.Rows, src.PackageID, src.PackageName)...)
		compliance[src.PackageID] = ExtractCompliance(src.Rows)
		ipc[src.PackageID] = ExtractIPC(src.Rows)
	}
	log.Printf("Service: Mapped %d tasks from %d raw rows\n", len(rawTasks), totalRawRows)

	tasks := DedupeTasks(ComputeAllStatuses(rawTasks, now))
	log.Printf("Service: Deduplicated to %d unique tasks\n", len(tasks))

	NormalizeSiteWeights(tasks)
	sites := GroupTasksBySite(tasks)
	kpis := ComputeKPIs(tasks)
	log.Printf("Service: Aggregated into %d sites\n", len(sites))

	if err := ValidateDataIntegrity(tasks, sites, kpis); err != nil {
		log.Printf("ERROR Service: %v\n", err)
		return nil, err
	}

	counts := CountCompliance(compliance)
	log.Printf("Service: Package compliance: %d compliant, %d non-compliant\n", counts.Compliant, counts.NonCompliant)

	elapsed := time.Since(start)
	log.Printf("Service: Ingestion complete (%dms)\n", elapsed.Milliseconds())

	return &models.IngestedData{
		Tasks:             tasks,
		Sites:             sites,
		KPIs:              kpis,
		PackageCompliance: compliance,
		PackageIPC:        ipc,
		LastRefresh:       now,
		Source:            SourceLabel,
		Metadata: models.IngestionMetadata{
			TotalRawRows: totalRawRows,
			MappedTasks:  len(rawTasks),
			ValidTasks:   len(tasks),
			UniqueSites:  len(sites),
			Packages:     packages,
			DurationMS:   elapsed.Milliseconds(),
		},
	}, nil
}
