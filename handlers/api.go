// backend/handlers/api.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gewnthar/sitetrack/models"
)

// SnapshotSource is the read side of the snapshot cache.
type SnapshotSource interface {
	Snapshot() (*models.IngestedData, error)
	Refresh(ctx context.Context) (*models.IngestedData, error)
	LastError() error
	LastAttempt() time.Time
}

// RunLister reads the ingestion run log.
type RunLister interface {
	GetRecentIngestionRuns(ctx context.Context, limit int) ([]models.IngestionRun, error)
}

// API serves the dashboard endpoints. Runs may be nil when the run log is disabled.
type API struct {
	Cache SnapshotSource
	Runs  RunLister
}

func NewAPI(cache SnapshotSource, runs RunLister) *API {
	return &API{Cache: cache, Runs: runs}
}

// Routes builds the chi router for every /api endpoint.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.HealthHandler)
		r.Get("/tasks", a.GetTasksHandler)
		r.Get("/tasks/export.csv", a.ExportTasksCSVHandler)
		r.Get("/sites", a.GetSitesHandler)
		r.Get("/summary", a.GetSummaryHandler)
		r.Get("/filters", a.GetFiltersHandler)
		r.Get("/compliance", a.GetComplianceHandler)
		r.Post("/refresh", a.RefreshHandler)
		r.Get("/admin/runs", a.GetRunsHandler)
	})
	return r
}

// snapshot writes a 503 and returns nil when no data has been loaded yet.
func (a *API) snapshot(w http.ResponseWriter) *models.IngestedData {
	data, err := a.Cache.Snapshot()
	if err != nil {
		msg := "data unavailable: " + err.Error()
		if last := a.Cache.LastError(); last != nil {
			msg += " (last refresh error: " + last.Error() + ")"
		}
		respondWithError(w, http.StatusServiceUnavailable, msg)
		return nil
	}
	return data
}
