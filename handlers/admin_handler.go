// backend/handlers/admin_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gewnthar/sitetrack/models"
	"github.com/gewnthar/sitetrack/services"
)

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR Handler: Marshalling JSON response: %v\n", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Printf("Handler: API Error %d: %s\n", code, message)
	respondWithJSON(w, code, map[string]string{"error": message})
}

// RefreshHandler runs an ingestion now. When the refresh fails but an older
// snapshot exists, it still answers 200 with stale set.
// POST /api/refresh
func (a *API) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	// The refresh outlives a client that disconnects mid-ingest.
	data, err := a.Cache.Refresh(context.WithoutCancel(r.Context()))
	stale := errors.Is(err, services.ErrServingStale)
	if err != nil && !stale {
		respondWithError(w, http.StatusServiceUnavailable, "Refresh failed: "+err.Error())
		return
	}

	resp := map[string]interface{}{
		"success":     true,
		"stale":       stale,
		"lastRefresh": data.LastRefresh,
		"source":      data.Source,
		"_metadata":   data.Metadata,
	}
	if stale {
		resp["error"] = err.Error()
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// GetRunsHandler lists recent ingestion runs, newest first.
// GET /api/admin/runs?limit=20
func (a *API) GetRunsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 500 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit': must be an integer between 1 and 500")
			return
		}
		limit = n
	}

	if a.Runs == nil {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true, "enabled": false, "data": []models.IngestionRun{}, "count": 0,
		})
		return
	}

	runs, err := a.Runs.GetRecentIngestionRuns(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to read ingestion runs: "+err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true, "enabled": true, "data": runs, "count": len(runs),
	})
}
