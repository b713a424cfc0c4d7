// backend/handlers/dashboard_handler.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gewnthar/sitetrack/models"
	"github.com/gewnthar/sitetrack/services"
)

// HealthHandler reports whether a snapshot is loaded and how the last refresh went.
// GET /api/health
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{"status": "ok", "initialized": true}

	data, err := a.Cache.Snapshot()
	if err != nil {
		resp["status"] = "unavailable"
		resp["initialized"] = false
	} else {
		resp["lastRefresh"] = data.LastRefresh
	}
	if at := a.Cache.LastAttempt(); !at.IsZero() {
		resp["lastAttempt"] = at
	}
	if last := a.Cache.LastError(); last != nil {
		resp["lastError"] = last.Error()
		if data != nil {
			resp["status"] = "degraded"
		}
	}

	code := http.StatusOK
	if data == nil {
		code = http.StatusServiceUnavailable
	}
	respondWithJSON(w, code, resp)
}

// GetTasksHandler returns every task, or the tasks of one site.
// GET /api/tasks?site_uid=FP1|Lahore|101
func (a *API) GetTasksHandler(w http.ResponseWriter, r *http.Request) {
	data := a.snapshot(w)
	if data == nil {
		return
	}

	siteUID := strings.TrimSpace(r.URL.Query().Get("site_uid"))
	tasks := data.Tasks
	if siteUID != "" {
		tasks = make([]models.TaskWithStatus, 0)
		for _, t := range data.Tasks {
			if t.SiteUID == siteUID {
				tasks = append(tasks, t)
			}
		}
	}
	if tasks == nil {
		tasks = []models.TaskWithStatus{}
	}

	var filterSite interface{}
	if siteUID != "" {
		filterSite = siteUID
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"data":        tasks,
		"count":       len(tasks),
		"filters":     map[string]interface{}{"site_uid": filterSite},
		"lastRefresh": data.LastRefresh,
	})
}

// GetSitesHandler returns the sites that have at least one task matching the
// query's filters, most in need of attention first. Site figures always cover
// all of a site's tasks.
// GET /api/sites?package=...&district=...&delayed_only=true
func (a *API) GetSitesHandler(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilterState(r.URL.Query())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	data := a.snapshot(w)
	if data == nil {
		return
	}

	sites := services.FilterSites(data.Sites, data.Tasks, filters)
	services.SortSitesByAttention(sites)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"data":        sites,
		"count":       len(sites),
		"filters":     filters,
		"lastRefresh": data.LastRefresh,
	})
}

// GetSummaryHandler returns KPIs, compliance and the summary breakdowns.
// GET /api/summary
func (a *API) GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	data := a.snapshot(w)
	if data == nil {
		return
	}
	summary := services.BuildSummary(data)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    summary,
		"source":  data.Source,
		"age":     time.Since(data.LastRefresh).Round(time.Second).String(),
	})
}

// GetFiltersHandler returns the distinct values available for each filter.
// GET /api/filters
func (a *API) GetFiltersHandler(w http.ResponseWriter, r *http.Request) {
	data := a.snapshot(w)
	if data == nil {
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    services.GetFilterOptions(data.Tasks),
	})
}

// GetComplianceHandler returns package compliance, status counts and the
// IPC statuses of each package.
// GET /api/compliance
func (a *API) GetComplianceHandler(w http.ResponseWriter, r *http.Request) {
	data := a.snapshot(w)
	if data == nil {
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"data":     data.PackageCompliance,
		"counts":   services.CountCompliance(data.PackageCompliance),
		"ipc":      data.PackageIPC,
		"packages": data.Metadata.Packages,
	})
}
