// backend/handlers/export_handler.go
package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/gewnthar/sitetrack/models"
)

const exportDateLayout = "2006-01-02"

// ExportTasksCSVHandler streams every task as CSV.
// GET /api/tasks/export.csv
func (a *API) ExportTasksCSVHandler(w http.ResponseWriter, r *http.Request) {
	data := a.snapshot(w)
	if data == nil {
		return
	}

	rows := make([]models.TaskExportRow, len(data.Tasks))
	for i, t := range data.Tasks {
		rows[i] = exportRow(t)
	}
	body, err := csvutil.Marshal(rows)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to encode CSV: "+err.Error())
		return
	}

	name := fmt.Sprintf("tasks_%s.csv", data.LastRefresh.UTC().Format("20060102T150405Z"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Printf("WARN Handler: CSV export write failed: %v\n", err)
	}
}

func exportRow(t models.TaskWithStatus) models.TaskExportRow {
	return models.TaskExportRow{
		TaskUID:            t.TaskUID,
		SiteUID:            t.SiteUID,
		PackageID:          t.PackageID,
		PackageName:        t.PackageName,
		District:           t.District,
		SiteID:             t.SiteID,
		SiteName:           t.SiteName,
		Discipline:         t.Discipline,
		TaskName:           t.TaskName,
		PlannedStart:       formatDate(t.PlannedStart),
		PlannedFinish:      formatDate(t.PlannedFinish),
		ActualStart:        formatDate(t.ActualStart),
		ActualFinish:       formatDate(t.ActualFinish),
		ProgressPct:        t.ProgressPct,
		PlannedProgressPct: t.PlannedProgressPct,
		Status:             string(t.Status),
		ScheduleBucket:     string(t.ScheduleBucket),
		SlipDays:           t.SlipDays,
		IsDelayed:          t.IsDelayed,
		RiskTask:           t.RiskTask,
		EvidenceStatus:     string(t.EvidenceStatus),
		DataQualityFlag:    string(t.DataQualityFlag),
		DataQualityIssues:  strings.Join(t.DataQualityIssues, ";"),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(exportDateLayout)
}
