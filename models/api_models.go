// backend/models/api_models.go
package models

import "time"

// DelayStatusBreakdown counts sites by their delay signal.
type DelayStatusBreakdown struct {
	OnTrack int `json:"onTrack"`
	Delayed int `json:"delayed"`
	Unknown int `json:"unknown"`
}

// StageHealth is one progress-stage bucket of the schedule health chart.
type StageHealth struct {
	Bucket  string `json:"bucket"`
	OnTrack int    `json:"onTrack"`
	Delayed int    `json:"delayed"`
	Unknown int    `json:"unknown"`
}

// SummaryAssertions reports whether the breakdowns account for every site.
type SummaryAssertions struct {
	DelayBreakdownMatchesSites bool `json:"delayBreakdownMatchesSites"`
	ScheduleHealthMatchesSites bool `json:"scheduleHealthMatchesSites"`
	DelaySum                   int  `json:"delaySum"`
	ScheduleSum                int  `json:"scheduleSum"`
	TotalSites                 int  `json:"totalSites"`
}

// Summary is the payload behind GET /api/summary.
type Summary struct {
	KPIs                  DashboardKPIs                `json:"kpis"`
	PackageCompliance     map[string]PackageCompliance `json:"packageCompliance"`
	DelayStatusBreakdown  DelayStatusBreakdown         `json:"delayStatusBreakdown"`
	ScheduleHealthByStage []StageHealth                `json:"scheduleHealthByStage"`
	Assertions            SummaryAssertions            `json:"_assertions"`
	Metadata              IngestionMetadata            `json:"_metadata"`
	LastRefresh           time.Time                    `json:"lastRefresh"`
}

// ComplianceCounts tallies packages by compliance status.
type ComplianceCounts struct {
	Compliant    int `json:"compliant"`
	NonCompliant int `json:"nonCompliant"`
	Unknown      int `json:"unknown"`
	Total        int `json:"total"`
}

// TaskExportRow is the flattened CSV shape of a task for GET /api/tasks/export.csv.
type TaskExportRow struct {
	TaskUID            string   `csv:"task_uid"`
	SiteUID            string   `csv:"site_uid"`
	PackageID          string   `csv:"package_id"`
	PackageName        string   `csv:"package_name"`
	District           string   `csv:"district"`
	SiteID             string   `csv:"site_id"`
	SiteName           string   `csv:"site_name"`
	Discipline         string   `csv:"discipline"`
	TaskName           string   `csv:"task_name"`
	PlannedStart       string   `csv:"planned_start"`
	PlannedFinish      string   `csv:"planned_finish"`
	ActualStart        string   `csv:"actual_start"`
	ActualFinish       string   `csv:"actual_finish"`
	ProgressPct        *float64 `csv:"progress_pct,omitempty"`
	PlannedProgressPct *float64 `csv:"planned_progress_pct,omitempty"`
	Status             string   `csv:"status"`
	ScheduleBucket     string   `csv:"schedule_bucket"`
	SlipDays           int      `csv:"slip_days"`
	IsDelayed          bool     `csv:"is_delayed"`
	RiskTask           float64  `csv:"risk_task"`
	EvidenceStatus     string   `csv:"evidence_status"`
	DataQualityFlag    string   `csv:"data_quality_flag"`
	DataQualityIssues  string   `csv:"data_quality_issues"`
}
