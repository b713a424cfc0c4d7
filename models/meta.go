// backend/models/meta.go
package models

import "time"

// Ingestion run outcomes.
const (
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
	RunStatusStale   = "stale" // refresh failed, previous snapshot kept
)

// IngestionRun tracks one refresh attempt in the optional run log.
type IngestionRun struct {
	ID           string     `db:"id" json:"id"`
	StartedAt    time.Time  `db:"started_at" json:"started_at"`
	FinishedAt   *time.Time `db:"finished_at" json:"finished_at,omitempty"`
	Status       string     `db:"status" json:"status"`
	RawRows      int        `db:"raw_rows" json:"raw_rows"`
	ValidTasks   int        `db:"valid_tasks" json:"valid_tasks"`
	UniqueSites  int        `db:"unique_sites" json:"unique_sites"`
	Packages     string     `db:"packages" json:"packages,omitempty"` // comma separated package IDs
	ErrorMessage string     `db:"error_message" json:"error_message,omitempty"`
}

// IngestionMetadata describes how a snapshot was built.
type IngestionMetadata struct {
	TotalRawRows int      `json:"totalRawRows"`
	MappedTasks  int      `json:"mappedTasks"`
	ValidTasks   int      `json:"validTasks"`
	UniqueSites  int      `json:"uniqueSites"`
	Packages     []string `json:"packages"`
	DurationMS   int64    `json:"durationMs"`
}

// IngestedData is one complete, validated snapshot of the portfolio.
type IngestedData struct {
	Tasks             []TaskWithStatus             `json:"tasks"`
	Sites             []SiteAggregate              `json:"sites"`
	KPIs              DashboardKPIs                `json:"kpis"`
	PackageCompliance map[string]PackageCompliance `json:"packageCompliance"`
	PackageIPC        map[string][]IPCRecord       `json:"packageIpc"`
	LastRefresh       time.Time                    `json:"lastRefresh"`
	Source            string                       `json:"source"`
	Metadata          IngestionMetadata            `json:"_metadata"`
}

// SourceRows is the raw output of acquiring one package's spreadsheet.
type SourceRows struct {
	PackageID   string
	PackageName string
	Rows        []Row
}

// Compliance statuses for a package.
const (
	ComplianceCompliant    = "COMPLIANT"
	ComplianceNonCompliant = "NON_COMPLIANT"
	ComplianceUnknown      = "UNKNOWN"
)

// PackageCompliance is the package-level Yes/No compliance block of a sheet.
type PackageCompliance struct {
	NoOfStaffRFB    *string  `json:"no_of_staff_rfb"`
	CESMPSSubmitted *string  `json:"cesmps_submitted"`
	OHSMeasures     *string  `json:"ohs_measures"`
	Status          string   `json:"status"`
	Issues          []string `json:"issues"`
}

// Interim Payment Certificate statuses.
const (
	IPCNotSubmitted = "not submitted"
	IPCSubmitted    = "submitted"
	IPCInProcess    = "in process"
	IPCReleased     = "released"
)

// IPCRecord is the status of one Interim Payment Certificate of a package.
// Status is nil when the cell is blank or not a known status.
type IPCRecord struct {
	IPCNumber string  `json:"ipcNumber"`
	Status    *string `json:"status"`
}
