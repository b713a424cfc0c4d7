// backend/models/site.go
package models

import "time"

// Risk levels for a site aggregate.
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// SiteAggregate is one physical site folded from its member tasks.
// It is rebuilt from scratch on every aggregation pass.
type SiteAggregate struct {
	SiteUID     string `json:"site_uid"`
	SiteKey     string `json:"siteKey"`
	PackageID   string `json:"package_id"`
	PackageName string `json:"package_name"`
	District    string `json:"district"`
	SiteID      string `json:"site_id"`
	SiteName    string `json:"site_name"`

	Tasks []TaskWithStatus `json:"tasks"`

	TotalTasks      int `json:"totalTasks"`
	CompletedTasks  int `json:"completedTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	NotStartedTasks int `json:"notStartedTasks"`
	OverdueTasks    int `json:"overdueTasks"`
	StalledTasks    int `json:"stalledTasks"`
	DelayedTasks    int `json:"delayedTasks"` // legacy isDelayed count

	WeightedProgress float64 `json:"weightedProgress"`
	RiskScore        float64 `json:"riskScore"`
	RiskLevel        string  `json:"riskLevel"`

	MaxPlannedFinish *time.Time `json:"maxPlannedFinish"`
	MaxLastUpdated   *time.Time `json:"maxLastUpdated"`

	CoverPhotoDirectURL *string `json:"coverPhotoDirectUrl"`
	PhotoFolderURL      *string `json:"photoFolderUrl"`
	CoverPhotoShareURL  *string `json:"coverPhotoShareUrl"`
}

// DashboardKPIs are portfolio-wide counts and overall weighted progress.
type DashboardKPIs struct {
	TotalSites              int     `json:"totalSites"`
	TotalTasks              int     `json:"totalTasks"`
	OverallWeightedProgress float64 `json:"overallWeightedProgress"`
	SitesWithCompleted      int     `json:"sitesWithCompleted"`
	SitesFullyCompleted     int     `json:"sitesFullyCompleted"`
	DelayedTasks            int     `json:"delayedTasks"`
	NotStartedTasks         int     `json:"notStartedTasks"`
	InProgressTasks         int     `json:"inProgressTasks"`
	CompletedTasks          int     `json:"completedTasks"`
	OverdueTasks            int     `json:"overdueTasks"`
	StalledTasks            int     `json:"stalledTasks"`
}

// FilterState holds the active filter predicates. Empty lists and unset
// values impose no constraint.
type FilterState struct {
	PackageNames    []string   `json:"packageNames"` // package IDs or names
	Districts       []string   `json:"districts"`
	SiteNameSearch  string     `json:"siteNameSearch"`
	Disciplines     []string   `json:"disciplines"`
	DelayFlags      []string   `json:"delayFlags"`
	DateRangeStart  *time.Time `json:"dateRangeStart"`
	DateRangeEnd    *time.Time `json:"dateRangeEnd"`
	ShowOnlyDelayed bool       `json:"showOnlyDelayed"`
}

// FilterOptions enumerates the distinct values available for filtering.
type FilterOptions struct {
	PackageNames []string `json:"packageNames"`
	Districts    []string `json:"districts"`
	Disciplines  []string `json:"disciplines"`
	DelayFlags   []string `json:"delayFlags"`
}
