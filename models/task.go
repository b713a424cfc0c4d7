// backend/models/task.go
package models

import (
	"encoding/json"
	"time"
)

// TaskStatus is the single lifecycle state derived for a task.
type TaskStatus string

const (
	StatusCompleted  TaskStatus = "completed"
	StatusInProgress TaskStatus = "in-progress"
	StatusNotStarted TaskStatus = "not-started"
	StatusOverdue    TaskStatus = "overdue"
	StatusStalled    TaskStatus = "stalled"
)

// ScheduleBucket classifies reported progress against the time-based baseline.
// The zero value means "no bucket" and is serialized as JSON null.
type ScheduleBucket string

const (
	BucketAhead   ScheduleBucket = "ahead"
	BucketOnTrack ScheduleBucket = "on-track"
	BucketAtRisk  ScheduleBucket = "at-risk"
	BucketDelayed ScheduleBucket = "delayed"
)

func (b ScheduleBucket) MarshalJSON() ([]byte, error) {
	if b == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(b))
}

func (b *ScheduleBucket) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*b = ""
		return nil
	}
	*b = ScheduleBucket(*s)
	return nil
}

// EvidenceStatus records which of the before/after photos could be resolved.
type EvidenceStatus string

const (
	EvidenceNone        EvidenceStatus = "none"
	EvidenceBeforeOnly  EvidenceStatus = "before-only"
	EvidenceAfterOnly   EvidenceStatus = "after-only"
	EvidenceBeforeAfter EvidenceStatus = "before-after"
)

// PhotoStatus is the outcome of resolving one evidence URL.
type PhotoStatus string

const (
	PhotoDirectOK          PhotoStatus = "direct-ok"
	PhotoResolvedFromShare PhotoStatus = "resolved-from-share"
	PhotoUnresolvable      PhotoStatus = "unresolvable"
	PhotoMissing           PhotoStatus = "missing"
)

// QualityFlag is the highest severity among a task's data-quality issues.
// The zero value means "no issues" and is serialized as JSON null.
type QualityFlag string

const (
	QualityCritical QualityFlag = "critical"
	QualityWarning  QualityFlag = "warning"
	QualityInfo     QualityFlag = "info"
)

func (f QualityFlag) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

func (f *QualityFlag) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*f = ""
		return nil
	}
	*f = QualityFlag(*s)
	return nil
}

// Data-quality issue tags.
const (
	IssuePlannedFinishBeforeStart     = "planned_finish_before_start"
	IssueActualFinishBeforeStart      = "actual_finish_before_start"
	IssueProgressOutOfRange           = "progress_out_of_range"
	IssueCompletedMissingActualFinish = "completed_but_missing_actual_finish"
	IssueMissingPlannedDates          = "missing_planned_dates"
	IssueStaleUpdate                  = "stale_update"
	IssueDurationMissingOrZero        = "duration_missing_or_zero"
)

// Task is one spreadsheet row of work, after column mapping and value normalization.
// Progress is NOT clamped here; out-of-range values are flagged by the status engine.
type Task struct {
	PackageID   string `json:"package_id"`
	PackageName string `json:"package_name"`
	District    string `json:"district"`
	SiteID      string `json:"site_id"`
	SiteName    string `json:"site_name"`
	Discipline  string `json:"discipline"`
	TaskName    string `json:"task_name"`

	PlannedStart        *time.Time `json:"planned_start"`
	PlannedFinish       *time.Time `json:"planned_finish"`
	PlannedDurationDays *float64   `json:"planned_duration_days"`
	ActualStart         *time.Time `json:"actual_start"`
	ActualFinish        *time.Time `json:"actual_finish"`

	ProgressPct   *float64   `json:"progress_pct"`
	Variance      *float64   `json:"Variance"`
	DelayFlagCalc *string    `json:"delay_flag_calc"`
	LastUpdated   *time.Time `json:"last_updated"`
	Remarks       *string    `json:"remarks"`

	PhotoFolderURL       *string `json:"photo_folder_url"`
	CoverPhotoShareURL   *string `json:"cover_photo_share_url"`
	CoverPhotoDirectURL  *string `json:"cover_photo_direct_url"`
	BeforePhotoShareURL  *string `json:"before_photo_share_url"`
	BeforePhotoDirectURL *string `json:"before_photo_direct_url"`
	AfterPhotoShareURL   *string `json:"after_photo_share_url"`
	AfterPhotoDirectURL  *string `json:"after_photo_direct_url"`
}

// TaskWithStatus is a Task plus every field derived by the status engine.
type TaskWithStatus struct {
	Task

	// Identity keys
	SiteUID string `json:"site_uid"`
	TaskUID string `json:"task_uid"`
	SiteKey string `json:"siteKey"` // legacy alias, omits district

	Status      TaskStatus `json:"status"`
	IsCompleted bool       `json:"is_completed"`
	IsOverdue   bool       `json:"is_overdue"`
	IsStalled   bool       `json:"is_stalled"`
	IsDelayed   bool       `json:"isDelayed"` // from the free-text delay flag only

	PlannedProgressPct *float64       `json:"planned_progress_pct"`
	ProgressDeltaPct   *float64       `json:"progress_delta_pct"`
	ScheduleBucket     ScheduleBucket `json:"schedule_bucket"`
	SlipDays           int            `json:"slip_days"`
	StaleUpdateFlag    bool           `json:"stale_update_flag"`

	Weight             float64 `json:"weight"`
	TaskWeightDays     float64 `json:"task_weight_days"`
	TaskWeightFinal    float64 `json:"task_weight_final"`
	TaskWeightNormSite float64 `json:"task_weight_norm_site"`

	BeforeURLResolved     *string        `json:"before_url_resolved"`
	AfterURLResolved      *string        `json:"after_url_resolved"`
	BeforePhotoStatus     PhotoStatus    `json:"before_photo_status"`
	AfterPhotoStatus      PhotoStatus    `json:"after_photo_status"`
	EvidenceStatus        EvidenceStatus `json:"evidence_status"`
	EvidenceCompliantFlag bool           `json:"evidence_compliant_flag"`

	DataQualityIssues []string    `json:"data_quality_issues"`
	DataQualityFlag   QualityFlag `json:"data_quality_flag"`

	RiskTask float64 `json:"risk_task"`

	// Milliseconds since the unix epoch of the "now" used for derivation.
	TodayEpoch int64 `json:"today_epoch"`
}

// ProgressOrZero returns the reported progress, treating a missing value as 0.
func (t TaskWithStatus) ProgressOrZero() float64 {
	if t.ProgressPct == nil {
		return 0
	}
	return *t.ProgressPct
}

// HasPlannedDate reports whether either planned date is present.
func (t TaskWithStatus) HasPlannedDate() bool {
	return t.PlannedStart != nil || t.PlannedFinish != nil
}
