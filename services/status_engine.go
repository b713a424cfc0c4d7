// backend/services/status_engine.go
package services

import (
	"math"
	"strings"
	"time"

	"github.com/gewnthar/sitetrack/models"
	"github.com/gewnthar/sitetrack/utils"
)

const (
	// StaleAfterDays is how many whole days may pass since last_updated
	// before a task counts as stale.
	StaleAfterDays = 14

	aheadThreshold  = 10.0
	onTrackFloor    = -10.0
	atRiskFloor     = -25.0
	riskOverdue     = 50.0
	riskStale       = 20.0
	riskNoEvidence  = 10.0
	delayFlagMarker = "DELAY"
)

// SiteUID is the canonical site grouping key: package, district and site.
func SiteUID(packageID, district, siteID string) string {
	return packageID + "|" + district + "|" + siteID
}

// TaskUID identifies a task for deduplication within one ingestion batch.
func TaskUID(siteUID, discipline, taskName string) string {
	return siteUID + "|" + discipline + "|" + taskName
}

// LegacySiteKey omits the district. Kept as an alias for older consumers.
func LegacySiteKey(packageID, siteID string) string {
	return packageID + "__" + siteID
}

// IsDelayFlagged reports whether a free-text delay flag mentions DELAY.
func IsDelayFlagged(flag *string) bool {
	return flag != nil && strings.Contains(strings.ToUpper(*flag), delayFlagMarker)
}

// ComputeTaskStatus derives every status, schedule, evidence, quality and risk
// field for one task as of now. It is pure: the same task and now always
// produce the same result.
func ComputeTaskStatus(task models.Task, now time.Time) models.TaskWithStatus {
	task.PlannedStart = utils.ParseDate(task.PlannedStart)
	task.PlannedFinish = utils.ParseDate(task.PlannedFinish)
	task.ActualStart = utils.ParseDate(task.ActualStart)
	task.ActualFinish = utils.ParseDate(task.ActualFinish)
	task.LastUpdated = utils.ParseDate(task.LastUpdated)

	siteUID := SiteUID(task.PackageID, task.District, task.SiteID)
	ts := models.TaskWithStatus{
		Task:               task,
		SiteUID:            siteUID,
		TaskUID:            TaskUID(siteUID, task.Discipline, task.TaskName),
		SiteKey:            LegacySiteKey(task.PackageID, task.SiteID),
		TaskWeightNormSite: 1,
		TodayEpoch:         now.UnixMilli(),
	}

	ts.TaskWeightDays = taskWeightDays(task.PlannedDurationDays)
	ts.TaskWeightFinal = ts.TaskWeightDays
	ts.Weight = ts.TaskWeightFinal

	ts.DataQualityIssues, ts.DataQualityFlag = ValidateTaskData(task, now)
	ts.StaleUpdateFlag = isStale(task.LastUpdated, now)

	ts.PlannedProgressPct = PlannedProgress(task.PlannedStart, task.PlannedFinish, now)
	if task.ProgressPct != nil && ts.PlannedProgressPct != nil {
		delta := *task.ProgressPct - *ts.PlannedProgressPct
		ts.ProgressDeltaPct = &delta
	}
	ts.ScheduleBucket = bucketFromDelta(ts.ProgressDeltaPct)

	ts.Status = classifyStatus(task, ts.StaleUpdateFlag, now)
	ts.IsCompleted = ts.Status == models.StatusCompleted
	ts.IsOverdue = ts.Status == models.StatusOverdue
	ts.IsStalled = ts.Status == models.StatusStalled
	ts.IsDelayed = IsDelayFlagged(task.DelayFlagCalc)

	if ts.ScheduleBucket == "" {
		ts.ScheduleBucket = fallbackBucket(ts.Status, ts.IsDelayed)
	}

	ts.SlipDays = slipDays(task, ts.Status, now)

	ts.BeforeURLResolved, ts.BeforePhotoStatus = utils.ResolveEvidenceURL(task.BeforePhotoDirectURL, task.BeforePhotoShareURL)
	ts.AfterURLResolved, ts.AfterPhotoStatus = utils.ResolveEvidenceURL(task.AfterPhotoDirectURL, task.AfterPhotoShareURL)
	ts.EvidenceStatus = evidenceStatus(ts.BeforeURLResolved != nil, ts.AfterURLResolved != nil)
	ts.EvidenceCompliantFlag = ts.EvidenceStatus == models.EvidenceBeforeAfter

	ts.RiskTask = taskRisk(ts)
	return ts
}

// ComputeAllStatuses runs ComputeTaskStatus over a batch with a single now.
func ComputeAllStatuses(tasks []models.Task, now time.Time) []models.TaskWithStatus {
	out := make([]models.TaskWithStatus, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ComputeTaskStatus(t, now))
	}
	return out
}

// ValidateTaskData lists the data-quality issues of a task and the highest
// severity among them. The issue list is never nil; the flag is empty when
// there are no issues.
func ValidateTaskData(task models.Task, now time.Time) ([]string, models.QualityFlag) {
	issues := []string{}

	if task.PlannedStart != nil && task.PlannedFinish != nil && task.PlannedFinish.Before(*task.PlannedStart) {
		issues = append(issues, models.IssuePlannedFinishBeforeStart)
	}
	if task.ActualStart != nil && task.ActualFinish != nil && task.ActualFinish.Before(*task.ActualStart) {
		issues = append(issues, models.IssueActualFinishBeforeStart)
	}
	if task.ProgressPct != nil && (*task.ProgressPct < 0 || *task.ProgressPct > 100) {
		issues = append(issues, models.IssueProgressOutOfRange)
	}
	if task.ProgressPct != nil && *task.ProgressPct >= 100 && task.ActualFinish == nil {
		issues = append(issues, models.IssueCompletedMissingActualFinish)
	}
	if task.PlannedStart == nil || task.PlannedFinish == nil {
		issues = append(issues, models.IssueMissingPlannedDates)
	}
	if isStale(task.LastUpdated, now) {
		issues = append(issues, models.IssueStaleUpdate)
	}
	if task.PlannedDurationDays == nil || *task.PlannedDurationDays <= 0 {
		issues = append(issues, models.IssueDurationMissingOrZero)
	}

	return issues, qualitySeverity(issues)
}

func qualitySeverity(issues []string) models.QualityFlag {
	if len(issues) == 0 {
		return ""
	}
	flag := models.QualityInfo
	for _, issue := range issues {
		switch issue {
		case models.IssuePlannedFinishBeforeStart, models.IssueActualFinishBeforeStart, models.IssueProgressOutOfRange:
			return models.QualityCritical
		case models.IssueCompletedMissingActualFinish, models.IssueMissingPlannedDates, models.IssueStaleUpdate:
			flag = models.QualityWarning
		}
	}
	return flag
}

// PlannedProgress is the linear time-based baseline between planned start and
// finish, clamped to [0,100]. nil when either date is missing.
func PlannedProgress(start, finish *time.Time, now time.Time) *float64 {
	if start == nil || finish == nil {
		return nil
	}
	var pct float64
	switch {
	case !now.After(*start):
		pct = 0
	case !now.Before(*finish):
		pct = 100
	default:
		pct = float64(now.Sub(*start)) / float64(finish.Sub(*start)) * 100
	}
	return &pct
}

func taskWeightDays(duration *float64) float64 {
	if duration == nil || *duration == 0 {
		return 1
	}
	return math.Max(1, *duration)
}

func isStale(lastUpdated *time.Time, now time.Time) bool {
	return lastUpdated != nil && utils.WholeDaysBetween(*lastUpdated, now) > StaleAfterDays
}

func bucketFromDelta(delta *float64) models.ScheduleBucket {
	if delta == nil {
		return ""
	}
	switch d := *delta; {
	case d > aheadThreshold:
		return models.BucketAhead
	case d >= onTrackFloor:
		return models.BucketOnTrack
	case d >= atRiskFloor:
		return models.BucketAtRisk
	default:
		return models.BucketDelayed
	}
}

func classifyStatus(task models.Task, stale bool, now time.Time) models.TaskStatus {
	progress := task.ProgressPct
	switch {
	case task.ActualFinish != nil || (progress != nil && *progress >= 100):
		return models.StatusCompleted
	case task.ActualStart == nil && (progress == nil || *progress == 0):
		return models.StatusNotStarted
	case task.PlannedFinish != nil && task.PlannedFinish.Before(now):
		return models.StatusOverdue
	case stale && progress != nil && *progress > 0:
		return models.StatusStalled
	default:
		return models.StatusInProgress
	}
}

// fallbackBucket backfills a schedule bucket when no numeric baseline exists.
// Not-started tasks without a delay flag stay unbucketed.
func fallbackBucket(status models.TaskStatus, delayFlagged bool) models.ScheduleBucket {
	switch {
	case status == models.StatusOverdue || status == models.StatusStalled:
		return models.BucketDelayed
	case status == models.StatusCompleted:
		return models.BucketOnTrack
	case delayFlagged:
		return models.BucketDelayed
	case status == models.StatusInProgress:
		return models.BucketOnTrack
	default:
		return ""
	}
}

func slipDays(task models.Task, status models.TaskStatus, now time.Time) int {
	switch {
	case status == models.StatusCompleted && task.ActualFinish != nil && task.PlannedFinish != nil:
		return utils.WholeDaysBetween(*task.PlannedFinish, *task.ActualFinish)
	case status == models.StatusOverdue && task.PlannedFinish != nil:
		return utils.WholeDaysBetween(*task.PlannedFinish, now)
	default:
		return 0
	}
}

func evidenceStatus(hasBefore, hasAfter bool) models.EvidenceStatus {
	switch {
	case hasBefore && hasAfter:
		return models.EvidenceBeforeAfter
	case hasBefore:
		return models.EvidenceBeforeOnly
	case hasAfter:
		return models.EvidenceAfterOnly
	default:
		return models.EvidenceNone
	}
}

func taskRisk(ts models.TaskWithStatus) float64 {
	risk := 0.0
	if ts.IsOverdue {
		risk += riskOverdue
	}
	if ts.StaleUpdateFlag {
		risk += riskStale
	}
	if !ts.EvidenceCompliantFlag {
		risk += riskNoEvidence
	}
	if ts.ProgressDeltaPct != nil {
		risk += math.Max(0, -*ts.ProgressDeltaPct)
	}
	return risk
}
