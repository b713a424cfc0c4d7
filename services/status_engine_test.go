package services

import (
	"reflect"
	"testing"

	"github.com/gewnthar/sitetrack/models"
)

func TestComputeTaskStatusIdentityKeys(t *testing.T) {
	ts := ComputeTaskStatus(newTask("S1", "Plastering"), testNow)

	if ts.SiteUID != "FP1|Lahore|S1" {
		t.Errorf("SiteUID = %q", ts.SiteUID)
	}
	if ts.TaskUID != "FP1|Lahore|S1|Civil|Plastering" {
		t.Errorf("TaskUID = %q", ts.TaskUID)
	}
	if ts.SiteKey != "FP1__S1" {
		t.Errorf("SiteKey = %q", ts.SiteKey)
	}
	if ts.TodayEpoch != testNow.UnixMilli() {
		t.Errorf("TodayEpoch = %d", ts.TodayEpoch)
	}
	if ts.TaskWeightNormSite != 1 {
		t.Errorf("TaskWeightNormSite = %v, want 1 before normalization", ts.TaskWeightNormSite)
	}
}

func TestTaskWeightNeverBelowOne(t *testing.T) {
	cases := []struct {
		duration *float64
		want     float64
	}{
		{nil, 1},
		{ptrF(0), 1},
		{ptrF(-4), 1},
		{ptrF(0.5), 1},
		{ptrF(12), 12},
	}
	for _, tc := range cases {
		task := newTask("S1", "T")
		task.PlannedDurationDays = tc.duration
		ts := ComputeTaskStatus(task, testNow)
		if ts.TaskWeightDays != tc.want || ts.TaskWeightFinal != tc.want {
			t.Errorf("duration %v: weight days/final = %v/%v, want %v", tc.duration, ts.TaskWeightDays, ts.TaskWeightFinal, tc.want)
		}
	}
}

func TestPlannedProgressHalfway(t *testing.T) {
	task := newTask("S1", "Excavation")
	task.PlannedStart = day(-5)
	task.PlannedFinish = day(5)
	now := *day(0)

	ts := ComputeTaskStatus(task, now)
	if ts.PlannedProgressPct == nil {
		t.Fatal("PlannedProgressPct = nil")
	}
	approxEqual(t, "planned progress", *ts.PlannedProgressPct, 50)
	if ts.ProgressDeltaPct != nil {
		t.Errorf("ProgressDeltaPct = %v, want nil without reported progress", *ts.ProgressDeltaPct)
	}
	// Not started, no delay flag: the fallback leaves the bucket empty.
	if ts.Status != models.StatusNotStarted {
		t.Errorf("Status = %s, want not-started", ts.Status)
	}
	if ts.ScheduleBucket != "" {
		t.Errorf("ScheduleBucket = %q, want none", ts.ScheduleBucket)
	}
}

func TestPlannedProgressClamps(t *testing.T) {
	if got := PlannedProgress(day(1), day(10), *day(0)); got == nil || *got != 0 {
		t.Errorf("before start = %v, want 0", got)
	}
	if got := PlannedProgress(day(-10), day(-1), *day(0)); got == nil || *got != 100 {
		t.Errorf("after finish = %v, want 100", got)
	}
	if got := PlannedProgress(nil, day(3), *day(0)); got != nil {
		t.Errorf("missing start = %v, want nil", *got)
	}
}

func TestCompletedSlipDays(t *testing.T) {
	task := newTask("S1", "Roofing")
	task.PlannedFinish = day(-10)
	task.ActualFinish = day(-7)

	ts := ComputeTaskStatus(task, testNow)
	if ts.Status != models.StatusCompleted || !ts.IsCompleted {
		t.Fatalf("Status = %s, want completed", ts.Status)
	}
	if ts.SlipDays != 3 {
		t.Errorf("SlipDays = %d, want 3", ts.SlipDays)
	}
}

func TestOverdueTask(t *testing.T) {
	task := newTask("S1", "Flooring")
	task.PlannedStart = day(-20)
	task.PlannedFinish = day(-4)
	task.PlannedDurationDays = ptrF(16)
	task.ActualStart = day(-18)
	task.ProgressPct = ptrF(40)
	task.LastUpdated = day(-1)

	ts := ComputeTaskStatus(task, testNow)
	if ts.Status != models.StatusOverdue || !ts.IsOverdue {
		t.Fatalf("Status = %s, want overdue", ts.Status)
	}
	// now is midday, so 4.5 days have passed: floor gives 4.
	if ts.SlipDays != 4 {
		t.Errorf("SlipDays = %d, want 4", ts.SlipDays)
	}
	if ts.ScheduleBucket != models.BucketDelayed {
		t.Errorf("ScheduleBucket = %s, want delayed (delta -60)", ts.ScheduleBucket)
	}
	// 50 overdue + 10 missing evidence + 60 behind schedule.
	approxEqual(t, "risk", ts.RiskTask, 120)
}

func TestStalledTaskFallsBackToDelayedBucket(t *testing.T) {
	task := newTask("S1", "Painting")
	task.ActualStart = day(-40)
	task.ProgressPct = ptrF(30)
	task.LastUpdated = day(-20)

	ts := ComputeTaskStatus(task, testNow)
	if ts.Status != models.StatusStalled || !ts.IsStalled {
		t.Fatalf("Status = %s, want stalled", ts.Status)
	}
	if !ts.StaleUpdateFlag {
		t.Error("StaleUpdateFlag = false")
	}
	if ts.ScheduleBucket != models.BucketDelayed {
		t.Errorf("ScheduleBucket = %q, want delayed fallback", ts.ScheduleBucket)
	}
	// 20 stale + 10 missing evidence, no delta.
	approxEqual(t, "risk", ts.RiskTask, 30)
}

func TestStaleBoundary(t *testing.T) {
	task := newTask("S1", "T")
	task.LastUpdated = day(-14)
	// day(-14) at midnight vs testNow at noon is 14.5 days: floor is 14.
	if ComputeTaskStatus(task, testNow).StaleUpdateFlag {
		t.Error("14 whole days must not be stale")
	}
	task.LastUpdated = day(-15)
	if !ComputeTaskStatus(task, testNow).StaleUpdateFlag {
		t.Error("15 whole days must be stale")
	}
}

func TestStatusPrecedence(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*models.Task)
		want models.TaskStatus
	}{
		{"progress 100 is completed", func(t *models.Task) { t.ProgressPct = ptrF(100) }, models.StatusCompleted},
		{"actual finish beats overdue", func(t *models.Task) {
			t.ActualFinish = day(-1)
			t.PlannedFinish = day(-30)
		}, models.StatusCompleted},
		{"zero progress without start", func(t *models.Task) { t.ProgressPct = ptrF(0) }, models.StatusNotStarted},
		{"started with zero progress", func(t *models.Task) {
			t.ActualStart = day(-3)
			t.ProgressPct = ptrF(0)
		}, models.StatusInProgress},
		{"overdue beats stalled", func(t *models.Task) {
			t.ProgressPct = ptrF(20)
			t.PlannedFinish = day(-2)
			t.LastUpdated = day(-30)
		}, models.StatusOverdue},
		{"stale with zero progress is not stalled", func(t *models.Task) {
			t.ActualStart = day(-40)
			t.ProgressPct = ptrF(0)
			t.LastUpdated = day(-30)
		}, models.StatusInProgress},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := newTask("S1", "T")
			tc.mod(&task)
			if got := ComputeTaskStatus(task, testNow).Status; got != tc.want {
				t.Errorf("Status = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestScheduleBucketThresholds(t *testing.T) {
	cases := []struct {
		delta float64
		want  models.ScheduleBucket
	}{
		{10.5, models.BucketAhead},
		{10, models.BucketOnTrack},
		{-10, models.BucketOnTrack},
		{-10.1, models.BucketAtRisk},
		{-25, models.BucketAtRisk},
		{-25.1, models.BucketDelayed},
	}
	for _, tc := range cases {
		if got := bucketFromDelta(ptrF(tc.delta)); got != tc.want {
			t.Errorf("bucketFromDelta(%v) = %s, want %s", tc.delta, got, tc.want)
		}
	}
	if got := bucketFromDelta(nil); got != "" {
		t.Errorf("bucketFromDelta(nil) = %s, want none", got)
	}
}

func TestFallbackBucketUsesDelayFlag(t *testing.T) {
	task := newTask("S1", "T")
	task.DelayFlagCalc = ptrS("Delayed - material")

	ts := ComputeTaskStatus(task, testNow)
	if ts.Status != models.StatusNotStarted {
		t.Fatalf("Status = %s", ts.Status)
	}
	if ts.ScheduleBucket != models.BucketDelayed {
		t.Errorf("ScheduleBucket = %q, want delayed from flag", ts.ScheduleBucket)
	}
}

// isDelayed reads only the free-text flag; schedule_bucket reads only the
// baseline. The two are allowed to disagree.
func TestDelayFlagAndScheduleBucketDiverge(t *testing.T) {
	ahead := newTask("S1", "Ahead but flagged")
	ahead.PlannedStart = day(-10)
	ahead.PlannedFinish = day(10)
	ahead.ActualStart = day(-10)
	ahead.ProgressPct = ptrF(90)
	ahead.DelayFlagCalc = ptrS("DELAY")

	ts := ComputeTaskStatus(ahead, testNow)
	if !ts.IsDelayed {
		t.Error("IsDelayed = false, want true from flag")
	}
	if ts.ScheduleBucket != models.BucketAhead {
		t.Errorf("ScheduleBucket = %s, want ahead", ts.ScheduleBucket)
	}

	behind := newTask("S1", "Behind but on time flag")
	behind.PlannedStart = day(-10)
	behind.PlannedFinish = day(10)
	behind.ActualStart = day(-10)
	behind.ProgressPct = ptrF(5)
	behind.DelayFlagCalc = ptrS("On Time")

	ts = ComputeTaskStatus(behind, testNow)
	if ts.IsDelayed {
		t.Error("IsDelayed = true, want false")
	}
	if ts.ScheduleBucket != models.BucketDelayed {
		t.Errorf("ScheduleBucket = %s, want delayed", ts.ScheduleBucket)
	}
}

func TestDelayFlagCaseInsensitive(t *testing.T) {
	for _, flag := range []string{"delay", "Delayed", "minor DELAY expected"} {
		if !IsDelayFlagged(ptrS(flag)) {
			t.Errorf("IsDelayFlagged(%q) = false", flag)
		}
	}
	if IsDelayFlagged(nil) || IsDelayFlagged(ptrS("On track")) {
		t.Error("unexpected delay flag match")
	}
}

func TestValidateTaskDataSeverity(t *testing.T) {
	t.Run("critical", func(t *testing.T) {
		task := newTask("S1", "T")
		task.ProgressPct = ptrF(120)
		issues, flag := ValidateTaskData(task, testNow)
		if flag != models.QualityCritical {
			t.Errorf("flag = %s, want critical (issues %v)", flag, issues)
		}
	})

	t.Run("warning", func(t *testing.T) {
		task := newTask("S1", "T")
		task.PlannedDurationDays = ptrF(5)
		issues, flag := ValidateTaskData(task, testNow)
		if flag != models.QualityWarning {
			t.Errorf("flag = %s, want warning", flag)
		}
		if !reflect.DeepEqual(issues, []string{models.IssueMissingPlannedDates}) {
			t.Errorf("issues = %v", issues)
		}
	})

	t.Run("info", func(t *testing.T) {
		task := newTask("S1", "T")
		task.PlannedStart = day(-1)
		task.PlannedFinish = day(1)
		issues, flag := ValidateTaskData(task, testNow)
		if flag != models.QualityInfo {
			t.Errorf("flag = %s, want info", flag)
		}
		if !reflect.DeepEqual(issues, []string{models.IssueDurationMissingOrZero}) {
			t.Errorf("issues = %v", issues)
		}
	})

	t.Run("clean", func(t *testing.T) {
		task := newTask("S1", "T")
		task.PlannedStart = day(-1)
		task.PlannedFinish = day(1)
		task.PlannedDurationDays = ptrF(2)
		issues, flag := ValidateTaskData(task, testNow)
		if flag != "" {
			t.Errorf("flag = %s, want none", flag)
		}
		if issues == nil || len(issues) != 0 {
			t.Errorf("issues = %#v, want empty non-nil slice", issues)
		}
	})

	t.Run("all issues", func(t *testing.T) {
		task := newTask("S1", "T")
		task.PlannedStart = day(5)
		task.PlannedFinish = day(1)
		task.ActualStart = day(0)
		task.ActualFinish = day(-2)
		task.ProgressPct = ptrF(100)
		task.LastUpdated = day(-40)
		task.PlannedDurationDays = ptrF(0)
		issues, flag := ValidateTaskData(task, testNow)
		if flag != models.QualityCritical {
			t.Errorf("flag = %s", flag)
		}
		want := []string{
			models.IssuePlannedFinishBeforeStart,
			models.IssueActualFinishBeforeStart,
			models.IssueStaleUpdate,
			models.IssueDurationMissingOrZero,
		}
		if !reflect.DeepEqual(issues, want) {
			t.Errorf("issues = %v, want %v", issues, want)
		}
	})
}

func TestEvidenceStatus(t *testing.T) {
	task := newTask("S1", "T")
	task.BeforePhotoShareURL = ptrS("https://drive.google.com/file/d/BEFORE1/view")
	task.AfterPhotoDirectURL = ptrS("https://cdn.example/after.jpg")

	ts := ComputeTaskStatus(task, testNow)
	if ts.EvidenceStatus != models.EvidenceBeforeAfter || !ts.EvidenceCompliantFlag {
		t.Errorf("evidence = %s compliant=%v", ts.EvidenceStatus, ts.EvidenceCompliantFlag)
	}
	if ts.BeforePhotoStatus != models.PhotoResolvedFromShare || ts.AfterPhotoStatus != models.PhotoDirectOK {
		t.Errorf("photo statuses = %s / %s", ts.BeforePhotoStatus, ts.AfterPhotoStatus)
	}

	task.AfterPhotoDirectURL = nil
	task.AfterPhotoShareURL = ptrS("https://example.com/album")
	ts = ComputeTaskStatus(task, testNow)
	if ts.EvidenceStatus != models.EvidenceBeforeOnly || ts.EvidenceCompliantFlag {
		t.Errorf("evidence = %s compliant=%v, want before-only", ts.EvidenceStatus, ts.EvidenceCompliantFlag)
	}
	if ts.AfterPhotoStatus != models.PhotoUnresolvable {
		t.Errorf("after status = %s", ts.AfterPhotoStatus)
	}
}

func TestComputeTaskStatusIdempotent(t *testing.T) {
	task := newTask("S1", "T")
	task.PlannedStart = day(-3)
	task.PlannedFinish = day(7)
	task.ActualStart = day(-2)
	task.ProgressPct = ptrF(10)
	task.DelayFlagCalc = ptrS("Delay")
	task.BeforePhotoShareURL = ptrS("https://drive.google.com/open?id=XYZ")

	first := ComputeTaskStatus(task, testNow)
	second := ComputeTaskStatus(task, testNow)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("ComputeTaskStatus is not idempotent:\n%+v\n%+v", first, second)
	}
}
