package services

import (
	"math"
	"testing"
	"time"

	"github.com/gewnthar/sitetrack/models"
)

var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func ptrF(v float64) *float64 { return &v }

func ptrS(s string) *string { return &s }

func day(offset int) *time.Time {
	t := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	return &t
}

// newTask returns a task at site S1 of package FP1 with the given name.
func newTask(site, name string) models.Task {
	return models.Task{
		PackageID:   "FP1",
		PackageName: "Flood Package",
		District:    "Lahore",
		SiteID:      site,
		SiteName:    "Site " + site,
		Discipline:  "Civil",
		TaskName:    name,
	}
}

func approxEqual(t *testing.T, label string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}
