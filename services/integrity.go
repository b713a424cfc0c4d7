// backend/services/integrity.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gewnthar/sitetrack/models"
)

var (
	ErrCacheNotInitialized = errors.New("data not yet loaded")
	ErrServingStale        = errors.New("refresh failed, serving last known good data")
	ErrRefreshInProgress   = errors.New("refresh already in progress")
)

// completeThreshold is the site progress at which every task must be completed.
const completeThreshold = 99.9

// IntegrityError lists every aggregation invariant a snapshot broke.
// A snapshot carrying one must not replace the previous good snapshot.
type IntegrityError struct {
	Violations []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("data integrity check failed (%d violations): %s", len(e.Violations), strings.Join(e.Violations, "; "))
}

// ValidateDataIntegrity checks aggregates against the tasks they were built
// from. It returns nil or an *IntegrityError naming the offending sites.
func ValidateDataIntegrity(tasks []models.TaskWithStatus, sites []models.SiteAggregate, kpis models.DashboardKPIs) error {
	var violations []string

	uniqueSites := make(map[string]bool)
	for _, t := range tasks {
		uniqueSites[t.SiteUID] = true
	}
	if len(uniqueSites) != len(sites) {
		violations = append(violations, fmt.Sprintf("site count mismatch: %d unique site_uids in tasks, %d aggregates", len(uniqueSites), len(sites)))
	}
	if kpis.TotalSites != len(sites) {
		violations = append(violations, fmt.Sprintf("KPI site count mismatch: kpis report %d, %d aggregates", kpis.TotalSites, len(sites)))
	}

	for _, s := range sites {
		if s.WeightedProgress < 0 {
			violations = append(violations, fmt.Sprintf("site %s has negative progress %.2f", s.SiteUID, s.WeightedProgress))
		}
		if s.WeightedProgress >= completeThreshold {
			var incomplete []string
			for _, t := range s.Tasks {
				if t.Status != models.StatusCompleted {
					incomplete = append(incomplete, t.TaskName)
				}
			}
			if len(incomplete) > 0 {
				violations = append(violations, fmt.Sprintf("site %s reports %.1f%% progress with %d incomplete tasks (%s)",
					s.SiteUID, s.WeightedProgress, len(incomplete), strings.Join(incomplete, ", ")))
			}
		}
	}

	if len(violations) > 0 {
		return &IntegrityError{Violations: violations}
	}
	return nil
}
