// backend/services/site_aggregator.go
package services

import (
	"math"
	"sort"
	"time"

	"github.com/gewnthar/sitetrack/models"
	"github.com/gewnthar/sitetrack/utils"
)

const (
	riskHighThreshold   = 40.0
	riskMediumThreshold = 20.0
)

// GroupTasksBySite folds tasks into one aggregate per site_uid, in order of
// first appearance. Every numeric field reflects all of the site's tasks.
func GroupTasksBySite(tasks []models.TaskWithStatus) []models.SiteAggregate {
	index := make(map[string]int)
	var groups [][]models.TaskWithStatus
	for _, t := range tasks {
		i, ok := index[t.SiteUID]
		if !ok {
			i = len(groups)
			index[t.SiteUID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], t)
	}

	sites := make([]models.SiteAggregate, 0, len(groups))
	for _, g := range groups {
		sites = append(sites, AggregateSite(g))
	}
	return sites
}

// AggregateSite builds the aggregate of one site from its member tasks.
// The caller guarantees the tasks share a site_uid.
func AggregateSite(tasks []models.TaskWithStatus) models.SiteAggregate {
	if len(tasks) == 0 {
		return models.SiteAggregate{RiskLevel: models.RiskLow}
	}
	first := tasks[0]
	site := models.SiteAggregate{
		SiteUID:     first.SiteUID,
		SiteKey:     first.SiteKey,
		PackageID:   first.PackageID,
		PackageName: first.PackageName,
		District:    first.District,
		SiteID:      first.SiteID,
		SiteName:    first.SiteName,
		Tasks:       tasks,
		TotalTasks:  len(tasks),
	}

	var riskSum, riskWeight float64
	for _, t := range tasks {
		switch t.Status {
		case models.StatusCompleted:
			site.CompletedTasks++
		case models.StatusInProgress:
			site.InProgressTasks++
		case models.StatusNotStarted:
			site.NotStartedTasks++
		case models.StatusOverdue:
			site.OverdueTasks++
		case models.StatusStalled:
			site.StalledTasks++
		}
		if t.IsDelayed {
			site.DelayedTasks++
		}

		riskSum += t.RiskTask * t.TaskWeightNormSite
		riskWeight += t.TaskWeightNormSite

		site.MaxPlannedFinish = laterOf(site.MaxPlannedFinish, t.PlannedFinish)
		site.MaxLastUpdated = laterOf(site.MaxLastUpdated, t.LastUpdated)

		if site.CoverPhotoDirectURL == nil {
			site.CoverPhotoDirectURL = t.CoverPhotoDirectURL
		}
		if site.CoverPhotoShareURL == nil {
			site.CoverPhotoShareURL = t.CoverPhotoShareURL
		}
		if site.PhotoFolderURL == nil {
			site.PhotoFolderURL = t.PhotoFolderURL
		}
	}

	site.WeightedProgress = WeightedProgress(tasks)
	if riskWeight > 0 {
		site.RiskScore = riskSum / riskWeight
	}
	site.RiskLevel = RiskLevel(site.RiskScore)
	return site
}

// WeightedProgress is Σ(progress×weight)/Σweight clamped to [0,100]. Missing
// progress counts as 0 and its weight stays in the denominator; a zero
// weight falls back to 1. Empty input gives 0.
func WeightedProgress(tasks []models.TaskWithStatus) float64 {
	var num, den float64
	for _, t := range tasks {
		w := t.TaskWeightFinal
		if w == 0 || math.IsNaN(w) {
			w = 1
		}
		num += t.ProgressOrZero() * w
		den += w
	}
	if den == 0 {
		return 0
	}
	return utils.Clamp(num/den, 0, 100)
}

// RiskLevel buckets a site risk score.
func RiskLevel(score float64) string {
	switch {
	case score >= riskHighThreshold:
		return models.RiskHigh
	case score >= riskMediumThreshold:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// SortSitesByAttention orders sites with the most delayed tasks first, then by
// ascending progress, then by site_uid for a stable result.
func SortSitesByAttention(sites []models.SiteAggregate) {
	sort.SliceStable(sites, func(i, j int) bool {
		a, b := sites[i], sites[j]
		if a.DelayedTasks != b.DelayedTasks {
			return a.DelayedTasks > b.DelayedTasks
		}
		if a.WeightedProgress != b.WeightedProgress {
			return a.WeightedProgress < b.WeightedProgress
		}
		return a.SiteUID < b.SiteUID
	})
}

func laterOf(current, candidate *time.Time) *time.Time {
	if candidate == nil {
		return current
	}
	if current == nil || candidate.After(*current) {
		c := *candidate
		return &c
	}
	return current
}
