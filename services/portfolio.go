// backend/services/portfolio.go
package services

import (
	"sort"
	"strings"

	"github.com/gewnthar/sitetrack/models"
)

// NormalizeSiteWeights sets each task's task_weight_norm_site to its final
// weight divided by the total final weight of its site. Tasks are modified in
// place; call once per batch before grouping.
func NormalizeSiteWeights(tasks []models.TaskWithStatus) {
	totals := make(map[string]float64)
	for _, t := range tasks {
		totals[siteGroupKey(t)] += t.TaskWeightFinal
	}
	for i := range tasks {
		total := totals[siteGroupKey(tasks[i])]
		if total > 0 {
			tasks[i].TaskWeightNormSite = tasks[i].TaskWeightFinal / total
		} else {
			tasks[i].TaskWeightNormSite = 1
		}
	}
}

func siteGroupKey(t models.TaskWithStatus) string {
	if t.SiteUID != "" {
		return t.SiteUID
	}
	return t.SiteKey
}

// ComputeKPIs folds a task collection into portfolio counts and overall
// weighted progress, using the same null-as-zero rule as a single site.
func ComputeKPIs(tasks []models.TaskWithStatus) models.DashboardKPIs {
	kpis := models.DashboardKPIs{
		TotalTasks:              len(tasks),
		OverallWeightedProgress: WeightedProgress(tasks),
	}

	type siteTally struct{ total, completed int }
	sites := make(map[string]*siteTally)
	for _, t := range tasks {
		tally, ok := sites[siteGroupKey(t)]
		if !ok {
			tally = &siteTally{}
			sites[siteGroupKey(t)] = tally
		}
		tally.total++

		switch t.Status {
		case models.StatusCompleted:
			kpis.CompletedTasks++
			tally.completed++
		case models.StatusInProgress:
			kpis.InProgressTasks++
		case models.StatusNotStarted:
			kpis.NotStartedTasks++
		case models.StatusOverdue:
			kpis.OverdueTasks++
		case models.StatusStalled:
			kpis.StalledTasks++
		}
		if t.IsDelayed {
			kpis.DelayedTasks++
		}
	}

	kpis.TotalSites = len(sites)
	for _, tally := range sites {
		if tally.completed > 0 {
			kpis.SitesWithCompleted++
		}
		if tally.completed == tally.total {
			kpis.SitesFullyCompleted++
		}
	}
	return kpis
}

// ApplyFilters returns the tasks passing every active predicate in f.
// Tasks lacking the field an active date or delay-flag filter tests are excluded.
// A package value matches either the package ID or the package name.
func ApplyFilters(tasks []models.TaskWithStatus, f models.FilterState) []models.TaskWithStatus {
	packages := toSet(f.PackageNames)
	districts := toSet(f.Districts)
	disciplines := toSet(f.Disciplines)
	delayFlags := toSet(f.DelayFlags)
	search := strings.ToLower(strings.TrimSpace(f.SiteNameSearch))

	out := make([]models.TaskWithStatus, 0, len(tasks))
	for _, t := range tasks {
		if packages != nil && !packages[t.PackageName] && !packages[t.PackageID] {
			continue
		}
		if districts != nil && !districts[t.District] {
			continue
		}
		if disciplines != nil && !disciplines[t.Discipline] {
			continue
		}
		if delayFlags != nil && (t.DelayFlagCalc == nil || !delayFlags[*t.DelayFlagCalc]) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.SiteName), search) &&
			!strings.Contains(strings.ToLower(t.SiteID), search) {
			continue
		}
		if f.DateRangeStart != nil && (t.PlannedStart == nil || t.PlannedStart.Before(*f.DateRangeStart)) {
			continue
		}
		if f.DateRangeEnd != nil && (t.PlannedFinish == nil || t.PlannedFinish.After(*f.DateRangeEnd)) {
			continue
		}
		if f.ShowOnlyDelayed && !t.IsDelayed {
			continue
		}
		out = append(out, t)
	}
	return out
}

// GetFilterOptions lists the distinct sorted values offered as filter choices.
func GetFilterOptions(tasks []models.TaskWithStatus) models.FilterOptions {
	packages := map[string]bool{}
	districts := map[string]bool{}
	disciplines := map[string]bool{}
	delayFlags := map[string]bool{}
	for _, t := range tasks {
		packages[t.PackageName] = true
		districts[t.District] = true
		disciplines[t.Discipline] = true
		if t.DelayFlagCalc != nil {
			delayFlags[*t.DelayFlagCalc] = true
		}
	}
	return models.FilterOptions{
		PackageNames: sortedKeys(packages),
		Districts:    sortedKeys(districts),
		Disciplines:  sortedKeys(disciplines),
		DelayFlags:   sortedKeys(delayFlags),
	}
}

// SelectSitesForTasks keeps the aggregates that have at least one task in
// filtered. The aggregates themselves are returned unchanged, so a site's
// numbers always cover all of its tasks.
func SelectSitesForTasks(sites []models.SiteAggregate, filtered []models.TaskWithStatus) []models.SiteAggregate {
	present := make(map[string]bool, len(filtered))
	for _, t := range filtered {
		present[t.SiteUID] = true
	}
	out := make([]models.SiteAggregate, 0, len(present))
	for _, s := range sites {
		if present[s.SiteUID] {
			out = append(out, s)
		}
	}
	return out
}

// FilterSites applies f to the full task set and selects the matching sites
// from aggregates built over that same full set.
func FilterSites(sites []models.SiteAggregate, tasks []models.TaskWithStatus, f models.FilterState) []models.SiteAggregate {
	return SelectSitesForTasks(sites, ApplyFilters(tasks, f))
}

// DedupeTasks keeps the first task seen for each task_uid.
func DedupeTasks(tasks []models.TaskWithStatus) []models.TaskWithStatus {
	seen := make(map[string]bool, len(tasks))
	out := make([]models.TaskWithStatus, 0, len(tasks))
	for _, t := range tasks {
		if seen[t.TaskUID] {
			continue
		}
		seen[t.TaskUID] = true
		out = append(out, t)
	}
	return out
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// sortedKeys omits the blank value; an empty option cannot be selected.
func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
