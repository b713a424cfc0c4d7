// backend/services/summary.go
package services

import (
	"log"

	"github.com/gewnthar/sitetrack/models"
)

// Progress stage labels for the schedule health chart.
var stageBuckets = []string{"0-25%", "26-50%", "51-75%", "76-99%", "100%"}

type siteDelaySignal int

const (
	signalOnTrack siteDelaySignal = iota
	signalDelayed
	signalUnknown
)

// BuildSummary assembles the summary payload of a snapshot: KPIs, compliance,
// a site-level delay breakdown and schedule health per progress stage, with
// assertions that both breakdowns account for every site.
func BuildSummary(data *models.IngestedData) models.Summary {
	var breakdown models.DelayStatusBreakdown
	stages := make([]models.StageHealth, len(stageBuckets))
	for i, label := range stageBuckets {
		stages[i].Bucket = label
	}

	for _, site := range data.Sites {
		stage := &stages[stageIndex(site.WeightedProgress)]
		switch siteDelay(site) {
		case signalDelayed:
			breakdown.Delayed++
			stage.Delayed++
		case signalOnTrack:
			breakdown.OnTrack++
			stage.OnTrack++
		default:
			breakdown.Unknown++
			stage.Unknown++
		}
	}

	delaySum := breakdown.OnTrack + breakdown.Delayed + breakdown.Unknown
	scheduleSum := 0
	for _, s := range stages {
		scheduleSum += s.OnTrack + s.Delayed + s.Unknown
	}
	assertions := models.SummaryAssertions{
		DelayBreakdownMatchesSites: delaySum == len(data.Sites),
		ScheduleHealthMatchesSites: scheduleSum == len(data.Sites),
		DelaySum:                   delaySum,
		ScheduleSum:                scheduleSum,
		TotalSites:                 len(data.Sites),
	}
	if !assertions.DelayBreakdownMatchesSites || !assertions.ScheduleHealthMatchesSites {
		log.Printf("ERROR Service: Summary assertion failed: %+v\n", assertions)
	}

	return models.Summary{
		KPIs:                  data.KPIs,
		PackageCompliance:     data.PackageCompliance,
		DelayStatusBreakdown:  breakdown,
		ScheduleHealthByStage: stages,
		Assertions:            assertions,
		Metadata:              data.Metadata,
		LastRefresh:           data.LastRefresh,
	}
}

func stageIndex(pct float64) int {
	switch {
	case pct < 26:
		return 0
	case pct < 51:
		return 1
	case pct < 76:
		return 2
	case pct < 100:
		return 3
	default:
		return 4
	}
}

// siteDelay is delayed when any task carries a delay flag, on-track when the
// site has any planned date to judge against, and unknown otherwise.
func siteDelay(site models.SiteAggregate) siteDelaySignal {
	if site.DelayedTasks > 0 {
		return signalDelayed
	}
	for _, t := range site.Tasks {
		if t.HasPlannedDate() {
			return signalOnTrack
		}
	}
	return signalUnknown
}
