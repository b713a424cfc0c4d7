// backend/services/row_mapper.go
package services

import (
	"log"

	"github.com/gewnthar/sitetrack/models"
	"github.com/gewnthar/sitetrack/utils"
)

// Accepted column spellings per logical field: the sheet header first, then
// the snake_case key used by exported JSON/CSV.
var (
	colDistrict          = []string{"District", "district"}
	colSiteID            = []string{"Site ID", "site_id"}
	colSiteName          = []string{"Site Name", "site_name"}
	colDiscipline        = []string{"Discipline", "discipline"}
	colTaskName          = []string{"Task Name", "task_name"}
	colPlannedStart      = []string{"Planned Start", "planned_start"}
	colPlannedFinish     = []string{"Planned Finish", "planned_finish"}
	colPlannedDuration   = []string{"Planned Duration (Days)", "planned_duration_days"}
	colActualStart       = []string{"Actual Start", "actual_start"}
	colActualFinish      = []string{"Actual Finish", "actual_finish"}
	colProgress          = []string{"Progress %", "progress_pct"}
	colVariance          = []string{"Variance", "variance"}
	colDelayFlag         = []string{"Delay Flag", "delay_flag_calc"}
	colLastUpdated       = []string{"Last Updated", "last_updated"}
	colRemarks           = []string{"Remarks", "remarks"}
	colPhotoFolder       = []string{"Photo Folder", "photo_folder_url"}
	colCoverPhotoShare   = []string{"Cover Photo", "cover_photo_share_url"}
	colCoverPhotoDirect  = []string{"Cover Photo Direct", "cover_photo_direct_url"}
	colBeforePhotoShare  = []string{"Before Photo", "before_photo_share_url"}
	colBeforePhotoDirect = []string{"Before Photo Direct", "before_photo_direct_url"}
	colAfterPhotoShare   = []string{"After Photo", "after_photo_share_url"}
	colAfterPhotoDirect  = []string{"After Photo Direct", "after_photo_direct_url"}
)

// MapRowToTask converts one raw sheet row into a Task for the given package.
// Rows without a site ID are separators and yield nil. A panic while mapping
// is logged and also yields nil, so one bad row never aborts the batch.
func MapRowToTask(row models.Row, packageID, packageName string) (task *models.Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("WARN Mapper: Skipping malformed row in package %s: %v\n", packageID, r)
			task = nil
		}
	}()

	siteID := row.Text(colSiteID...)
	if siteID == "" {
		return nil
	}

	return &models.Task{
		PackageID:   packageID,
		PackageName: packageName,
		District:    row.Text(colDistrict...),
		SiteID:      siteID,
		SiteName:    row.Text(colSiteName...),
		Discipline:  row.Text(colDiscipline...),
		TaskName:    row.Text(colTaskName...),

		PlannedStart:        utils.ParseDate(row.Lookup(colPlannedStart...)),
		PlannedFinish:       utils.ParseDate(row.Lookup(colPlannedFinish...)),
		PlannedDurationDays: utils.SafeNumber(row.Lookup(colPlannedDuration...)),
		ActualStart:         utils.ParseDate(row.Lookup(colActualStart...)),
		ActualFinish:        utils.ParseDate(row.Lookup(colActualFinish...)),

		ProgressPct:   utils.SafeNumber(row.Lookup(colProgress...)),
		Variance:      utils.SafeNumber(row.Lookup(colVariance...)),
		DelayFlagCalc: row.OptionalText(colDelayFlag...),
		LastUpdated:   utils.ParseDate(row.Lookup(colLastUpdated...)),
		Remarks:       row.OptionalText(colRemarks...),

		PhotoFolderURL:       row.OptionalText(colPhotoFolder...),
		CoverPhotoShareURL:   row.OptionalText(colCoverPhotoShare...),
		CoverPhotoDirectURL:  row.OptionalText(colCoverPhotoDirect...),
		BeforePhotoShareURL:  row.OptionalText(colBeforePhotoShare...),
		BeforePhotoDirectURL: row.OptionalText(colBeforePhotoDirect...),
		AfterPhotoShareURL:   row.OptionalText(colAfterPhotoShare...),
		AfterPhotoDirectURL:  row.OptionalText(colAfterPhotoDirect...),
	}
}

// MapRows maps every row of one package, dropping skipped rows.
func MapRows(rows []models.Row, packageID, packageName string) []models.Task {
	tasks := make([]models.Task, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		task := MapRowToTask(row, packageID, packageName)
		if task == nil {
			skipped++
			continue
		}
		tasks = append(tasks, *task)
	}
	if skipped > 0 {
		log.Printf("Mapper: Package %s: mapped %d rows, skipped %d\n", packageID, len(tasks), skipped)
	}
	return tasks
}
