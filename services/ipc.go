// backend/services/ipc.go
package services

import (
	"fmt"
	"strings"

	"github.com/gewnthar/sitetrack/models"
)

// IPC statuses sit in the first data row, columns Y through AD (IPC 1 to 6).
const (
	ipcFirstColumn = 24 // Y
	ipcCount       = 6
)

var ipcStatuses = map[string]string{
	models.IPCNotSubmitted: models.IPCNotSubmitted,
	models.IPCSubmitted:    models.IPCSubmitted,
	models.IPCInProcess:    models.IPCInProcess,
	models.IPCReleased:     models.IPCReleased,
}

// ExtractIPC reads the six IPC statuses of one package. It returns an empty
// slice when the package has no rows.
func ExtractIPC(rows []models.Row) []models.IPCRecord {
	if len(rows) == 0 {
		return []models.IPCRecord{}
	}
	first := rows[0]
	records := make([]models.IPCRecord, 0, ipcCount)
	for i := 0; i < ipcCount; i++ {
		rec := models.IPCRecord{IPCNumber: fmt.Sprintf("IPC %d", i+1)}
		raw := strings.ToLower(first.Text(models.ColumnRef(ipcFirstColumn + i)))
		if status, ok := ipcStatuses[raw]; ok {
			rec.Status = &status
		}
		records = append(records, rec)
	}
	return records
}
