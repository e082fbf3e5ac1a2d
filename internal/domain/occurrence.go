package domain

import "time"

// TaskOccurrence is one concrete calendar-dated instance of a recurring
// maintenance task. Occurrences are derived on demand for a date window and
// never persisted; generating twice with the same inputs yields the same
// occurrences.
type TaskOccurrence struct {
	ID          string
	MachineID   string
	MachineName string
	TaskID      string
	Title       string
	Date        time.Time
}

// OccurrenceID builds the deterministic occurrence key: task ID plus the
// calendar day. A task can fall on a given day at most once, so the key is
// unique and stable across regenerations.
func OccurrenceID(taskID string, date time.Time) string {
	return taskID + "-" + date.Format("2006-01-02")
}

// DateKey returns the occurrence day as yyyy-mm-dd, for grouping.
func (o *TaskOccurrence) DateKey() string {
	return o.Date.Format("2006-01-02")
}
