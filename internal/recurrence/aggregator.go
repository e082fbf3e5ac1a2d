package recurrence

import (
	"fmt"
	"time"

	"github.com/plantops/maintdash/internal/domain"
)

// ForMachine expands every maintenance task of one machine over the window
// and projects the machine's identity onto each occurrence. Dates within a
// single task are ascending; tasks are concatenated in list order.
//
// The first failing task aborts the whole call so a broken rule is never
// silently dropped from the calendar.
func ForMachine(m domain.Machine, rangeStart, rangeEnd time.Time) ([]domain.TaskOccurrence, error) {
	var out []domain.TaskOccurrence
	for _, task := range m.Tasks {
		dates, err := Generate(task, rangeStart, rangeEnd)
		if err != nil {
			return nil, fmt.Errorf("machine %s task %s: %w", m.ID, task.ID, err)
		}
		for _, d := range dates {
			out = append(out, domain.TaskOccurrence{
				ID:          domain.OccurrenceID(task.ID, d),
				MachineID:   m.ID,
				MachineName: m.Name,
				TaskID:      task.ID,
				Title:       task.Title,
				Date:        d,
			})
		}
	}
	return out, nil
}

// ForMachines concatenates ForMachine over a machine list. No dedup and no
// cross-machine ordering; callers wanting one chronological list sort the
// result themselves.
func ForMachines(machines []domain.Machine, rangeStart, rangeEnd time.Time) ([]domain.TaskOccurrence, error) {
	var out []domain.TaskOccurrence
	for _, m := range machines {
		occs, err := ForMachine(m, rangeStart, rangeEnd)
		if err != nil {
			return nil, err
		}
		out = append(out, occs...)
	}
	return out, nil
}
