package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTask() MaintenanceTask {
	return MaintenanceTask{
		ID:         "t1",
		Title:      "Grease bearings",
		StartDate:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Recurrence: RecurWeekly,
		Interval:   1,
		DaysOfWeek: []Weekday{WeekdayMonday, WeekdayFriday},
	}
}

func TestMaintenanceTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MaintenanceTask)
		wantErr string
	}{
		{
			name:   "valid weekly rule",
			mutate: func(task *MaintenanceTask) {},
		},
		{
			name: "valid monthly rule with day 31",
			mutate: func(task *MaintenanceTask) {
				day := 31
				task.Recurrence = RecurMonthly
				task.DaysOfWeek = nil
				task.DayOfMonth = &day
			},
		},
		{
			name:    "missing start date",
			mutate:  func(task *MaintenanceTask) { task.StartDate = time.Time{} },
			wantErr: "start date is required",
		},
		{
			name:    "unknown recurrence kind",
			mutate:  func(task *MaintenanceTask) { task.Recurrence = "biweekly" },
			wantErr: "unknown recurrence kind",
		},
		{
			name:    "zero interval",
			mutate:  func(task *MaintenanceTask) { task.Interval = 0 },
			wantErr: "interval must be >= 1",
		},
		{
			name:    "negative interval",
			mutate:  func(task *MaintenanceTask) { task.Interval = -2 },
			wantErr: "interval must be >= 1",
		},
		{
			name:    "weekday out of range",
			mutate:  func(task *MaintenanceTask) { task.DaysOfWeek = []Weekday{3, 9} },
			wantErr: "weekday index 9 out of range",
		},
		{
			name: "day of month out of range",
			mutate: func(task *MaintenanceTask) {
				day := 32
				task.DayOfMonth = &day
			},
			wantErr: "day of month 32 out of range",
		},
		{
			name: "month out of range",
			mutate: func(task *MaintenanceTask) {
				month := 13
				task.Month = &month
			},
			wantErr: "month 13 out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(&task)
			err := task.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidRule)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestMaintenanceTask_Describe(t *testing.T) {
	task := validTask()
	assert.Equal(t, "weekly on Mon, Fri", task.Describe())

	task.Interval = 2
	assert.Equal(t, "every 2 weeks on Mon, Fri", task.Describe())

	task.DaysOfWeek = nil
	assert.Equal(t, "every 2 weeks", task.Describe())

	task.Recurrence = RecurDaily
	task.Interval = 1
	assert.Equal(t, "daily", task.Describe())
}
