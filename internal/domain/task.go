package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRule marks a maintenance task whose recurrence rule cannot be
// expanded. Check with errors.Is.
var ErrInvalidRule = errors.New("invalid recurrence rule")

// Weekday represents a day of the week (0 = Sunday, 1 = Monday, ...)
type Weekday int

const (
	WeekdaySunday    Weekday = 0
	WeekdayMonday    Weekday = 1
	WeekdayTuesday   Weekday = 2
	WeekdayWednesday Weekday = 3
	WeekdayThursday  Weekday = 4
	WeekdayFriday    Weekday = 5
	WeekdaySaturday  Weekday = 6
)

// WeekdayName returns the short English name for the weekday
func WeekdayName(d Weekday) string {
	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if d >= 0 && int(d) < len(names) {
		return names[d]
	}
	return ""
}

// RecurrenceKind is how a maintenance task repeats.
type RecurrenceKind string

const (
	RecurDaily   RecurrenceKind = "daily"
	RecurWeekly  RecurrenceKind = "weekly"
	RecurMonthly RecurrenceKind = "monthly"
	RecurYearly  RecurrenceKind = "yearly"
)

// MaintenanceTask is a recurrence rule attached to a machine: "lubricate
// spindle every 2 weeks on Mon/Thu", "replace filter on the 15th every
// 3 months", and so on.
//
// StartDate anchors the series. DaysOfWeek only applies to weekly rules;
// DayOfMonth to monthly and yearly rules; Month to yearly rules. EndDate,
// when set, is an inclusive upper bound on the series.
type MaintenanceTask struct {
	ID         string
	Title      string
	StartDate  time.Time
	Recurrence RecurrenceKind
	Interval   int
	DaysOfWeek []Weekday
	DayOfMonth *int
	Month      *int
	EndDate    *time.Time
}

// Validate checks the rule's structural invariants. Calendar validity
// (e.g. day 31 in February) is not checked here; the generator clamps to
// the target month's length instead.
func (t *MaintenanceTask) Validate() error {
	if t.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidRule)
	}
	switch t.Recurrence {
	case RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
	default:
		return fmt.Errorf("%w: unknown recurrence kind %q", ErrInvalidRule, t.Recurrence)
	}
	if t.Interval < 1 {
		return fmt.Errorf("%w: interval must be >= 1, got %d", ErrInvalidRule, t.Interval)
	}
	for _, d := range t.DaysOfWeek {
		if d < WeekdaySunday || d > WeekdaySaturday {
			return fmt.Errorf("%w: weekday index %d out of range", ErrInvalidRule, d)
		}
	}
	if t.DayOfMonth != nil && (*t.DayOfMonth < 1 || *t.DayOfMonth > 31) {
		return fmt.Errorf("%w: day of month %d out of range", ErrInvalidRule, *t.DayOfMonth)
	}
	if t.Month != nil && (*t.Month < 1 || *t.Month > 12) {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidRule, *t.Month)
	}
	return nil
}

// Describe returns a short human-readable summary of the rule for digests.
func (t *MaintenanceTask) Describe() string {
	switch t.Recurrence {
	case RecurDaily:
		if t.Interval == 1 {
			return "daily"
		}
		return fmt.Sprintf("every %d days", t.Interval)
	case RecurWeekly:
		if len(t.DaysOfWeek) > 0 {
			names := make([]string, 0, len(t.DaysOfWeek))
			for _, d := range t.DaysOfWeek {
				names = append(names, WeekdayName(d))
			}
			if t.Interval == 1 {
				return "weekly on " + joinNames(names)
			}
			return fmt.Sprintf("every %d weeks on %s", t.Interval, joinNames(names))
		}
		if t.Interval == 1 {
			return "weekly"
		}
		return fmt.Sprintf("every %d weeks", t.Interval)
	case RecurMonthly:
		if t.Interval == 1 {
			return "monthly"
		}
		return fmt.Sprintf("every %d months", t.Interval)
	case RecurYearly:
		if t.Interval == 1 {
			return "yearly"
		}
		return fmt.Sprintf("every %d years", t.Interval)
	default:
		return string(t.Recurrence)
	}
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
