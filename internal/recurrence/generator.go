package recurrence

import (
	"fmt"
	"time"

	"github.com/plantops/maintdash/internal/domain"
)

// maxIterations bounds the forward walk. Rule validation already guarantees
// a strictly advancing cursor, so the cap is never hit on valid input; it
// exists so a degenerate rule truncates instead of spinning forever.
const maxIterations = 1000

// Generate expands a maintenance task's recurrence rule into the concrete
// calendar days it falls on within [rangeStart, rangeEnd], both ends
// inclusive. Dates are returned at midnight UTC in ascending order.
//
// Machine identity is deliberately not the generator's concern; the
// aggregator projects it onto occurrences afterwards.
func Generate(task domain.MaintenanceTask, rangeStart, rangeEnd time.Time) ([]time.Time, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if rangeEnd.Before(rangeStart) {
		return nil, fmt.Errorf("range end %s before range start %s",
			rangeEnd.Format("2006-01-02"), rangeStart.Format("2006-01-02"))
	}

	start := DateOnly(task.StartDate)
	from := DateOnly(rangeStart)
	to := DateOnly(rangeEnd)

	// The rule's active lifetime does not intersect the window.
	if start.After(to) {
		return nil, nil
	}
	var until *time.Time
	if task.EndDate != nil {
		u := DateOnly(*task.EndDate)
		if u.Before(from) {
			return nil, nil
		}
		until = &u
	}

	days := weekdaySet(task.DaysOfWeek)

	var out []time.Time
	cur := start
	for i := 0; i < maxIterations; i++ {
		if cur.After(to) {
			break
		}
		if until != nil && cur.After(*until) {
			break
		}
		if !cur.Before(from) && matches(task, days, cur) {
			out = append(out, cur)
		}
		next := step(task, days, cur)
		if !next.After(cur) {
			// Step postcondition violated; stop rather than loop.
			break
		}
		cur = next
	}
	return out, nil
}

// DateOnly truncates a timestamp to its calendar day at midnight UTC.
// Occurrence dates carry no meaningful time of day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func weekdaySet(days []domain.Weekday) map[time.Weekday]bool {
	if len(days) == 0 {
		return nil
	}
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		set[time.Weekday(d)] = true
	}
	return set
}

// matches is the pattern predicate. Only a weekly rule with a day-of-week
// set can visit a non-matching day; every other cursor is pattern-aligned
// by construction of the step.
func matches(task domain.MaintenanceTask, days map[time.Weekday]bool, cur time.Time) bool {
	if task.Recurrence == domain.RecurWeekly && days != nil {
		return days[cur.Weekday()]
	}
	return true
}

func step(task domain.MaintenanceTask, days map[time.Weekday]bool, cur time.Time) time.Time {
	switch task.Recurrence {
	case domain.RecurDaily:
		return cur.AddDate(0, 0, task.Interval)
	case domain.RecurWeekly:
		if days != nil {
			return stepWeekdays(cur, days, task.Interval)
		}
		// Note: advances by whole weeks from the current cursor, not from
		// the series anchor. Kept as-is from the dashboard's behavior.
		return cur.AddDate(0, 0, 7*task.Interval)
	case domain.RecurMonthly:
		day := cur.Day()
		if task.DayOfMonth != nil {
			day = *task.DayOfMonth
		}
		return addMonths(cur, task.Interval, day)
	case domain.RecurYearly:
		return stepYearly(task, cur)
	default:
		return time.Time{}
	}
}

// stepWeekdays advances a weekly rule with a day-of-week set: first the
// remainder of the current week (Sunday-based), then a jump of interval
// weeks to the first matching weekday of the target week. This realizes
// "every Nth week, on these weekdays" rather than "every Nth day".
func stepWeekdays(cur time.Time, days map[time.Weekday]bool, interval int) time.Time {
	for d := 1; d <= 7; d++ {
		cand := cur.AddDate(0, 0, d)
		if cand.Weekday() == time.Sunday {
			break
		}
		if days[cand.Weekday()] {
			return cand
		}
	}
	week := startOfWeek(cur).AddDate(0, 0, 7*interval)
	for d := 0; d < 7; d++ {
		cand := week.AddDate(0, 0, d)
		if days[cand.Weekday()] {
			return cand
		}
	}
	// Unreachable for a non-empty set; keep the cursor moving regardless.
	return cur.AddDate(0, 0, 7*interval)
}

func startOfWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}

func stepYearly(task domain.MaintenanceTask, cur time.Time) time.Time {
	year := cur.Year() + task.Interval
	month := cur.Month()
	day := cur.Day()
	if task.Month != nil && task.DayOfMonth != nil {
		month = time.Month(*task.Month)
		day = *task.DayOfMonth
	}
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// addMonths advances by whole months without Go's AddDate overflow
// (Jan 31 + 1 month must be the end of February, not March 2), clamping the
// requested day to the target month's length.
func addMonths(t time.Time, months, day int) time.Time {
	m := int(t.Month()) - 1 + months
	year := t.Year() + m/12
	month := time.Month(m%12 + 1)
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
