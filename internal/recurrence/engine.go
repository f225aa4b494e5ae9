// Package recurrence computes occurrence dates for recurring habits.
package recurrence

import (
	"sort"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/timeutil"
)

// maxSkips bounds the exception-skipping loop so a rule whose every
// occurrence is excepted degrades to "no valid occurrence" instead of
// spinning.
const maxSkips = 366

// IsValidOccurrence reports whether date's calendar day is not suppressed
// by the rule's exceptions.
func IsValidOccurrence(rule *model.RecurrenceRule, date time.Time) bool {
	for _, ex := range rule.Exceptions {
		if timeutil.SameDay(ex, date) {
			return false
		}
	}
	return true
}

// NextOccurrence computes the next occurrence strictly after the given
// date, ignoring exceptions. A rule with an unknown frequency yields the
// zero time. The rule's EndDate is not applied here; callers filter.
func NextOccurrence(rule *model.RecurrenceRule, after time.Time) time.Time {
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	switch rule.Frequency {
	case model.FrequencyDaily, model.FrequencyCustom:
		return timeutil.AddDays(after, interval)
	case model.FrequencyWeekly:
		return nextWeekly(rule.DaysOfWeek, interval, after)
	case model.FrequencyMonthly:
		if rule.DayOfMonth > 0 {
			return nextMonthlyOnDay(rule.DayOfMonth, interval, after)
		}
		return timeutil.AddMonths(after, interval)
	default:
		return time.Time{}
	}
}

// NextValidOccurrence loops NextOccurrence past any exception days. The
// boolean is false when the rule is malformed or every candidate within
// the skip bound is excepted.
func NextValidOccurrence(rule *model.RecurrenceRule, after time.Time) (time.Time, bool) {
	next := after
	for i := 0; i < maxSkips; i++ {
		candidate := NextOccurrence(rule, next)
		if candidate.IsZero() || !candidate.After(next) {
			return time.Time{}, false
		}
		if IsValidOccurrence(rule, candidate) {
			return candidate, true
		}
		next = candidate
	}
	return time.Time{}, false
}

// nextWeekly picks the smallest selected weekday strictly after the current
// one within the same week, otherwise wraps to the week's minimum weekday
// `interval` weeks ahead. Weekdays are numbered 1..7 with Sunday = 1, so
// the offset to weekday m of the following week is (7-c)+m: 7-c days reach
// the Saturday closing this week, m more land on m.
func nextWeekly(daysOfWeek []int, interval int, after time.Time) time.Time {
	days := validWeekdays(daysOfWeek)
	if len(days) == 0 {
		// Malformed selector degrades to plain interval-week addition.
		return timeutil.AddWeeks(after, interval)
	}

	current := timeutil.Weekday1to7(after)
	for _, d := range days {
		if d > current {
			return timeutil.AddDays(after, d-current)
		}
	}

	minDay := days[0]
	return timeutil.AddDays(after, (7-current)+minDay+(interval-1)*7)
}

// nextMonthlyOnDay resolves the day-of-month within the current month and
// advances by interval months while the candidate is not strictly after the
// reference. 31 means the month's last day; 29 and 30 clamp in shorter
// months so the occurrence never skips a month.
func nextMonthlyOnDay(dayOfMonth, interval int, after time.Time) time.Time {
	year, month := after.Year(), after.Month()
	candidate := resolveDayInMonth(year, month, dayOfMonth, after.Location())
	if candidate.After(after) {
		return candidate
	}
	anchor := time.Date(year, month, 1, 0, 0, 0, 0, after.Location()).AddDate(0, interval, 0)
	return resolveDayInMonth(anchor.Year(), anchor.Month(), dayOfMonth, after.Location())
}

func resolveDayInMonth(year int, month time.Month, dayOfMonth int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := timeutil.DaysInMonth(first)
	day := dayOfMonth
	if day == model.LastDayOfMonth || day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// validWeekdays returns the sorted unique weekdays in range 1..7.
func validWeekdays(daysOfWeek []int) []int {
	seen := make(map[int]struct{}, len(daysOfWeek))
	var days []int
	for _, d := range daysOfWeek {
		if d < 1 || d > 7 {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}
