// Package streak maintains a habit's consecutive-day statistics and its
// monthly protection-day quota. Every function is a total, side-effect-free
// operation on explicitly passed values; persistence and rollback are the
// caller's concern.
package streak

import (
	"sort"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/timeutil"
)

// ProtectionDayQuota is the number of protection days granted per calendar month.
const ProtectionDayQuota = 2

// MarkCompleted records a completion on date's calendar day. Idempotent:
// a day already present leaves the habit untouched. Returns true when the
// habit changed, which callers use to sync the base task's completion flag.
func MarkCompleted(h *model.Habit, date time.Time) bool {
	day := timeutil.StartOfDay(date)
	if h.CompletedOn(day) {
		return false
	}
	h.CompletionDates = append(h.CompletionDates, day)
	h.TotalCompletions++
	recompute(h, day)
	return true
}

// MarkIncomplete removes the completion on date's calendar day if present.
// TotalCompletions is decremented but clamped at zero rather than derived
// from the set size, so an externally corrupted counter degrades instead of
// going negative. Returns true when the habit changed.
func MarkIncomplete(h *model.Habit, date time.Time) bool {
	day := timeutil.StartOfDay(date)
	removed := false
	kept := h.CompletionDates[:0]
	for _, d := range h.CompletionDates {
		if !removed && timeutil.SameDay(d, day) {
			removed = true
			continue
		}
		kept = append(kept, d)
	}
	if !removed {
		return false
	}
	h.CompletionDates = kept
	if h.TotalCompletions > 0 {
		h.TotalCompletions--
	}
	recompute(h, day)
	return true
}

func recompute(h *model.Habit, ref time.Time) {
	h.CurrentStreak = CurrentStreak(h.CompletionDates, ref)
	if h.CurrentStreak > h.BestStreak {
		h.BestStreak = h.CurrentStreak
	}
}

// CurrentStreak walks completion days backwards from the reference day.
// The expected day at index i is referenceDay minus i days; the walk stops
// at the first mismatch. The anchor is strict: when the reference day itself
// has no completion the streak is 0 even if earlier days chain without a
// gap. Use-it-or-lose-it, same day.
func CurrentStreak(dates []time.Time, reference time.Time) int {
	days := normalizeDescending(dates)
	refDay := timeutil.StartOfDay(reference)

	streak := 0
	for i, d := range days {
		expected := timeutil.AddDays(refDay, -i)
		if !timeutil.SameDay(d, expected) {
			break
		}
		streak++
	}
	return streak
}

// StreakOnDate runs the same walk anchored at an arbitrary date, considering
// only completions on or before that date.
func StreakOnDate(h *model.Habit, date time.Time) int {
	day := timeutil.StartOfDay(date)
	var onOrBefore []time.Time
	for _, d := range h.CompletionDates {
		if !timeutil.StartOfDay(d).After(day) {
			onOrBefore = append(onOrBefore, d)
		}
	}
	return CurrentStreak(onOrBefore, day)
}

// UseProtectionDay consumes one protection day for date's month. Crossing
// into a new month renews the quota before the check. Returns false when
// the quota is exhausted; exhaustion is an expected outcome, not an error.
// A protection day never adds a completion and never touches the streak.
func UseProtectionDay(h *model.Habit, date time.Time) bool {
	if h.LastProtectionDate != nil && !timeutil.SameMonth(*h.LastProtectionDate, date) {
		h.ProtectionDaysUsed = 0
	}
	if h.ProtectionDaysUsed >= ProtectionDayQuota {
		return false
	}
	h.ProtectionDaysUsed++
	day := timeutil.StartOfDay(date)
	h.LastProtectionDate = &day
	return true
}

// AvailableProtectionDays returns the remaining quota for today's month.
func AvailableProtectionDays(h *model.Habit, today time.Time) int {
	if h.LastProtectionDate == nil || !timeutil.SameMonth(*h.LastProtectionDate, today) {
		return ProtectionDayQuota
	}
	remaining := ProtectionDayQuota - h.ProtectionDaysUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CompletionRate is total completions over days since creation, inclusive
// of the creation day.
func CompletionRate(h *model.Habit, today time.Time) float64 {
	daysSinceCreation := timeutil.DayDiff(h.CreatedAt, today)
	if daysSinceCreation <= 0 {
		return 0
	}
	return float64(h.TotalCompletions) / float64(daysSinceCreation+1)
}

// MonthlyCompletionRate is the share of date's calendar month with a completion.
func MonthlyCompletionRate(h *model.Habit, date time.Time) float64 {
	completed := 0
	for _, d := range h.CompletionDates {
		if timeutil.SameMonth(d, date) {
			completed++
		}
	}
	return float64(completed) / float64(timeutil.DaysInMonth(date))
}

// normalizeDescending returns the unique calendar days of dates, newest first.
func normalizeDescending(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := timeutil.StartOfDay(d)
		key := day.UTC()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}
