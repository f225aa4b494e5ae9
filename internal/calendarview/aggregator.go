// Package calendarview derives display statistics from habit state. It is
// read-only and recomputed on demand; nothing here is authoritative.
package calendarview

import (
	"time"

	"habitflow/internal/model"
	"habitflow/internal/streak"
	"habitflow/internal/timeutil"
)

// intensityCap is the streak length at which heatmap coloring saturates.
const intensityCap = 30

// CompletionIntensity returns a 0..1 heatmap value for date: 0 when the day
// has no completion, otherwise the streak on that day normalized to the
// cap. Streaks beyond the cap stay at 1.0.
func CompletionIntensity(h *model.Habit, date time.Time) float64 {
	if !h.CompletedOn(date) {
		return 0
	}
	s := streak.StreakOnDate(h, date)
	if s > intensityCap {
		s = intensityCap
	}
	return float64(s) / float64(intensityCap)
}

// RangeCompletionRate is the share of completed days across the inclusive
// range. An empty or inverted range yields 0.
func RangeCompletionRate(h *model.Habit, start, end time.Time) float64 {
	first := timeutil.StartOfDay(start)
	last := timeutil.StartOfDay(end)
	if last.Before(first) {
		return 0
	}

	total := 0
	completed := 0
	for day := first; !day.After(last); day = timeutil.AddDays(day, 1) {
		total++
		if h.CompletedOn(day) {
			completed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}

// DayCell is one calendar cell of a heatmap response.
type DayCell struct {
	Date      string  `json:"date"`
	Completed bool    `json:"completed"`
	Intensity float64 `json:"intensity"`
}

// Heatmap materializes one cell per day of the inclusive range.
func Heatmap(h *model.Habit, start, end time.Time) []DayCell {
	first := timeutil.StartOfDay(start)
	last := timeutil.StartOfDay(end)
	if last.Before(first) {
		return nil
	}

	var cells []DayCell
	for day := first; !day.After(last); day = timeutil.AddDays(day, 1) {
		cells = append(cells, DayCell{
			Date:      day.Format("2006-01-02"),
			Completed: h.CompletedOn(day),
			Intensity: CompletionIntensity(h, day),
		})
	}
	return cells
}
