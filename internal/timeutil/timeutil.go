// Package timeutil provides day-granularity calendar arithmetic shared by
// the streak, recurrence and parsing engines.
package timeutil

import (
	"math"
	"time"
)

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// DayDiff returns the number of whole calendar days from `from` to `to`.
// Negative when `to` precedes `from`. Rounding absorbs DST shifts.
func DayDiff(from, to time.Time) int {
	f := StartOfDay(from)
	t := StartOfDay(to)
	return int(math.Round(t.Sub(f).Hours() / 24))
}

func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

func AddWeeks(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n*7)
}

func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of calendar days in t's month.
func DaysInMonth(t time.Time) int {
	first := StartOfMonth(t)
	return first.AddDate(0, 1, -1).Day()
}

// Weekday1to7 returns t's weekday numbered 1..7 with Sunday = 1.
func Weekday1to7(t time.Time) int {
	return int(t.Weekday()) + 1
}
