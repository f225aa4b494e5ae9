package recurrence

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitflow/internal/model"
	"habitflow/internal/timeutil"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// 2025-06-15 is a Sunday; sunday+n gives any weekday deterministically.
var sunday = day(2025, 6, 15)

func TestNextOccurrence_Daily(t *testing.T) {
	rule := &model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 1}
	got := NextOccurrence(rule, day(2025, 6, 15))
	assert.Equal(t, day(2025, 6, 16), got)
}

func TestNextOccurrence_DailyWithInterval(t *testing.T) {
	rule := &model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 3}
	got := NextOccurrence(rule, day(2025, 6, 15))
	assert.Equal(t, day(2025, 6, 18), got)
}

func TestNextOccurrence_CustomBehavesLikeDaily(t *testing.T) {
	rule := &model.RecurrenceRule{Frequency: model.FrequencyCustom, Interval: 10}
	got := NextOccurrence(rule, day(2025, 6, 15))
	assert.Equal(t, day(2025, 6, 25), got)
}

func TestNextOccurrence_WeeklySameWeek(t *testing.T) {
	// Mon (2) and Wed (4); from Monday the next hit is the same week's Wednesday.
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyWeekly,
		Interval:   1,
		DaysOfWeek: []int{2, 4},
	}
	monday := timeutil.AddDays(sunday, 1)
	got := NextOccurrence(rule, monday)
	assert.Equal(t, timeutil.AddDays(sunday, 3), got) // Wednesday
	assert.Equal(t, 4, timeutil.Weekday1to7(got))
}

func TestNextOccurrence_WeeklyWrapsToNextWeek(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyWeekly,
		Interval:   1,
		DaysOfWeek: []int{2, 4},
	}
	thursday := timeutil.AddDays(sunday, 4)
	got := NextOccurrence(rule, thursday)
	// Next Monday, 4 days later.
	assert.Equal(t, timeutil.AddDays(thursday, 4), got)
	assert.Equal(t, 2, timeutil.Weekday1to7(got))
}

func TestNextOccurrence_WeeklySameWeekdayAdvancesFullInterval(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyWeekly,
		Interval:   2,
		DaysOfWeek: []int{1}, // Sunday only
	}
	got := NextOccurrence(rule, sunday)
	assert.Equal(t, timeutil.AddDays(sunday, 14), got)
}

func TestNextOccurrence_WeeklyEmptyDaysFallsBackToIntervalWeeks(t *testing.T) {
	rule := &model.RecurrenceRule{Frequency: model.FrequencyWeekly, Interval: 2}
	got := NextOccurrence(rule, day(2025, 6, 15))
	assert.Equal(t, day(2025, 6, 29), got)
}

// TestNextOccurrence_WeeklyExhaustive sweeps every (current weekday, target
// weekday) pair and interval 1..4 and checks the wraparound arithmetic from
// first principles: the result lands on the target weekday, is strictly
// after the input, and is never more than interval weeks out.
func TestNextOccurrence_WeeklyExhaustive(t *testing.T) {
	for current := 0; current < 7; current++ {
		after := timeutil.AddDays(sunday, current)
		for target := 1; target <= 7; target++ {
			for interval := 1; interval <= 4; interval++ {
				name := fmt.Sprintf("cur=%d target=%d interval=%d", current+1, target, interval)
				t.Run(name, func(t *testing.T) {
					rule := &model.RecurrenceRule{
						Frequency:  model.FrequencyWeekly,
						Interval:   interval,
						DaysOfWeek: []int{target},
					}
					got := NextOccurrence(rule, after)

					require.True(t, got.After(after), "occurrence must be strictly after the input")
					require.Equal(t, target, timeutil.Weekday1to7(got), "occurrence must land on the target weekday")

					gap := timeutil.DayDiff(after, got)
					require.LessOrEqual(t, gap, interval*7, "gap must not exceed interval weeks")
					if target > timeutil.Weekday1to7(after) {
						// Same-week hit ignores the interval entirely.
						require.Less(t, gap, 7)
					}
				})
			}
		}
	}
}

func TestNextOccurrence_MonthlyOnDay(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyMonthly,
		Interval:   1,
		DayOfMonth: 20,
	}

	got := NextOccurrence(rule, day(2025, 6, 15))
	assert.Equal(t, day(2025, 6, 20), got)

	// Past the 20th the occurrence moves to next month.
	got = NextOccurrence(rule, day(2025, 6, 25))
	assert.Equal(t, day(2025, 7, 20), got)
}

func TestNextOccurrence_MonthlyLastDaySentinel(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyMonthly,
		Interval:   1,
		DayOfMonth: model.LastDayOfMonth,
	}

	tests := []struct {
		name  string
		after time.Time
		want  time.Time
	}{
		{"January resolves to the 31st", day(2025, 1, 15), day(2025, 1, 31)},
		{"February resolves to the 28th", day(2025, 2, 15), day(2025, 2, 28)},
		{"leap February resolves to the 29th", day(2024, 2, 15), day(2024, 2, 29)},
		{"April resolves to the 30th", day(2025, 4, 15), day(2025, 4, 30)},
		{"on the last day advances a month", day(2025, 1, 31), day(2025, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextOccurrence(rule, tt.after))
		})
	}
}

func TestNextOccurrence_MonthlyDay30ClampsInFebruary(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyMonthly,
		Interval:   1,
		DayOfMonth: 30,
	}
	got := NextOccurrence(rule, day(2025, 2, 10))
	assert.Equal(t, day(2025, 2, 28), got)
}

func TestNextOccurrence_MonthlyWithoutDay(t *testing.T) {
	rule := &model.RecurrenceRule{Frequency: model.FrequencyMonthly, Interval: 2}
	got := NextOccurrence(rule, day(2025, 6, 15))
	assert.Equal(t, day(2025, 8, 15), got)
}

func TestNextOccurrence_UnknownFrequencyYieldsZero(t *testing.T) {
	rule := &model.RecurrenceRule{Frequency: model.Frequency("yearly"), Interval: 1}
	assert.True(t, NextOccurrence(rule, day(2025, 6, 15)).IsZero())
}

func TestNextOccurrence_ZeroIntervalTreatedAsOne(t *testing.T) {
	rule := &model.RecurrenceRule{Frequency: model.FrequencyDaily}
	got := NextOccurrence(rule, day(2025, 6, 15))
	assert.Equal(t, day(2025, 6, 16), got)
}

func TestIsValidOccurrence(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyDaily,
		Interval:   1,
		Exceptions: []time.Time{day(2025, 6, 16)},
	}

	assert.True(t, IsValidOccurrence(rule, day(2025, 6, 15)))
	assert.False(t, IsValidOccurrence(rule, day(2025, 6, 16)))
	assert.False(t, IsValidOccurrence(rule, day(2025, 6, 16).Add(9*time.Hour)))
}

func TestNextValidOccurrence_SkipsExceptions(t *testing.T) {
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyDaily,
		Interval:   1,
		Exceptions: []time.Time{day(2025, 6, 16), day(2025, 6, 17)},
	}

	got, ok := NextValidOccurrence(rule, day(2025, 6, 15))
	require.True(t, ok)
	assert.Equal(t, day(2025, 6, 18), got)
}

func TestNextValidOccurrence_MalformedRuleDegrades(t *testing.T) {
	rule := &model.RecurrenceRule{Frequency: model.Frequency("bogus"), Interval: 1}
	_, ok := NextValidOccurrence(rule, day(2025, 6, 15))
	assert.False(t, ok)
}
