package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"habitflow/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testScheduler() *Scheduler {
	return &Scheduler{logger: zap.NewNop()}
}

func TestDueToday_DailyEveryDay(t *testing.T) {
	h := &model.Habit{ID: 1, CreatedAt: day(2025, 6, 1)}
	rule := &model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 1}

	s := testScheduler()
	assert.True(t, s.dueToday(h, rule, day(2025, 6, 1)), "interval-1 rules fire on the creation day")
	assert.True(t, s.dueToday(h, rule, day(2025, 6, 15)))
}

func TestDueToday_DailyIntervalKeepsPhase(t *testing.T) {
	// Every 3 days from a habit created June 1: due on the 3rd, 6th, 9th...
	// and on no day in between.
	h := &model.Habit{ID: 1, CreatedAt: day(2025, 6, 1)}
	rule := &model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 3}

	s := testScheduler()
	dueCount := 0
	for d := 1; d <= 15; d++ {
		if s.dueToday(h, rule, day(2025, 6, d)) {
			dueCount++
			assert.Equal(t, 0, d%3, "due day %d is off-phase", d)
		}
	}
	assert.Equal(t, 5, dueCount)
}

func TestDueToday_WeeklyIntervalSkipsAlternateWeeks(t *testing.T) {
	// Every second Monday, habit created on Monday June 16.
	h := &model.Habit{ID: 1, CreatedAt: day(2025, 6, 16)}
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyWeekly,
		Interval:   2,
		DaysOfWeek: []int{2}, // Monday
	}

	s := testScheduler()
	assert.True(t, s.dueToday(h, rule, day(2025, 6, 16)))
	assert.False(t, s.dueToday(h, rule, day(2025, 6, 23)), "off-week Monday must not fire")
	assert.True(t, s.dueToday(h, rule, day(2025, 6, 30)))
	assert.False(t, s.dueToday(h, rule, day(2025, 7, 7)))
	assert.True(t, s.dueToday(h, rule, day(2025, 7, 14)))
	assert.False(t, s.dueToday(h, rule, day(2025, 6, 17)), "non-selected weekday must not fire")
}

func TestDueToday_MonthlyIntervalSkipsAlternateMonths(t *testing.T) {
	// Every second month on the 10th, habit created June 5.
	h := &model.Habit{ID: 1, CreatedAt: day(2025, 6, 5)}
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyMonthly,
		Interval:   2,
		DayOfMonth: 10,
	}

	s := testScheduler()
	assert.True(t, s.dueToday(h, rule, day(2025, 6, 10)))
	assert.False(t, s.dueToday(h, rule, day(2025, 7, 10)), "off-month must not fire")
	assert.True(t, s.dueToday(h, rule, day(2025, 8, 10)))
	assert.False(t, s.dueToday(h, rule, day(2025, 9, 10)))
	assert.False(t, s.dueToday(h, rule, day(2025, 6, 11)))
}

func TestDueToday_ExceptionsSuppressOccurrence(t *testing.T) {
	h := &model.Habit{ID: 1, CreatedAt: day(2025, 6, 1)}
	rule := &model.RecurrenceRule{
		Frequency:  model.FrequencyDaily,
		Interval:   1,
		Exceptions: []time.Time{day(2025, 6, 10)},
	}

	s := testScheduler()
	assert.False(t, s.dueToday(h, rule, day(2025, 6, 10)))
	assert.True(t, s.dueToday(h, rule, day(2025, 6, 11)))
}

func TestDueToday_EndDateFilter(t *testing.T) {
	end := day(2025, 6, 10)
	h := &model.Habit{ID: 1, CreatedAt: day(2025, 6, 1)}
	rule := &model.RecurrenceRule{
		Frequency: model.FrequencyDaily,
		Interval:  1,
		EndDate:   &end,
	}

	s := testScheduler()
	assert.True(t, s.dueToday(h, rule, day(2025, 6, 10)), "end date itself is still due")
	assert.False(t, s.dueToday(h, rule, day(2025, 6, 11)))
}

func TestDueToday_MalformedRuleNeverFires(t *testing.T) {
	h := &model.Habit{ID: 1, CreatedAt: day(2025, 6, 1)}
	rule := &model.RecurrenceRule{Frequency: model.Frequency("bogus"), Interval: 1}

	s := testScheduler()
	assert.False(t, s.dueToday(h, rule, day(2025, 6, 10)))
}
