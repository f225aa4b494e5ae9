package model

import "time"

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyCustom  Frequency = "custom"
)

// LastDayOfMonth is the DayOfMonth sentinel meaning "last calendar day of
// the month" regardless of the month's actual length.
const LastDayOfMonth = 31

// RecurrenceRule describes when a habit's task recurs.
// DaysOfWeek uses 1..7 with Sunday = 1 and only applies to weekly rules.
// EndDate is an inclusive upper bound enforced by callers, not by the
// occurrence computation itself.
type RecurrenceRule struct {
	ID         int         `json:"id"`
	HabitID    int         `json:"habit_id"`
	Frequency  Frequency   `json:"frequency"`
	Interval   int         `json:"interval"`
	DaysOfWeek []int       `json:"days_of_week,omitempty"`
	DayOfMonth int         `json:"day_of_month,omitempty"` // 0 = unset
	EndDate    *time.Time  `json:"end_date,omitempty"`
	Exceptions []time.Time `json:"exceptions,omitempty"`
}
