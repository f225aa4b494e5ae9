package model

import (
	"time"

	"habitflow/internal/timeutil"
)

// Habit tracks a recurring behavior. TaskID points at the base task that
// supplies title/description; the reference is deliberately one-way so the
// task graph is resolved through repositories, never traversed in memory.
type Habit struct {
	ID                 int         `json:"id"`
	UserID             int         `json:"user_id"`
	TaskID             int         `json:"task_id"`
	Title              string      `json:"title"`
	CompletionDates    []time.Time `json:"completion_dates"`
	CurrentStreak      int         `json:"current_streak"`
	BestStreak         int         `json:"best_streak"`
	TotalCompletions   int         `json:"total_completions"`
	ProtectionDaysUsed int         `json:"protection_days_used"`
	LastProtectionDate *time.Time  `json:"last_protection_date,omitempty"`
	TargetPerPeriod    int         `json:"target_per_period,omitempty"` // 0 = no target, informational only
	IsActive           bool        `json:"is_active"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// CompletedOn reports whether the habit has a completion on day's calendar day.
func (h *Habit) CompletedOn(day time.Time) bool {
	for _, d := range h.CompletionDates {
		if timeutil.SameDay(d, day) {
			return true
		}
	}
	return false
}
