package model

// MQ event payloads. Dates cross the wire as YYYY-MM-DD strings.

type HabitTaskGeneratedPayload struct {
	HabitID int    `json:"habit_id"`
	UserID  int    `json:"user_id"`
	Title   string `json:"title"`
	DueDate string `json:"due_date"`
}

type HabitCompletedPayload struct {
	HabitID       int    `json:"habit_id"`
	UserID        int    `json:"user_id"`
	Date          string `json:"date"`
	CurrentStreak int    `json:"current_streak"`
	BestStreak    int    `json:"best_streak"`
}

type TaskOverduePayload struct {
	TaskID int `json:"task_id"`
}
