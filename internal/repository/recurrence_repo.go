package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitflow/internal/model"
)

type RecurrenceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewRecurrenceRepository(db *pgxpool.Pool, logger *zap.Logger) *RecurrenceRepository {
	return &RecurrenceRepository{db: db, logger: logger}
}

// Upsert writes the habit's recurrence rule, replacing any existing one.
// days_of_week is an int[] column, exceptions a date[] column.
func (r *RecurrenceRepository) Upsert(ctx context.Context, rule *model.RecurrenceRule) error {
	query := `
        INSERT INTO recurrence_rules (
            habit_id, frequency, interval_count, days_of_week,
            day_of_month, end_date, exceptions
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (habit_id) DO UPDATE
        SET frequency = EXCLUDED.frequency,
            interval_count = EXCLUDED.interval_count,
            days_of_week = EXCLUDED.days_of_week,
            day_of_month = EXCLUDED.day_of_month,
            end_date = EXCLUDED.end_date,
            exceptions = EXCLUDED.exceptions
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query,
		rule.HabitID,
		string(rule.Frequency),
		rule.Interval,
		rule.DaysOfWeek,
		rule.DayOfMonth,
		rule.EndDate,
		rule.Exceptions,
	).Scan(&rule.ID)

	if err != nil {
		r.logger.Error("Failed to upsert recurrence rule",
			zap.Int("habit_id", rule.HabitID),
			zap.Error(err),
		)
		return err
	}

	r.logger.Info("Recurrence rule saved",
		zap.Int("habit_id", rule.HabitID),
		zap.String("frequency", string(rule.Frequency)),
	)
	return nil
}

func (r *RecurrenceRepository) GetByHabitID(ctx context.Context, habitID int) (*model.RecurrenceRule, error) {
	query := `
        SELECT id, habit_id, frequency, interval_count, days_of_week,
               day_of_month, end_date, exceptions
        FROM recurrence_rules
        WHERE habit_id = $1
    `
	var rule model.RecurrenceRule
	var frequency string
	var endDate *time.Time
	err := r.db.QueryRow(ctx, query, habitID).Scan(
		&rule.ID,
		&rule.HabitID,
		&frequency,
		&rule.Interval,
		&rule.DaysOfWeek,
		&rule.DayOfMonth,
		&endDate,
		&rule.Exceptions,
	)
	if err != nil {
		return nil, err
	}

	rule.Frequency = model.Frequency(frequency)
	rule.EndDate = endDate
	return &rule, nil
}

func (r *RecurrenceRepository) Delete(ctx context.Context, habitID int) error {
	query := `DELETE FROM recurrence_rules WHERE habit_id = $1`
	if _, err := r.db.Exec(ctx, query, habitID); err != nil {
		r.logger.Error("Failed to delete recurrence rule",
			zap.Int("habit_id", habitID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
