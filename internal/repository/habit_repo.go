package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitflow/internal/model"
	"habitflow/pkg/metrics"
)

type HabitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewHabitRepository(db *pgxpool.Pool, logger *zap.Logger) *HabitRepository {
	return &HabitRepository{db: db, logger: logger}
}

func (r *HabitRepository) Insert(ctx context.Context, h *model.Habit) (int, error) {
	r.logger.Debug("Inserting habit",
		zap.Int("user_id", h.UserID),
		zap.String("title", h.Title),
	)

	start := time.Now()
	query := `
        INSERT INTO habits (
            user_id, task_id, title, current_streak, best_streak,
            total_completions, protection_days_used, last_protection_date,
            target_per_period, is_active, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		h.UserID,
		h.TaskID,
		h.Title,
		h.CurrentStreak,
		h.BestStreak,
		h.TotalCompletions,
		h.ProtectionDaysUsed,
		h.LastProtectionDate,
		h.TargetPerPeriod,
		h.IsActive,
		h.CreatedAt,
		h.UpdatedAt,
	).Scan(&id)
	metrics.RecordDBQueryDuration("insert", "habits", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to insert habit", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Habit inserted successfully",
		zap.Int("id", id),
		zap.Int("user_id", h.UserID),
	)
	return id, nil
}

func (r *HabitRepository) GetByID(ctx context.Context, id int) (*model.Habit, error) {
	query := `
        SELECT id, user_id, task_id, title, current_streak, best_streak,
               total_completions, protection_days_used, last_protection_date,
               target_per_period, is_active, created_at, updated_at
        FROM habits
        WHERE id = $1
    `
	var h model.Habit
	err := r.db.QueryRow(ctx, query, id).Scan(
		&h.ID,
		&h.UserID,
		&h.TaskID,
		&h.Title,
		&h.CurrentStreak,
		&h.BestStreak,
		&h.TotalCompletions,
		&h.ProtectionDaysUsed,
		&h.LastProtectionDate,
		&h.TargetPerPeriod,
		&h.IsActive,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := r.loadCompletions(ctx, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HabitRepository) ListActiveByUser(ctx context.Context, userID int) ([]model.Habit, error) {
	r.logger.Debug("Listing active habits for user", zap.Int("user_id", userID))

	query := `
        SELECT id, user_id, task_id, title, current_streak, best_streak,
               total_completions, protection_days_used, last_protection_date,
               target_per_period, is_active, created_at, updated_at
        FROM habits
        WHERE user_id = $1 AND is_active = TRUE
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list habits", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	habits, err := scanHabits(rows)
	if err != nil {
		r.logger.Error("Failed to scan habit", zap.Error(err))
		return nil, err
	}

	r.logger.Debug("Listed habits",
		zap.Int("user_id", userID),
		zap.Int("count", len(habits)),
	)
	return habits, nil
}

func (r *HabitRepository) ListAllActive(ctx context.Context) ([]model.Habit, error) {
	query := `
        SELECT id, user_id, task_id, title, current_streak, best_streak,
               total_completions, protection_days_used, last_protection_date,
               target_per_period, is_active, created_at, updated_at
        FROM habits
        WHERE is_active = TRUE
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list all active habits", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	habits, err := scanHabits(rows)
	if err != nil {
		r.logger.Error("Failed to scan habit", zap.Error(err))
		return nil, err
	}
	return habits, nil
}

// UpdateStats persists the streak/counter/protection fields mutated by the
// streak engine.
func (r *HabitRepository) UpdateStats(ctx context.Context, h *model.Habit) error {
	start := time.Now()
	query := `
        UPDATE habits
        SET current_streak = $1,
            best_streak = $2,
            total_completions = $3,
            protection_days_used = $4,
            last_protection_date = $5,
            updated_at = NOW()
        WHERE id = $6
    `
	_, err := r.db.Exec(ctx, query,
		h.CurrentStreak,
		h.BestStreak,
		h.TotalCompletions,
		h.ProtectionDaysUsed,
		h.LastProtectionDate,
		h.ID,
	)
	metrics.RecordDBQueryDuration("update", "habits", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to update habit stats",
			zap.Int("habit_id", h.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *HabitRepository) InsertCompletion(ctx context.Context, habitID int, day time.Time) error {
	start := time.Now()
	query := `
        INSERT INTO habit_completions (habit_id, completed_on)
        VALUES ($1, $2)
        ON CONFLICT (habit_id, completed_on) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query, habitID, day)
	metrics.RecordDBQueryDuration("insert", "habit_completions", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to insert completion",
			zap.Int("habit_id", habitID),
			zap.Time("day", day),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *HabitRepository) DeleteCompletion(ctx context.Context, habitID int, day time.Time) error {
	start := time.Now()
	query := `
        DELETE FROM habit_completions
        WHERE habit_id = $1 AND completed_on = $2
    `
	_, err := r.db.Exec(ctx, query, habitID, day)
	metrics.RecordDBQueryDuration("delete", "habit_completions", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to delete completion",
			zap.Int("habit_id", habitID),
			zap.Time("day", day),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *HabitRepository) loadCompletions(ctx context.Context, h *model.Habit) error {
	query := `
        SELECT completed_on FROM habit_completions
        WHERE habit_id = $1
        ORDER BY completed_on DESC
    `
	rows, err := r.db.Query(ctx, query, h.ID)
	if err != nil {
		r.logger.Error("Failed to load completions",
			zap.Int("habit_id", h.ID),
			zap.Error(err),
		)
		return err
	}
	defer rows.Close()

	h.CompletionDates = nil
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return err
		}
		h.CompletionDates = append(h.CompletionDates, day)
	}
	return rows.Err()
}

func scanHabits(rows pgx.Rows) ([]model.Habit, error) {
	var habits []model.Habit
	for rows.Next() {
		var h model.Habit
		if err := rows.Scan(
			&h.ID,
			&h.UserID,
			&h.TaskID,
			&h.Title,
			&h.CurrentStreak,
			&h.BestStreak,
			&h.TotalCompletions,
			&h.ProtectionDaysUsed,
			&h.LastProtectionDate,
			&h.TargetPerPeriod,
			&h.IsActive,
			&h.CreatedAt,
			&h.UpdatedAt,
		); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, nil
}
