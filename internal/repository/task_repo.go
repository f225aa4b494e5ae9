package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitflow/internal/model"
	"habitflow/pkg/metrics"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) (int, error) {
	start := time.Now()
	query := `
        INSERT INTO tasks (user_id, title, due_date, status, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		t.UserID,
		t.Title,
		t.DueDate,
		t.Status,
		t.CreatedAt,
	).Scan(&id)
	metrics.RecordDBQueryDuration("insert", "tasks", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to insert task", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Task inserted",
		zap.Int("id", id),
		zap.Int("user_id", t.UserID),
	)
	return id, nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID int) ([]model.Task, error) {
	query := `
        SELECT id, user_id, title, due_date, status, created_at
        FROM tasks
        WHERE user_id = $1
        ORDER BY due_date ASC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.DueDate, &t.Status, &t.CreatedAt); err != nil {
			r.logger.Error("Failed to scan task", zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// SetStatus flips the task's completion state; used to keep a base task in
// lockstep with its habit.
func (r *TaskRepository) SetStatus(ctx context.Context, taskID int, status string) error {
	start := time.Now()
	query := `UPDATE tasks SET status = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, taskID)
	metrics.RecordDBQueryDuration("update", "tasks", time.Since(start))

	if err != nil {
		r.logger.Error("Failed to update task status",
			zap.Int("task_id", taskID),
			zap.String("status", status),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// ListExpiredPending returns IDs of pending tasks whose due date has passed.
func (r *TaskRepository) ListExpiredPending(ctx context.Context) ([]int, error) {
	query := `
        SELECT id FROM tasks
        WHERE status = 'pending' AND due_date < NOW()
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list expired tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *TaskRepository) MarkExpired(ctx context.Context) error {
	query := `
        UPDATE tasks SET status = 'overdue'
        WHERE status = 'pending' AND due_date < NOW()
    `
	if _, err := r.db.Exec(ctx, query); err != nil {
		r.logger.Error("Failed to mark tasks overdue", zap.Error(err))
		return err
	}
	return nil
}
