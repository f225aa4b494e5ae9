package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"habitflow/internal/model"
	"habitflow/internal/repository"
)

// HabitTaskGeneratedHandler turns habit.task.generated events into task rows.
type HabitTaskGeneratedHandler struct {
	tasks  *repository.TaskRepository
	logger *zap.Logger
}

func NewHabitTaskGeneratedHandler(tasks *repository.TaskRepository, logger *zap.Logger) *HabitTaskGeneratedHandler {
	return &HabitTaskGeneratedHandler{tasks: tasks, logger: logger}
}

func (h *HabitTaskGeneratedHandler) Handle(ctx context.Context, data json.RawMessage) error {
	var payload model.HabitTaskGeneratedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.logger.Error("Failed to unmarshal habit.task.generated payload", zap.Error(err))
		// Malformed payloads are dropped, not requeued.
		return nil
	}

	dueDate, err := time.Parse("2006-01-02", payload.DueDate)
	if err != nil {
		h.logger.Error("Invalid due_date in habit.task.generated payload",
			zap.String("due_date", payload.DueDate),
			zap.Error(err),
		)
		return nil
	}

	task := &model.Task{
		UserID:    payload.UserID,
		Title:     payload.Title,
		DueDate:   dueDate,
		Status:    model.TaskStatusPending,
		CreatedAt: time.Now(),
	}

	taskID, err := h.tasks.Insert(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to insert generated task: %w", err)
	}

	h.logger.Info("Generated task from habit",
		zap.Int("habit_id", payload.HabitID),
		zap.Int("task_id", taskID),
		zap.String("due_date", payload.DueDate),
	)
	return nil
}
