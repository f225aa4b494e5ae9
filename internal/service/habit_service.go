package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"habitflow/internal/model"
	"habitflow/internal/repository"
	"habitflow/internal/streak"
	"habitflow/internal/timeutil"
	"habitflow/pkg/metrics"
	"habitflow/pkg/mq"
)

// HabitService orchestrates habit mutations: the streak engine applies the
// change in memory first, then the result is persisted; a failed persist
// rolls the in-memory record back to its pre-mutation snapshot so callers
// always see internally consistent state.
type HabitService struct {
	habits    *repository.HabitRepository
	tasks     *repository.TaskRepository
	rules     *repository.RecurrenceRepository
	stats     *StatsService
	publisher *mq.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewHabitService(
	habits *repository.HabitRepository,
	tasks *repository.TaskRepository,
	rules *repository.RecurrenceRepository,
	stats *StatsService,
	publisher *mq.Publisher,
	logger *zap.Logger,
) *HabitService {
	return &HabitService{
		habits:    habits,
		tasks:     tasks,
		rules:     rules,
		stats:     stats,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// habitSnapshot captures the fields the streak engine mutates.
type habitSnapshot struct {
	completionDates    []time.Time
	currentStreak      int
	bestStreak         int
	totalCompletions   int
	protectionDaysUsed int
	lastProtectionDate *time.Time
}

func snapshot(h *model.Habit) habitSnapshot {
	dates := make([]time.Time, len(h.CompletionDates))
	copy(dates, h.CompletionDates)
	return habitSnapshot{
		completionDates:    dates,
		currentStreak:      h.CurrentStreak,
		bestStreak:         h.BestStreak,
		totalCompletions:   h.TotalCompletions,
		protectionDaysUsed: h.ProtectionDaysUsed,
		lastProtectionDate: h.LastProtectionDate,
	}
}

func restore(h *model.Habit, snap habitSnapshot) {
	h.CompletionDates = snap.completionDates
	h.CurrentStreak = snap.currentStreak
	h.BestStreak = snap.bestStreak
	h.TotalCompletions = snap.totalCompletions
	h.ProtectionDaysUsed = snap.protectionDaysUsed
	h.LastProtectionDate = snap.lastProtectionDate
}

// Create inserts the base task first, then the habit pointing at it, then
// the optional recurrence rule.
func (s *HabitService) Create(ctx context.Context, userID int, title string, targetPerPeriod int, rule *model.RecurrenceRule) (*model.Habit, error) {
	now := s.now()

	task := &model.Task{
		UserID:    userID,
		Title:     title,
		DueDate:   timeutil.StartOfDay(now),
		Status:    model.TaskStatusPending,
		CreatedAt: now,
	}
	taskID, err := s.tasks.Insert(ctx, task)
	if err != nil {
		return nil, err
	}

	h := &model.Habit{
		UserID:          userID,
		TaskID:          taskID,
		Title:           title,
		TargetPerPeriod: targetPerPeriod,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	habitID, err := s.habits.Insert(ctx, h)
	if err != nil {
		return nil, err
	}
	h.ID = habitID

	if rule != nil {
		rule.HabitID = habitID
		if err := s.rules.Upsert(ctx, rule); err != nil {
			return nil, err
		}
	}

	return h, nil
}

func (s *HabitService) ListByUser(ctx context.Context, userID int) ([]model.Habit, error) {
	return s.habits.ListActiveByUser(ctx, userID)
}

func (s *HabitService) Get(ctx context.Context, habitID int) (*model.Habit, error) {
	return s.habits.GetByID(ctx, habitID)
}

// Complete records a completion for the given day. Idempotent: completing
// an already-completed day changes nothing and persists nothing.
func (s *HabitService) Complete(ctx context.Context, habitID int, date time.Time) (*model.Habit, error) {
	h, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	snap := snapshot(h)
	if !streak.MarkCompleted(h, date) {
		return h, nil
	}

	day := timeutil.StartOfDay(date)
	if err := s.habits.InsertCompletion(ctx, h.ID, day); err != nil {
		restore(h, snap)
		return nil, err
	}
	if err := s.habits.UpdateStats(ctx, h); err != nil {
		// Compensate the completion row, then roll back in memory.
		if delErr := s.habits.DeleteCompletion(ctx, h.ID, day); delErr != nil {
			s.logger.Error("Rollback of completion row failed",
				zap.Int("habit_id", h.ID),
				zap.Error(delErr),
			)
		}
		restore(h, snap)
		return nil, err
	}

	// The base task completes in lockstep with the habit.
	if err := s.tasks.SetStatus(ctx, h.TaskID, model.TaskStatusCompleted); err != nil {
		s.logger.Warn("Task completion sync failed",
			zap.Int("habit_id", h.ID),
			zap.Int("task_id", h.TaskID),
			zap.Error(err),
		)
	}

	s.stats.Invalidate(ctx, h.ID)
	metrics.IncrementHabitCompletion("complete")
	s.publishCompleted(h, day)

	return h, nil
}

// Incomplete removes a completion for the given day. Removing a day that
// was never completed is a no-op, not an error.
func (s *HabitService) Incomplete(ctx context.Context, habitID int, date time.Time) (*model.Habit, error) {
	h, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	snap := snapshot(h)
	if !streak.MarkIncomplete(h, date) {
		return h, nil
	}

	day := timeutil.StartOfDay(date)
	if err := s.habits.DeleteCompletion(ctx, h.ID, day); err != nil {
		restore(h, snap)
		return nil, err
	}
	if err := s.habits.UpdateStats(ctx, h); err != nil {
		if insErr := s.habits.InsertCompletion(ctx, h.ID, day); insErr != nil {
			s.logger.Error("Rollback of completion removal failed",
				zap.Int("habit_id", h.ID),
				zap.Error(insErr),
			)
		}
		restore(h, snap)
		return nil, err
	}

	if err := s.tasks.SetStatus(ctx, h.TaskID, model.TaskStatusPending); err != nil {
		s.logger.Warn("Task incompletion sync failed",
			zap.Int("habit_id", h.ID),
			zap.Int("task_id", h.TaskID),
			zap.Error(err),
		)
	}

	s.stats.Invalidate(ctx, h.ID)
	metrics.IncrementHabitCompletion("incomplete")

	return h, nil
}

// Protect consumes a protection day. The boolean is false when this month's
// quota is exhausted; that outcome is expected and carries no error.
func (s *HabitService) Protect(ctx context.Context, habitID int, date time.Time) (bool, *model.Habit, error) {
	h, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return false, nil, err
	}

	snap := snapshot(h)
	if !streak.UseProtectionDay(h, date) {
		return false, h, nil
	}

	if err := s.habits.UpdateStats(ctx, h); err != nil {
		restore(h, snap)
		return false, nil, err
	}

	metrics.IncrementHabitCompletion("protect")
	return true, h, nil
}

// SetRecurrence replaces the habit's recurrence rule.
func (s *HabitService) SetRecurrence(ctx context.Context, habitID int, rule *model.RecurrenceRule) error {
	if _, err := s.habits.GetByID(ctx, habitID); err != nil {
		return err
	}
	rule.HabitID = habitID
	return s.rules.Upsert(ctx, rule)
}

func (s *HabitService) GetRecurrence(ctx context.Context, habitID int) (*model.RecurrenceRule, error) {
	return s.rules.GetByHabitID(ctx, habitID)
}

func (s *HabitService) publishCompleted(h *model.Habit, day time.Time) {
	if s.publisher == nil {
		return
	}
	payload := model.HabitCompletedPayload{
		HabitID:       h.ID,
		UserID:        h.UserID,
		Date:          day.Format("2006-01-02"),
		CurrentStreak: h.CurrentStreak,
		BestStreak:    h.BestStreak,
	}
	if err := s.publisher.Publish("habit.completed", payload); err != nil {
		s.logger.Error("Failed to publish habit.completed event",
			zap.Int("habit_id", h.ID),
			zap.Error(err),
		)
	}
}
