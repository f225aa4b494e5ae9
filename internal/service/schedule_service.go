package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"habitflow/internal/model"
	"habitflow/internal/recurrence"
	"habitflow/internal/repository"
	"habitflow/internal/timeutil"
	"habitflow/internal/util"
	"habitflow/pkg/metrics"
	"habitflow/pkg/mq"
)

// Scheduler evaluates every active habit's recurrence rule against today
// and publishes habit.task.generated events for the due ones, plus a sweep
// that flips expired pending tasks to overdue.
type Scheduler struct {
	habits    *repository.HabitRepository
	tasks     *repository.TaskRepository
	rules     *repository.RecurrenceRepository
	publisher *mq.Publisher
	deduper   *util.Deduper
	logger    *zap.Logger
	now       func() time.Time
}

func NewScheduler(
	habits *repository.HabitRepository,
	tasks *repository.TaskRepository,
	rules *repository.RecurrenceRepository,
	publisher *mq.Publisher,
	deduper *util.Deduper,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		habits:    habits,
		tasks:     tasks,
		rules:     rules,
		publisher: publisher,
		deduper:   deduper,
		logger:    logger,
		now:       time.Now,
	}
}

// Run loops both checks on the given interval until the context is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if err := s.GenerateDueTasks(ctx); err != nil {
		s.logger.Error("Habit task generation failed", zap.Error(err))
	}
	if err := s.SweepOverdue(ctx); err != nil {
		s.logger.Error("Overdue sweep failed", zap.Error(err))
	}
}

// GenerateDueTasks publishes habit.task.generated for each habit whose rule
// fires today. Redis dedup keeps a habit from generating twice per day.
func (s *Scheduler) GenerateDueTasks(ctx context.Context) error {
	today := timeutil.StartOfDay(s.now())
	s.logger.Info("Generating habit tasks",
		zap.String("date", today.Format("2006-01-02")),
	)

	habits, err := s.habits.ListAllActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list habits", zap.Error(err))
		return err
	}

	generatedCount := 0
	for _, habit := range habits {
		rule, err := s.rules.GetByHabitID(ctx, habit.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue // habit has no schedule
			}
			s.logger.Error("Failed to load recurrence rule",
				zap.Int("habit_id", habit.ID),
				zap.Error(err),
			)
			continue
		}

		if !s.dueToday(&habit, rule, today) {
			continue
		}

		scope := fmt.Sprintf("habit-task:%s", today.Format("2006-01-02"))
		if !s.deduper.AcquireOnce(ctx, scope, habit.ID) {
			s.logger.Debug("Habit task already generated today",
				zap.Int("habit_id", habit.ID),
			)
			continue
		}

		payload := model.HabitTaskGeneratedPayload{
			HabitID: habit.ID,
			UserID:  habit.UserID,
			Title:   habit.Title,
			DueDate: today.Format("2006-01-02"),
		}
		if err := s.publisher.Publish("habit.task.generated", payload); err != nil {
			s.logger.Error("Failed to publish habit.task.generated event",
				zap.Int("habit_id", habit.ID),
				zap.Error(err),
			)
			continue
		}

		generatedCount++
		metrics.IncrementTaskGeneration("habit")
		s.logger.Info("Published habit.task.generated event",
			zap.Int("habit_id", habit.ID),
			zap.String("title", habit.Title),
		)
	}

	s.logger.Info("Habit task generation completed",
		zap.Int("total_habits", len(habits)),
		zap.Int("generated_count", generatedCount),
	)
	return nil
}

// maxOccurrenceWalk bounds the occurrence walk in dueToday. Daily rules
// produce at most one occurrence per day, so this covers habits over a
// decade old.
const maxOccurrenceWalk = 5000

// dueToday walks the rule's occurrences from the habit's creation day and
// checks whether one lands on today. The walk must start at a fixed phase
// reference: anchoring at yesterday would make every "every N periods"
// rule degenerate to N=1, since the first occurrence after yesterday is
// never today for larger intervals. EndDate is the caller-side filter the
// engine deliberately does not apply.
func (s *Scheduler) dueToday(h *model.Habit, rule *model.RecurrenceRule, today time.Time) bool {
	if rule.EndDate != nil && today.After(timeutil.StartOfDay(*rule.EndDate)) {
		return false
	}

	// One day before creation, so interval-1 rules fire on the creation
	// day itself.
	cursor := timeutil.AddDays(timeutil.StartOfDay(h.CreatedAt), -1)
	for i := 0; i < maxOccurrenceWalk; i++ {
		occurrence, ok := recurrence.NextValidOccurrence(rule, cursor)
		if !ok || occurrence.After(today) {
			return false
		}
		if timeutil.SameDay(occurrence, today) {
			return true
		}
		cursor = occurrence
	}

	s.logger.Warn("Occurrence walk exhausted",
		zap.Int("habit_id", h.ID),
	)
	return false
}

// SweepOverdue marks expired pending tasks overdue and publishes
// task.overdue events.
func (s *Scheduler) SweepOverdue(ctx context.Context) error {
	taskIDs, err := s.tasks.ListExpiredPending(ctx)
	if err != nil {
		s.logger.Error("Failed to list expired tasks", zap.Error(err))
		return err
	}

	if len(taskIDs) == 0 {
		s.logger.Debug("No overdue tasks found")
		return nil
	}

	if err := s.tasks.MarkExpired(ctx); err != nil {
		s.logger.Error("Failed to mark tasks as overdue", zap.Error(err))
		return err
	}

	for _, taskID := range taskIDs {
		payload := model.TaskOverduePayload{TaskID: taskID}
		if err := s.publisher.Publish("task.overdue", payload); err != nil {
			s.logger.Error("Failed to publish task.overdue event",
				zap.Int("task_id", taskID),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("Published task.overdue event",
			zap.Int("task_id", taskID),
		)
	}

	s.logger.Info("Overdue check completed",
		zap.Int("overdue_count", len(taskIDs)),
	)
	return nil
}
