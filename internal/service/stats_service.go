package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"habitflow/internal/calendarview"
	"habitflow/internal/repository"
	"habitflow/internal/streak"
)

const heatmapTTL = 15 * time.Minute

// HabitStats is the derived overview for one habit.
type HabitStats struct {
	HabitID                 int     `json:"habit_id"`
	CurrentStreak           int     `json:"current_streak"`
	BestStreak              int     `json:"best_streak"`
	TotalCompletions        int     `json:"total_completions"`
	CompletionRate          float64 `json:"completion_rate"`
	MonthlyCompletionRate   float64 `json:"monthly_completion_rate"`
	AvailableProtectionDays int     `json:"available_protection_days"`
}

// StatsService serves read-only derived views. Heatmaps are cached in
// redis and invalidated on every habit mutation; everything else is
// recomputed per request.
type StatsService struct {
	habits *repository.HabitRepository
	rdb    *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

func NewStatsService(habits *repository.HabitRepository, rdb *redis.Client, logger *zap.Logger) *StatsService {
	return &StatsService{
		habits: habits,
		rdb:    rdb,
		logger: logger,
		now:    time.Now,
	}
}

func (s *StatsService) Overview(ctx context.Context, habitID int) (*HabitStats, error) {
	h, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	return &HabitStats{
		HabitID:                 h.ID,
		CurrentStreak:           h.CurrentStreak,
		BestStreak:              h.BestStreak,
		TotalCompletions:        h.TotalCompletions,
		CompletionRate:          streak.CompletionRate(h, today),
		MonthlyCompletionRate:   streak.MonthlyCompletionRate(h, today),
		AvailableProtectionDays: streak.AvailableProtectionDays(h, today),
	}, nil
}

func (s *StatsService) Heatmap(ctx context.Context, habitID int, start, end time.Time) ([]calendarview.DayCell, error) {
	key := heatmapKey(habitID, start, end)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var cells []calendarview.DayCell
			if err := json.Unmarshal(cached, &cells); err == nil {
				return cells, nil
			}
		}
	}

	h, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	cells := calendarview.Heatmap(h, start, end)

	if s.rdb != nil {
		if body, err := json.Marshal(cells); err == nil {
			if err := s.rdb.Set(ctx, key, body, heatmapTTL).Err(); err != nil {
				s.logger.Debug("Heatmap cache write failed", zap.Error(err))
			}
		}
	}

	return cells, nil
}

func (s *StatsService) RangeCompletionRate(ctx context.Context, habitID int, start, end time.Time) (float64, error) {
	h, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return 0, err
	}
	return calendarview.RangeCompletionRate(h, start, end), nil
}

// Invalidate drops every cached heatmap for the habit. Cache errors are
// logged and swallowed; a stale heatmap ages out via TTL anyway.
func (s *StatsService) Invalidate(ctx context.Context, habitID int) {
	if s.rdb == nil {
		return
	}

	pattern := fmt.Sprintf("stats:heatmap:%d:*", habitID)
	iter := s.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Debug("Heatmap cache invalidation failed",
				zap.String("key", iter.Val()),
				zap.Error(err),
			)
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Debug("Heatmap cache scan failed", zap.Error(err))
	}
}

func heatmapKey(habitID int, start, end time.Time) string {
	return fmt.Sprintf("stats:heatmap:%d:%s:%s",
		habitID,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"),
	)
}
