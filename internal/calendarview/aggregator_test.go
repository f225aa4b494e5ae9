package calendarview

import (
	"testing"
	"time"

	"habitflow/internal/model"
	"habitflow/internal/streak"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func habitWithStreak(start time.Time, length int) *model.Habit {
	h := &model.Habit{ID: 1, CreatedAt: start}
	for i := 0; i < length; i++ {
		streak.MarkCompleted(h, start.AddDate(0, 0, i))
	}
	return h
}

func TestCompletionIntensity_ZeroWhenNotCompleted(t *testing.T) {
	h := habitWithStreak(day(2025, 6, 1), 5)
	if got := CompletionIntensity(h, day(2025, 6, 10)); got != 0 {
		t.Errorf("intensity for uncompleted day = %v, want 0", got)
	}
}

func TestCompletionIntensity_ScalesWithStreak(t *testing.T) {
	h := habitWithStreak(day(2025, 6, 1), 15)

	tests := []struct {
		name string
		date time.Time
		want float64
	}{
		{"first day of streak", day(2025, 6, 1), 1.0 / 30.0},
		{"mid-streak", day(2025, 6, 10), 10.0 / 30.0},
		{"end of streak", day(2025, 6, 15), 15.0 / 30.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompletionIntensity(h, tt.date); got != tt.want {
				t.Errorf("intensity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompletionIntensity_CapsAtThirtyDays(t *testing.T) {
	// A 45-day streak saturates at 1.0, never 1.5.
	h := habitWithStreak(day(2025, 5, 1), 45)
	if got := CompletionIntensity(h, day(2025, 6, 14)); got != 1.0 {
		t.Errorf("intensity for 45-day streak = %v, want 1.0", got)
	}
}

func TestRangeCompletionRate(t *testing.T) {
	h := habitWithStreak(day(2025, 6, 1), 6)

	tests := []struct {
		name       string
		start, end time.Time
		want       float64
	}{
		{"fully completed range", day(2025, 6, 1), day(2025, 6, 6), 1.0},
		{"half completed range", day(2025, 6, 4), day(2025, 6, 9), 0.5},
		{"untouched range", day(2025, 6, 10), day(2025, 6, 19), 0},
		{"single completed day", day(2025, 6, 3), day(2025, 6, 3), 1.0},
		{"inverted range", day(2025, 6, 9), day(2025, 6, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RangeCompletionRate(h, tt.start, tt.end); got != tt.want {
				t.Errorf("RangeCompletionRate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeatmap(t *testing.T) {
	h := habitWithStreak(day(2025, 6, 1), 2)

	cells := Heatmap(h, day(2025, 6, 1), day(2025, 6, 3))
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(cells))
	}

	if cells[0].Date != "2025-06-01" || !cells[0].Completed {
		t.Errorf("unexpected first cell: %+v", cells[0])
	}
	if cells[2].Completed || cells[2].Intensity != 0 {
		t.Errorf("uncompleted cell should be empty: %+v", cells[2])
	}
	if cells[1].Intensity != 2.0/30.0 {
		t.Errorf("second cell intensity = %v, want %v", cells[1].Intensity, 2.0/30.0)
	}
}

func TestHeatmap_InvertedRangeIsEmpty(t *testing.T) {
	h := habitWithStreak(day(2025, 6, 1), 2)
	if cells := Heatmap(h, day(2025, 6, 9), day(2025, 6, 1)); cells != nil {
		t.Errorf("expected nil cells for inverted range, got %d", len(cells))
	}
}
