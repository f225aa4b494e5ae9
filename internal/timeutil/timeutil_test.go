package timeutil

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2025, 6, 15, 18, 42, 3, 500, time.UTC)
	got := StartOfDay(ts)
	want := date(2025, 6, 15)
	if !got.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
}

func TestSameDay(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{"same day different time", time.Date(2025, 6, 15, 1, 0, 0, 0, time.UTC), time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC), true},
		{"adjacent days", date(2025, 6, 15), date(2025, 6, 16), false},
		{"same day different month", date(2025, 6, 15), date(2025, 7, 15), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameDay(tt.a, tt.b); got != tt.want {
				t.Errorf("SameDay(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestDayDiff(t *testing.T) {
	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"same day", date(2025, 6, 15), time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC), 0},
		{"one day forward", date(2025, 6, 15), date(2025, 6, 16), 1},
		{"backwards", date(2025, 6, 16), date(2025, 6, 15), -1},
		{"across month boundary", date(2025, 1, 30), date(2025, 2, 2), 3},
		{"across leap day", date(2024, 2, 28), date(2024, 3, 1), 2},
		{"across non-leap February", date(2025, 2, 28), date(2025, 3, 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayDiff(tt.from, tt.to); got != tt.want {
				t.Errorf("DayDiff(%v, %v) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want int
	}{
		{"January", date(2025, 1, 10), 31},
		{"non-leap February", date(2025, 2, 10), 28},
		{"leap February", date(2024, 2, 10), 29},
		{"April", date(2025, 4, 10), 30},
		{"December", date(2025, 12, 31), 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysInMonth(tt.in); got != tt.want {
				t.Errorf("DaysInMonth(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestWeekday1to7(t *testing.T) {
	// 2025-06-15 is a Sunday.
	sunday := date(2025, 6, 15)
	for offset := 0; offset < 7; offset++ {
		want := offset + 1
		got := Weekday1to7(AddDays(sunday, offset))
		if got != want {
			t.Errorf("Weekday1to7(sunday+%d) = %d, want %d", offset, got, want)
		}
	}
}

func TestStartOfMonth(t *testing.T) {
	got := StartOfMonth(date(2025, 6, 15))
	if !got.Equal(date(2025, 6, 1)) {
		t.Errorf("StartOfMonth() = %v, want %v", got, date(2025, 6, 1))
	}
}

func TestSameMonth(t *testing.T) {
	if !SameMonth(date(2025, 6, 1), date(2025, 6, 30)) {
		t.Error("expected same month for June 1 and June 30")
	}
	if SameMonth(date(2025, 6, 15), date(2024, 6, 15)) {
		t.Error("same month in different years must not match")
	}
}
