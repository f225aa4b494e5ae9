package dateparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Parsing is pinned to Sunday 2025-06-15 10:30 so relative phrases are
// deterministic.
var now = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func newParser() *Parser {
	return NewWithClock(func() time.Time { return now })
}

func startOfToday() time.Time {
	return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
}

func TestParse_EmptyInput(t *testing.T) {
	result := newParser().Parse("   ")
	require.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, "Empty input", result.Reason)
}

func TestParse_RelativeKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"today", startOfToday()},
		{"tomorrow", startOfToday().AddDate(0, 0, 1)},
		{"yesterday", startOfToday().AddDate(0, 0, -1)},
		// "next week"/"next month" are relative to the instant, not midnight.
		{"next week", now.AddDate(0, 0, 7)},
		{"next month", now.AddDate(0, 1, 0)},
	}

	p := newParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := p.Parse(tt.input)
			require.Equal(t, StatusSuccess, result.Status)
			assert.True(t, result.Date.Equal(tt.want), "got %v, want %v", result.Date, tt.want)
			assert.Equal(t, 0.9, result.Confidence)
		})
	}
}

func TestParse_KeywordsAreCaseAndSpaceInsensitive(t *testing.T) {
	result := newParser().Parse("  ToMoRRoW  ")
	require.Equal(t, StatusSuccess, result.Status)
	assert.True(t, result.Date.Equal(startOfToday().AddDate(0, 0, 1)))
}

func TestParse_OffsetPattern(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"in 3 days", now.AddDate(0, 0, 3)},
		{"in 1 day", now.AddDate(0, 0, 1)},
		{"in 3 weeks", now.AddDate(0, 0, 21)},
		{"in 2 months", now.AddDate(0, 2, 0)},
	}

	p := newParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := p.Parse(tt.input)
			require.Equal(t, StatusSuccess, result.Status)
			assert.True(t, result.Date.Equal(tt.want), "got %v, want %v", result.Date, tt.want)
			assert.Equal(t, 0.9, result.Confidence)
		})
	}
}

func TestParse_OffsetPatternRejectsMalformed(t *testing.T) {
	p := newParser()
	for _, input := range []string{"in three days", "in 3", "in 3 fortnights"} {
		t.Run(input, func(t *testing.T) {
			result := p.Parse(input)
			assert.Equal(t, StatusFailed, result.Status)
		})
	}
}

func TestParse_NextWeekday(t *testing.T) {
	p := newParser()

	// Today is Sunday; next monday is tomorrow.
	result := p.Parse("next monday")
	require.Equal(t, StatusSuccess, result.Status)
	assert.True(t, result.Date.Equal(startOfToday().AddDate(0, 0, 1)))
	assert.Equal(t, 0.9, result.Confidence)

	// The same weekday advances a full week.
	result = p.Parse("next sunday")
	require.Equal(t, StatusSuccess, result.Status)
	assert.True(t, result.Date.Equal(startOfToday().AddDate(0, 0, 7)))
}

func TestParse_ExplicitDates(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"march 3", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"3/14", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"2025-12-24", time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)},
		{"january 2, 2026", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"jul 4 2026", time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)},
	}

	p := newParser()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := p.Parse(tt.input)
			require.Equal(t, StatusSuccess, result.Status)
			assert.True(t, result.Date.Equal(tt.want), "got %v, want %v", result.Date, tt.want)
			assert.Equal(t, 0.8, result.Confidence)
		})
	}
}

func TestParse_BareWeekdayMention(t *testing.T) {
	result := newParser().Parse("dentist on friday")
	require.Equal(t, StatusSuccess, result.Status)
	// Friday after Sunday 06-15 is 06-20.
	assert.True(t, result.Date.Equal(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0.7, result.Confidence)
}

func TestParse_NextWeekdayBeatsBareMention(t *testing.T) {
	// The "next <weekday>" strategy outranks the bare mention tier.
	result := newParser().Parse("next friday")
	require.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestParse_Unparseable(t *testing.T) {
	result := newParser().Parse("the heat death of the universe")
	require.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, "Could not parse date", result.Reason)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "ambiguous", StatusAmbiguous.String())
	assert.Equal(t, "failed", StatusFailed.String())
}
