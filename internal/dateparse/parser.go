// Package dateparse turns free-text user input into a calendar date with a
// confidence score. Parsing never fails with an error: every outcome is a
// first-class Result value.
package dateparse

import (
	"strconv"
	"strings"
	"time"

	"habitflow/internal/timeutil"
)

type Status int

const (
	StatusSuccess Status = iota
	StatusAmbiguous
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusAmbiguous:
		return "ambiguous"
	default:
		return "failed"
	}
}

// Result is a tagged union over the three parse outcomes. Only the fields
// of the active variant are meaningful. No current strategy emits
// StatusAmbiguous; callers that see one should take the first candidate.
type Result struct {
	Status      Status      `json:"status"`
	Date        time.Time   `json:"date,omitempty"`
	Confidence  float64     `json:"confidence,omitempty"`
	Candidates  []time.Time `json:"candidates,omitempty"`
	Suggestions []string    `json:"suggestions,omitempty"`
	Reason      string      `json:"reason,omitempty"`
}

func success(date time.Time, confidence float64) Result {
	return Result{Status: StatusSuccess, Date: date, Confidence: confidence}
}

func failed(reason string) Result {
	return Result{Status: StatusFailed, Reason: reason}
}

// Parser resolves relative phrases against an injectable clock.
type Parser struct {
	now func() time.Time
}

func New() *Parser {
	return &Parser{now: time.Now}
}

// NewWithClock builds a parser with a fixed clock, used by tests and by
// anything that needs "today" pinned.
func NewWithClock(now func() time.Time) *Parser {
	return &Parser{now: now}
}

var weekdays = map[string]int{
	"sunday": 1, "sun": 1,
	"monday": 2, "mon": 2,
	"tuesday": 3, "tue": 3, "tues": 3,
	"wednesday": 4, "wed": 4,
	"thursday": 5, "thu": 5, "thur": 5, "thurs": 5,
	"friday": 6, "fri": 6,
	"saturday": 7, "sat": 7,
}

// Parse runs the strategy chain in strict priority order; the first match
// wins. Confidence tiers: exact relative phrases 0.9, explicit dates 0.8,
// bare weekday mentions 0.7.
func (p *Parser) Parse(text string) Result {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return failed("Empty input")
	}
	now := p.now()

	switch text {
	case "today":
		return success(timeutil.StartOfDay(now), 0.9)
	case "tomorrow":
		return success(timeutil.AddDays(timeutil.StartOfDay(now), 1), 0.9)
	case "yesterday":
		return success(timeutil.AddDays(timeutil.StartOfDay(now), -1), 0.9)
	case "next week":
		// Relative to the current instant, not start of day.
		return success(timeutil.AddWeeks(now, 1), 0.9)
	case "next month":
		return success(timeutil.AddMonths(now, 1), 0.9)
	}

	if date, ok := parseOffset(text, now); ok {
		return success(date, 0.9)
	}

	if rest, found := strings.CutPrefix(text, "next "); found {
		if wd, ok := weekdays[strings.TrimSpace(rest)]; ok {
			return success(nextWeekday(now, wd), 0.9)
		}
	}

	if date, ok := parseExplicit(text, now); ok {
		return success(date, 0.8)
	}

	for _, token := range strings.Fields(text) {
		if wd, ok := weekdays[strings.Trim(token, ",.!?")]; ok {
			return success(nextWeekday(now, wd), 0.7)
		}
	}

	return failed("Could not parse date")
}

// parseOffset matches "in <N> day(s)/week(s)/month(s)". The unit only has
// to start with day/week/month, so "in 3 wks" does not match but "in 3
// weeks" and "in 1 week" both do.
func parseOffset(text string, now time.Time) (time.Time, bool) {
	fields := strings.Fields(text)
	if len(fields) != 3 || fields[0] != "in" {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return time.Time{}, false
	}
	switch {
	case strings.HasPrefix(fields[2], "day"):
		return timeutil.AddDays(now, n), true
	case strings.HasPrefix(fields[2], "week"):
		return timeutil.AddWeeks(now, n), true
	case strings.HasPrefix(fields[2], "month"):
		return timeutil.AddMonths(now, n), true
	}
	return time.Time{}, false
}

// explicitLayouts are tried in order against the title-cased input. Layouts
// without a year resolve to the current year.
var explicitLayouts = []string{
	"2006-01-02",
	"January 2 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"1/2/2006",
	"1/2/06",
	"January 2",
	"Jan 2",
	"2 January",
	"1/2",
}

// parseExplicit is the stand-in for a platform date recognizer: it tries a
// fixed set of common date layouts.
func parseExplicit(text string, now time.Time) (time.Time, bool) {
	candidate := capitalizeWords(text)
	for _, layout := range explicitLayouts {
		parsed, err := time.Parse(layout, candidate)
		if err != nil {
			continue
		}
		year := parsed.Year()
		if year == 0 {
			year = now.Year()
		}
		return time.Date(year, parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location()), true
	}
	return time.Time{}, false
}

// nextWeekday returns the start of the next occurrence of target (1..7,
// Sunday = 1) strictly after today. Today being the target weekday advances
// a full week.
func nextWeekday(now time.Time, target int) time.Time {
	current := timeutil.Weekday1to7(now)
	delta := target - current
	if delta <= 0 {
		delta += 7
	}
	return timeutil.AddDays(timeutil.StartOfDay(now), delta)
}

// capitalizeWords upper-cases the first letter of each word so lowercased
// month names satisfy time.Parse's reference layouts.
func capitalizeWords(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = strings.ToUpper(f[:1]) + f[1:]
	}
	return strings.Join(fields, " ")
}
