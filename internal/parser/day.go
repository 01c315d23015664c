package parser

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"

	"github.com/hatamisg/rutin/internal/calendar"
)

// DayResult holds the parsed day (floored to local midnight) and any error.
type DayResult struct {
	Day   time.Time
	Error error
}

// ParseDay parses a natural language day expression and floors it to the
// start of that day on the given calendar. Empty input and "today" both
// resolve to the current day.
//
// Supports expressions like:
//   - "today", "yesterday", "tomorrow"
//   - "last monday", "3 days ago"
//   - "2026-08-15", "aug 15"
func ParseDay(cal calendar.Calendar, input string) DayResult {
	input = strings.TrimSpace(input)
	now := cal.Now()

	switch strings.ToLower(input) {
	case "", "today", "now":
		return DayResult{Day: cal.StartOfDay(now)}
	case "yesterday":
		return DayResult{Day: cal.AddDays(cal.StartOfDay(now), -1)}
	case "tomorrow":
		return DayResult{Day: cal.AddDays(cal.StartOfDay(now), 1)}
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return DayResult{Error: NewDayError(input)}
	}

	return DayResult{Day: cal.StartOfDay(result.Time)}
}

// DayKeyOf parses a day expression and returns its storage key.
func DayKeyOf(cal calendar.Calendar, input string) (string, error) {
	result := ParseDay(cal, input)
	if result.Error != nil {
		return "", result.Error
	}
	return calendar.DayKey(result.Day), nil
}
