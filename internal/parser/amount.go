package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AmountResult represents the result of parsing a progress amount.
type AmountResult struct {
	Amount int64
	Valid  bool
}

// durationPattern matches duration expressions like "2h", "30m", "1h30m".
var durationPattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(h|hr|hrs|hour|hours|m|min|mins|minute|minutes|s|sec|secs|second|seconds)\s*(?:(\d+(?:\.\d+)?)\s*(m|min|mins|minute|minutes))?$`)

// ParseAmount parses a progress amount for counter habits. Plain integers
// only; timer habits take durations via ParseDurationSeconds.
func ParseAmount(input string) AmountResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return AmountResult{Valid: false}
	}
	n, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return AmountResult{Valid: false}
	}
	return AmountResult{Amount: n, Valid: true}
}

// ParseDurationSeconds parses a human-readable duration and returns whole
// seconds. Supports formats like:
//   - "2h" or "2 hours"
//   - "30m" or "30 minutes"
//   - "1h30m" or "1 hour 30 minutes"
//   - "90" (bare number, taken as seconds)
func ParseDurationSeconds(input string) AmountResult {
	input = strings.TrimSpace(input)
	if input == "" {
		return AmountResult{Valid: false}
	}

	// Bare numbers are seconds.
	if n, err := strconv.ParseInt(input, 10, 64); err == nil {
		return AmountResult{Amount: n, Valid: true}
	}

	// Standard Go duration format (e.g. "2h30m").
	if d, err := time.ParseDuration(input); err == nil {
		return AmountResult{Amount: int64(d.Seconds()), Valid: true}
	}

	matches := durationPattern.FindStringSubmatch(input)
	if matches == nil {
		return AmountResult{Valid: false}
	}

	var total time.Duration
	if matches[1] != "" {
		value, _ := strconv.ParseFloat(matches[1], 64)
		total += unitToDuration(value, strings.ToLower(matches[2]))
	}
	if matches[3] != "" {
		value, _ := strconv.ParseFloat(matches[3], 64)
		total += unitToDuration(value, strings.ToLower(matches[4]))
	}
	if total == 0 {
		return AmountResult{Valid: false}
	}

	return AmountResult{Amount: int64(total.Seconds()), Valid: true}
}

// unitToDuration converts a value and unit to a duration.
func unitToDuration(value float64, unit string) time.Duration {
	switch unit {
	case "h", "hr", "hrs", "hour", "hours":
		return time.Duration(value * float64(time.Hour))
	case "m", "min", "mins", "minute", "minutes":
		return time.Duration(value * float64(time.Minute))
	case "s", "sec", "secs", "second", "seconds":
		return time.Duration(value * float64(time.Second))
	default:
		return 0
	}
}
