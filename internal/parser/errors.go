package parser

import (
	"fmt"
	"strings"

	"github.com/hatamisg/rutin/internal/errors"
)

// ParseError is a parse failure that carries enough context to show the
// user what valid input looks like.
type ParseError struct {
	Input      string
	Field      string
	Message    string
	Examples   []string
	Suggestion string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

// FormatWithExamples renders the error followed by example inputs and the
// suggestion line.
func (e *ParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())
	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			fmt.Fprintf(&sb, "  - %s\n", ex)
		}
	}
	if e.Suggestion != "" {
		sb.WriteString("\n" + e.Suggestion)
	}
	return sb.String()
}

// ToUserError converts e for the CLI's uniform error rendering. When no
// suggestion was set, the first few examples stand in for one.
func (e *ParseError) ToUserError() *errors.UserError {
	suggestion := e.Suggestion
	if suggestion == "" && len(e.Examples) > 0 {
		n := min(len(e.Examples), 3)
		suggestion = "Try: " + strings.Join(e.Examples[:n], ", ")
	}
	return errors.NewUserErrorWithField(e.Field, e.Input, e.Message, suggestion)
}

// DayExamples are shown when a day expression fails to parse.
var DayExamples = []string{
	"today",
	"yesterday",
	"last monday",
	"3 days ago",
	"2026-08-15",
}

// DurationExamples are shown when a duration fails to parse.
var DurationExamples = []string{
	"1h30m",
	"90m",
	"2 hours",
	"30 minutes",
	"600",
}

func NewDayError(input string) *ParseError {
	return &ParseError{
		Input:      input,
		Field:      "day",
		Message:    "could not parse day",
		Examples:   DayExamples,
		Suggestion: "Days can be natural language ('yesterday', 'last monday') or dates ('2026-08-15').",
	}
}

func NewDurationError(input string) *ParseError {
	return &ParseError{
		Input:      input,
		Field:      "duration",
		Message:    "could not parse duration",
		Examples:   DurationExamples,
		Suggestion: "Durations can be hours (h), minutes (m), seconds (s), or a bare number of seconds.",
	}
}

func NewAmountError(input string) *ParseError {
	return &ParseError{
		Input:      input,
		Field:      "amount",
		Message:    "could not parse amount",
		Examples:   []string{"1", "8", "2500"},
		Suggestion: "Amounts are whole numbers in the habit's unit.",
	}
}
