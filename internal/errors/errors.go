// Package errors provides consistent error types for the Rutin CLI. Errors
// fall into two camps: UserError (the input was wrong, the user can fix it)
// and SystemError (storage or environment failure outside the user's
// control). Sentinels cover the conditions commands branch on.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrHabitNotFound       = errors.New("habit not found")
	ErrHabitExists         = errors.New("habit already exists")
	ErrEmptySchedule       = errors.New("schedule must contain at least one weekday")
	ErrInvalidGoal         = errors.New("goal must be greater than zero")
	ErrNegativeAmount      = errors.New("amount cannot be negative")
	ErrNotMidnightAligned  = errors.New("date must be at day granularity")
	ErrTimerAlreadyRunning = errors.New("timer is already running")
	ErrTimerNotRunning     = errors.New("timer is not running")
	ErrCheckpointNotFound  = errors.New("no timer checkpoint for habit")
	ErrWebhookNotFound     = errors.New("webhook not found")
	ErrInvalidWeekday      = errors.New("invalid weekday")
	ErrInvalidURL          = errors.New("invalid URL")
	ErrDatabaseCorrupted   = errors.New("database corrupted")
	ErrDiskFull            = errors.New("disk full")
)

// UserError is an error the user can fix: bad input, wrong format, a value
// out of range. It carries a suggestion the CLI shows next to the message.
type UserError struct {
	Message    string
	Suggestion string
	Field      string
	Value      string
}

// NewUserError creates a UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion}
}

// NewUserErrorWithField creates a UserError naming the offending input.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion, Field: field, Value: value}
}

func (e *UserError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return e.Message
}

// SystemError is a failure the user cannot directly fix: disk full, database
// corruption, a snapshot write that didn't land.
type SystemError struct {
	Message string
	Cause   error
	Op      string
}

// NewSystemError creates a SystemError.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{Message: message, Cause: cause}
}

// NewSystemErrorWithOp creates a SystemError naming the failed operation.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{Message: message, Cause: cause, Op: op}
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// IsUserError reports whether err is (or wraps) a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// IsSystemError reports whether err is (or wraps) a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// Suggestion extracts the suggestion from an error, if any.
func Suggestion(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Suggestion
	}
	return ""
}

// Re-export standard helpers so callers need a single errors import.

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func New(text string) error {
	return errors.New(text)
}
