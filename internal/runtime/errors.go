package runtime

import (
	stderrors "errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/hatamisg/rutin/internal/errors"
)

// Suggestions maps known errors to a next step the user can take.
var Suggestions = map[error]string{
	errors.ErrHabitNotFound:       "Use 'rutin habit list' to see available habits.",
	errors.ErrHabitExists:         "Pick a different name, or edit the existing habit with 'rutin habit edit'.",
	errors.ErrEmptySchedule:       "A habit must be due on at least one weekday. Try --days daily or --days mon,wed,fri.",
	errors.ErrInvalidGoal:         "Goals must be positive whole numbers.",
	errors.ErrNegativeAmount:      "Progress amounts cannot be negative.",
	errors.ErrTimerAlreadyRunning: "Pause or stop the running timer first with 'rutin timer pause' or 'rutin timer stop'.",
	errors.ErrTimerNotRunning:     "Start a timer with 'rutin timer start <habit>'.",
	errors.ErrWebhookNotFound:     "Use 'rutin webhook list' to see configured webhooks.",
	errors.ErrInvalidWeekday:      "Weekdays are sun, mon, tue, wed, thu, fri, sat.",
	errors.ErrDiskFull:            "Free up disk space and try again. Your data is unchanged.",
}

// GetSuggestion returns a suggestion for an error, if one is known.
func GetSuggestion(err error) string {
	if s := errors.Suggestion(err); s != "" {
		return s
	}
	for known, suggestion := range Suggestions {
		if stderrors.Is(err, known) {
			return suggestion
		}
	}
	return ""
}

// FormatError renders an error with its suggestion, when available.
func FormatError(err error) string {
	msg := err.Error()
	if s := GetSuggestion(err); s != "" {
		msg += "\n" + s
	}
	return msg
}

// DiskFullError carries the operation and path of a failed write so the
// user sees what ran out of space, not just that something did.
type DiskFullError struct {
	Op      string
	Path    string
	wrapped error
}

// NewDiskFullError creates a DiskFullError.
func NewDiskFullError(op, path string, err error) *DiskFullError {
	return &DiskFullError{Op: op, Path: path, wrapped: err}
}

func (e *DiskFullError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("disk full during %s on %s: %v", e.Op, e.Path, e.wrapped)
	}
	return fmt.Sprintf("disk full during %s: %v", e.Op, e.wrapped)
}

func (e *DiskFullError) Unwrap() error {
	return errors.ErrDiskFull
}

// diskFullPatterns covers the error strings filesystems and libraries
// produce when out of space, for errors that lose their errno on the way up.
var diskFullPatterns = []string{
	"no space left on device",
	"disk full",
	"enospc",
	"not enough space",
	"insufficient disk space",
	"out of disk space",
}

// IsDiskFullError reports whether err indicates an out-of-space condition,
// via typed errors, ENOSPC, or message patterns.
func IsDiskFullError(err error) bool {
	if err == nil {
		return false
	}

	var dfe *DiskFullError
	if stderrors.As(err, &dfe) || stderrors.Is(err, errors.ErrDiskFull) {
		return true
	}
	var errno syscall.Errno
	if stderrors.As(err, &errno) && errno == syscall.ENOSPC {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range diskFullPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// WrapDiskFullError converts disk-full errors into DiskFullError with
// context; other errors pass through unchanged.
func WrapDiskFullError(err error, op, path string) error {
	if err != nil && IsDiskFullError(err) {
		return NewDiskFullError(op, path, err)
	}
	return err
}
