// Package validate provides input validation helpers for the Rutin CLI.
// Validation happens before any mutation: a rejected call leaves the prior
// persisted state untouched.
package validate

import (
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
)

const (
	// MaxSIDLength is the maximum length for a habit SID.
	MaxSIDLength = 32
	// MaxNameLength is the maximum length for a habit name.
	MaxNameLength = 128
	// MaxURLLength is the maximum length for a webhook URL.
	MaxURLLength = 2048
	// MaxGoal is the largest accepted per-day goal value.
	MaxGoal = 1_000_000_000
)

// sidRegex validates habit SIDs (alphanumeric, dashes, underscores, periods).
var sidRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// SID validates a habit identifier.
func SID(sid string) error {
	if sid == "" {
		return errors.NewUserError("habit SID cannot be empty", "Provide a valid identifier")
	}
	if len(sid) > MaxSIDLength {
		return errors.NewUserErrorWithField("sid", sid,
			"habit SID too long",
			"SIDs must be 32 characters or fewer")
	}
	if !sidRegex.MatchString(sid) {
		return errors.NewUserErrorWithField("sid", sid,
			"invalid SID format",
			"SIDs must start with a letter or number and contain only letters, numbers, dashes, underscores, or periods")
	}
	return nil
}

// Name validates a habit display name.
func Name(name string) error {
	if name == "" {
		return errors.NewUserError("habit name cannot be empty", "Provide a habit name")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.NewUserErrorWithField("name", name,
			"habit name too long",
			"Names must be 128 characters or fewer")
	}
	return nil
}

// Goal validates a per-day goal value. Goals must be strictly positive; the
// degenerate goal<=0 policy in percentage computation covers legacy data,
// not new input.
func Goal(goal int64) error {
	if goal <= 0 {
		return errors.ErrInvalidGoal
	}
	if goal > MaxGoal {
		return errors.NewUserError("goal too large", "Goals must be 1,000,000,000 or less")
	}
	return nil
}

// Schedule validates a weekday set. The engine rejects an empty mask
// outright; the UI is expected to prevent deselecting all days, and this is
// the backstop when it does not.
func Schedule(s model.WeekdaySet) error {
	if s.IsEmpty() {
		return errors.ErrEmptySchedule
	}
	return nil
}

// Day validates that a time value is at day granularity (local midnight).
func Day(t time.Time) error {
	if !calendar.IsMidnight(t) {
		return errors.ErrNotMidnightAligned
	}
	return nil
}

// Amount validates a progress amount for Set operations.
func Amount(v int64) error {
	if v < 0 {
		return errors.ErrNegativeAmount
	}
	return nil
}

// Weekday validates an absolute weekday number.
func Weekday(d int) error {
	if d < calendar.Sunday || d > calendar.Saturday {
		return errors.ErrInvalidWeekday
	}
	return nil
}

// URL validates a webhook URL.
func URL(raw string) error {
	if raw == "" {
		return errors.NewUserError("URL cannot be empty", "Provide a webhook URL")
	}
	if len(raw) > MaxURLLength {
		return errors.NewUserError("URL too long", "URLs must be 2048 characters or fewer")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.NewUserErrorWithField("url", raw, "invalid URL", "Provide a valid http(s) URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NewUserErrorWithField("url", raw,
			"unsupported URL scheme",
			"Webhook URLs must use http or https")
	}
	if strings.TrimSpace(u.Host) == "" {
		return errors.NewUserErrorWithField("url", raw, "URL missing host", "Provide a complete URL")
	}
	return nil
}
