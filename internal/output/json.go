package output

import (
	"time"

	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/streak"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// HabitOutput represents a habit in JSON output.
type HabitOutput struct {
	SID       string `json:"sid"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Goal      int64  `json:"goal"`
	Schedule  string `json:"schedule"`
	StartDate string `json:"start_date"`
}

// NewHabitOutput creates a HabitOutput from a Habit.
func NewHabitOutput(h *model.Habit) *HabitOutput {
	return &HabitOutput{
		SID:       h.SID,
		Name:      h.Name,
		Kind:      string(h.Kind),
		Goal:      h.Goal,
		Schedule:  h.Schedule.String(),
		StartDate: h.StartDate.Format("2006-01-02"),
	}
}

// DayProgressOutput represents one day's progress in JSON output.
type DayProgressOutput struct {
	Habit      *HabitOutput `json:"habit"`
	Day        string       `json:"day"`
	Due        bool         `json:"due"`
	Progress   int64        `json:"progress"`
	Percentage float64      `json:"percentage"`
	Completed  bool         `json:"completed"`
	Exceeded   bool         `json:"exceeded"`
}

// StreakOutput represents a streak report in JSON output.
type StreakOutput struct {
	Habit  *HabitOutput   `json:"habit"`
	AsOf   string         `json:"as_of"`
	Streak *streak.Report `json:"streak"`
}

// TimerOutput represents timer status in JSON output.
type TimerOutput struct {
	HabitSID  string `json:"habit_sid"`
	State     string `json:"state"`
	Displayed int64  `json:"displayed_seconds"`
	StartedAt string `json:"started_at,omitempty"`
}

// NewTimerOutput creates a TimerOutput from a checkpoint and displayed value.
func NewTimerOutput(habitSID string, cp *model.Checkpoint, displayed int64) *TimerOutput {
	out := &TimerOutput{
		HabitSID:  habitSID,
		State:     "idle",
		Displayed: displayed,
	}
	if cp != nil {
		if cp.Running {
			out.State = "running"
		} else {
			out.State = "paused"
		}
		if cp.StartedAt != nil {
			out.StartedAt = cp.StartedAt.Format(time.RFC3339)
		}
	}
	return out
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PrintError emits a JSON error response.
func (j *JSONFormatter) PrintError(code, message, detail string) error {
	return j.JSON(&ErrorResponse{
		Status:  "error",
		Error:   code,
		Message: firstNonEmpty(detail, message),
	})
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
