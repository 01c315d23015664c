package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/output"
	"github.com/hatamisg/rutin/internal/snapshot"
)

// HabitListComponent renders the day's habits with progress and streaks.
type HabitListComponent struct {
	habits []snapshot.HabitView
	now    time.Time
	width  int
}

// NewHabitListComponent creates a habit list component.
func NewHabitListComponent(habits []snapshot.HabitView, now time.Time, width int) *HabitListComponent {
	return &HabitListComponent{habits: habits, now: now, width: width}
}

// View renders the habit list.
func (c *HabitListComponent) View() string {
	if len(c.habits) == 0 {
		return StyleHabitBox.Render(StyleIdle.Render("No habits yet. Add one with 'rutin habit add'."))
	}

	var lines []string
	for _, h := range c.habits {
		lines = append(lines, c.renderHabit(h))
	}
	return StyleHabitBox.Render(strings.Join(lines, "\n"))
}

// renderHabit renders one habit row: name, bar, progress, streak, status.
func (c *HabitListComponent) renderHabit(h snapshot.HabitView) string {
	name := StyleHabit.Render(padRight(h.Name, 20))

	// A running timer shows live progress: checkpoint base plus elapsed wall
	// clock, recomputed every tick.
	progress := h.Progress
	live := false
	if h.Checkpoint != nil {
		progress = h.Checkpoint.Displayed(c.now)
		live = h.Checkpoint.Running
	}

	pct := h.Percentage
	if h.Goal > 0 {
		pct = float64(progress) / float64(h.Goal)
		if pct > 1 {
			pct = 1
		}
	}
	bar := ProgressBar(pct*100, 16)

	var value string
	if h.Kind == model.KindTimer {
		value = fmt.Sprintf("%s / %s", output.FormatSeconds(progress), output.FormatSeconds(h.Goal))
	} else {
		value = fmt.Sprintf("%d / %d", progress, h.Goal)
	}
	valueStr := StyleProgress.Render(padRight(value, 18))

	streakStr := ""
	if h.Streak != nil && h.Streak.Current > 0 {
		streakStr = StyleStreak.Render(fmt.Sprintf("\U0001F525 %d", h.Streak.Current))
	}

	status := ""
	switch {
	case live:
		status = StyleRunning.Render("▶ running")
	case !h.Due:
		status = StyleIdle.Render("not due today")
	case h.Exceeded:
		status = StyleDone.Render("✔ exceeded")
	case h.Completed:
		status = StyleDone.Render("✔ done")
	}

	return fmt.Sprintf("%s %s %s %s %s", name, bar, valueStr, padRight(streakStr, 8), status)
}

// padRight pads s with spaces to at least width visible columns.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
