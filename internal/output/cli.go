package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/streak"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorSuccess = lipgloss.Color("#10B981")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning)
	styleError   = lipgloss.NewStyle().Foreground(colorError)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleHabit   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleStreak  = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
)

// CLIFormatter adds styled human-facing output on top of a Formatter. When
// color is off every method degrades to the bare text.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter wraps a Formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

// render applies a style only when color is enabled.
func (c *CLIFormatter) render(s lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return s.Render(text)
	}
	return text
}

// Title prints a section title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a checkmarked message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints de-emphasized text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// HabitName styles a habit name for inline use.
func (c *CLIFormatter) HabitName(name string) string {
	return c.render(styleHabit, name)
}

// StreakBadge formats a current-streak figure like "🔥 12".
func (c *CLIFormatter) StreakBadge(current int) string {
	return c.render(styleStreak, fmt.Sprintf("🔥 %d", current))
}

// ProgressBar renders a textual progress bar for a completion percentage
// in [0, 1].
func (c *CLIFormatter) ProgressBar(pct float64, width int) string {
	if width <= 0 {
		width = 20
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	filled := int(pct * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if pct >= 1 {
		return c.render(styleSuccess, bar)
	}
	return c.render(styleMuted, bar)
}

// ScheduleLine renders a habit's schedule with its weekdays ordered for
// display starting at firstDay. Display ordering only; the underlying mask
// is absolute.
func (c *CLIFormatter) ScheduleLine(s model.WeekdaySet, firstDay int) string {
	if s.Count() == 7 {
		return "every day"
	}
	days := s.DaysOrderedFrom(firstDay)
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = model.WeekdayName(d)
	}
	return strings.Join(names, " ")
}

// StreakLine renders a one-line streak summary.
func (c *CLIFormatter) StreakLine(r *streak.Report) string {
	return fmt.Sprintf("%s  best %d  total %d days",
		c.StreakBadge(r.Current), r.Best, r.CompletedTotal)
}
