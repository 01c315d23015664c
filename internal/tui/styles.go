// Package tui provides the terminal user interface components for Rutin.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSecondary = lipgloss.Color("#10B981")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorError     = lipgloss.Color("#EF4444")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorActive    = lipgloss.Color("#3B82F6")
	ColorBorder    = lipgloss.Color("#4B5563")
)

var (
	StyleTitle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).MarginBottom(1)
	StyleSubtitle = lipgloss.NewStyle().Foreground(ColorMuted)

	// Habit rows.
	StyleHabit    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	StyleStreak   = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	StyleProgress = lipgloss.NewStyle().Bold(true).Foreground(ColorActive)
	StyleDone     = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	StyleIdle     = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleRunning  = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)

	// Status lines.
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)

	// Help bar.
	StyleHelp     = lipgloss.NewStyle().Foreground(ColorMuted).MarginTop(1)
	StyleHelpKey  = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)
	StyleHelpDesc = lipgloss.NewStyle().Foreground(ColorMuted)

	// Boxes.
	StyleHabitBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			MarginBottom(1)
	StyleTimerBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSuccess).
			Padding(1, 2).
			MarginBottom(1)
)

var (
	barFilled = lipgloss.NewStyle().Foreground(ColorSuccess)
	barEmpty  = lipgloss.NewStyle().Foreground(ColorMuted)
)

// ProgressBar renders a percentage (0..100) as a colored block bar.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}
	filled := int(float64(width) * percentage / 100)

	return barFilled.Render(strings.Repeat("█", filled)) +
		barEmpty.Render(strings.Repeat("░", width-filled))
}

// HelpBar renders the keyboard shortcut help line.
func HelpBar() string {
	shortcuts := []struct{ key, desc string }{
		{"r", "refresh"},
		{"q", "quit"},
	}

	var b strings.Builder
	for i, s := range shortcuts {
		if i > 0 {
			b.WriteString(StyleHelpDesc.Render("  •  "))
		}
		b.WriteString(StyleHelpKey.Render(s.key))
		b.WriteString(StyleHelpDesc.Render(" " + s.desc))
	}
	return StyleHelp.Render(b.String())
}
