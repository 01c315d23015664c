package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hatamisg/rutin/internal/snapshot"
)

type tickMsg time.Time

type errMsg struct{ err error }

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	Builder         *snapshot.Builder
	RefreshInterval time.Duration
}

// DashboardModel is the bubbletea model for the watch dashboard. Every tick
// it rebuilds the habit views, so running timers and the midnight boundary
// are never stale for longer than one refresh interval.
type DashboardModel struct {
	builder  *snapshot.Builder
	interval time.Duration

	snap   *snapshot.Snapshot
	width  int
	height int
	err    error

	flash    string
	flashExp time.Time
}

// NewDashboardModel creates a dashboard model.
func NewDashboardModel(config DashboardConfig) *DashboardModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	return &DashboardModel{
		builder:  config.Builder,
		interval: config.RefreshInterval,
	}
}

// Run starts the watch dashboard TUI.
func Run(config DashboardConfig) error {
	p := tea.NewProgram(NewDashboardModel(config), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *DashboardModel) Init() tea.Cmd {
	m.rebuild()
	return m.tick()
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.rebuild()
			m.setFlash("Refreshed", time.Second)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if !m.flashExp.IsZero() && time.Now().After(m.flashExp) {
			m.flash = ""
			m.flashExp = time.Time{}
		}
		m.rebuild()
		return m, m.tick()

	case errMsg:
		m.err = msg.err
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{m.renderHeader()}
	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.flash != "" {
		sections = append(sections, StyleWarning.Render(m.flash))
	}

	var habits []snapshot.HabitView
	if m.snap != nil {
		habits = m.snap.Habits
	}
	sections = append(sections,
		NewHabitListComponent(habits, time.Now(), m.width).View(),
		HelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *DashboardModel) renderHeader() string {
	title := StyleTitle.Render("Rutin")
	clock := StyleSubtitle.Render(time.Now().Format("Mon Jan 2, 15:04:05"))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", clock) + "\n"
}

func (m *DashboardModel) rebuild() {
	snap, err := m.builder.Build()
	if err != nil {
		m.err = err
		return
	}
	m.snap = snap
	m.err = nil
}

func (m *DashboardModel) setFlash(msg string, d time.Duration) {
	m.flash = msg
	m.flashExp = time.Now().Add(d)
}

func (m *DashboardModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
