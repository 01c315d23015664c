package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hatamisg/rutin/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "watch", "tui"},
	Short:   "Open the interactive TUI dashboard",
	Long: `Open an interactive terminal dashboard showing every habit's progress,
streaks, and running timers, updating live every second.

Keyboard Controls:
  r - Refresh data
  q - Quit dashboard

Examples:
  rutin dashboard
  rutin watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(tui.DashboardConfig{Builder: ctx.Builder})
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
