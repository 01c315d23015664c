package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hatamisg/rutin/internal/output"
)

// Today command flags.
var todayFlagDay string

// todayCmd represents the today command.
var todayCmd = &cobra.Command{
	Use:     "today",
	Aliases: []string{"t", "td"},
	Short:   "Show today's habits and progress",
	Long: `Display every habit due today with its progress, plus running timers.
Habits not due today are listed separately.

Examples:
  rutin today
  rutin today --day yesterday`,
	RunE: runToday,
}

func init() {
	todayCmd.Flags().StringVar(&todayFlagDay, "day", "", "Day to show (default today)")
	rootCmd.AddCommand(todayCmd)
}

func runToday(cmd *cobra.Command, args []string) error {
	day, err := resolveDay(todayFlagDay)
	if err != nil {
		return err
	}
	dayStart := ctx.Calendar.StartOfDay(day)

	habits, err := ctx.HabitRepo.List()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		out := make([]*output.DayProgressOutput, 0, len(habits))
		for _, h := range habits {
			progress, err := ctx.Aggregator.ForDay(h.SID, day)
			if err != nil {
				return err
			}
			pct, err := ctx.Aggregator.Percentage(h, day)
			if err != nil {
				return err
			}
			completed, err := ctx.Aggregator.Completed(h, day)
			if err != nil {
				return err
			}
			exceeded, err := ctx.Aggregator.Exceeded(h, day)
			if err != nil {
				return err
			}
			out = append(out, &output.DayProgressOutput{
				Habit:      output.NewHabitOutput(h),
				Day:        output.FormatDay(dayStart),
				Due:        ctx.Resolver.IsDue(h, day),
				Progress:   progress,
				Percentage: pct,
				Completed:  completed,
				Exceeded:   exceeded,
			})
		}
		return ctx.Formatter.JSON(out)
	}

	cli := ctx.CLIFormatter()
	cli.Title(fmt.Sprintf("Habits for %s", output.FormatDay(dayStart)))
	ctx.Formatter.Println("")

	if len(habits) == 0 {
		cli.Muted("No habits yet. Create one with: rutin habit add NAME")
		return nil
	}

	var offToday []string
	for _, h := range habits {
		if !ctx.Resolver.IsDue(h, day) {
			offToday = append(offToday, h.Name)
			continue
		}

		progress, err := ctx.Aggregator.ForDay(h.SID, day)
		if err != nil {
			return err
		}
		pct, err := ctx.Aggregator.Percentage(h, day)
		if err != nil {
			return err
		}
		report, err := ctx.Analyzer.ReportFor(h, day, ctx.Calendar.Now().Hour())
		if err != nil {
			return err
		}

		// A running timer shows its live value, not just committed progress.
		cp, displayed, err := ctx.Reconciler.Status(h.SID)
		if err != nil {
			return err
		}
		status := ""
		if cp != nil && cp.Running {
			progress = displayed
			pct, err = percentageOf(h.Goal, displayed)
			if err != nil {
				return err
			}
			status = " ▶"
		}

		ctx.Formatter.Printf("  %s %s %s %s%s\n",
			cli.HabitName(h.Name),
			cli.ProgressBar(pct, 20),
			formatProgress(h, progress),
			cli.StreakBadge(report.Current),
			status)
	}

	if len(offToday) > 0 {
		ctx.Formatter.Println("")
		cli.Muted(fmt.Sprintf("Not due: %s", strings.Join(offToday, ", ")))
	}
	return nil
}

// percentageOf computes a completion fraction for an uncommitted live value.
func percentageOf(goal, value int64) (float64, error) {
	if goal <= 0 {
		if value > 0 {
			return 1.0, nil
		}
		return 0.0, nil
	}
	pct := float64(value) / float64(goal)
	if pct > 1.0 {
		pct = 1.0
	}
	return pct, nil
}
