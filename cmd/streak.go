package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/output"
)

// streakCmd represents the streak command.
var streakCmd = &cobra.Command{
	Use:     "streak [HABIT]",
	Aliases: []string{"streaks", "st"},
	Short:   "Show streaks",
	Long: `Show the current and best streak for one habit, or for all habits.

A streak counts consecutive due days whose goal was reached; off-schedule
days never break it. Until late evening an unmet day is treated as still
open, so the streak does not drop to zero before the day is over.

Examples:
  rutin streak
  rutin streak morning-run`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeHabits,
	RunE:              runStreak,
}

func init() {
	rootCmd.AddCommand(streakCmd)
}

func runStreak(cmd *cobra.Command, args []string) error {
	now := ctx.Calendar.Now()

	if len(args) > 0 {
		habit, err := ctx.HabitRepo.Get(args[0])
		if err != nil {
			return err
		}
		return printStreak(habit)
	}

	habits, err := ctx.HabitRepo.List()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		out := make([]*output.StreakOutput, 0, len(habits))
		for _, h := range habits {
			report, err := ctx.Analyzer.ReportFor(h, now, now.Hour())
			if err != nil {
				return err
			}
			out = append(out, &output.StreakOutput{
				Habit:  output.NewHabitOutput(h),
				AsOf:   output.FormatDay(ctx.Calendar.StartOfDay(now)),
				Streak: report,
			})
		}
		return ctx.Formatter.JSON(out)
	}

	cli := ctx.CLIFormatter()
	if len(habits) == 0 {
		cli.Muted("No habits yet.")
		return nil
	}

	cli.Title("Streaks")
	for _, h := range habits {
		report, err := ctx.Analyzer.ReportFor(h, now, now.Hour())
		if err != nil {
			return err
		}
		ctx.Formatter.Printf("  %s %s\n", cli.HabitName(h.Name), cli.StreakBadge(report.Current))
		ctx.Formatter.Printf("    %s\n", cli.StreakLine(report))
	}
	return nil
}

func printStreak(habit *model.Habit) error {
	now := ctx.Calendar.Now()
	report, err := ctx.Analyzer.ReportFor(habit, now, now.Hour())
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(&output.StreakOutput{
			Habit:  output.NewHabitOutput(habit),
			AsOf:   output.FormatDay(ctx.Calendar.StartOfDay(now)),
			Streak: report,
		})
	}

	cli := ctx.CLIFormatter()
	cli.Title(fmt.Sprintf("%s %s", cli.HabitName(habit.Name), cli.StreakBadge(report.Current)))
	ctx.Formatter.Printf("  %s\n", cli.StreakLine(report))
	return nil
}
