package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/output"
	"github.com/hatamisg/rutin/internal/parser"
)

// Log and set command flags.
var (
	logFlagDay string
	setFlagDay string
)

// logCmd represents the log command.
var logCmd = &cobra.Command{
	Use:     "log HABIT [AMOUNT]",
	Aliases: []string{"l", "done"},
	Short:   "Log progress toward a habit",
	Long: `Add progress to a habit for a day. The amount defaults to 1 for
counter habits; timer habits take durations. Negative amounts subtract,
flooring the day at zero.

Examples:
  rutin log pushups 20
  rutin log morning-run
  rutin log pushups 15 --day yesterday
  rutin log reading 30m
  rutin log pushups -5`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeHabits,
	RunE:              runLog,
}

// setCmd represents the set command.
var setCmd = &cobra.Command{
	Use:   "set HABIT AMOUNT",
	Short: "Set a habit's progress for a day",
	Long: `Replace a habit's progress for a day with an exact value. Unlike log,
which adds, set overwrites. Setting zero clears the day.

Examples:
  rutin set pushups 50
  rutin set pushups 0 --day yesterday
  rutin set reading 45m`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeHabits,
	RunE:              runSet,
}

func init() {
	logCmd.Flags().StringVar(&logFlagDay, "day", "", "Day to log against (default today)")
	setCmd.Flags().StringVar(&setFlagDay, "day", "", "Day to set (default today)")

	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(setCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	habit, err := ctx.HabitRepo.Get(args[0])
	if err != nil {
		return err
	}

	amount := int64(1)
	if len(args) > 1 {
		amount, err = parseAmountValue(args[1], habit.Kind)
		if err != nil {
			return err
		}
	}

	day, err := resolveDay(logFlagDay)
	if err != nil {
		return err
	}

	if err := ctx.Aggregator.Add(habit, day, amount); err != nil {
		return err
	}

	return printDayProgress(habit, day)
}

func runSet(cmd *cobra.Command, args []string) error {
	habit, err := ctx.HabitRepo.Get(args[0])
	if err != nil {
		return err
	}

	amount, err := parseAmountValue(args[1], habit.Kind)
	if err != nil {
		return err
	}

	day, err := resolveDay(setFlagDay)
	if err != nil {
		return err
	}

	if err := ctx.Aggregator.Set(habit, day, amount); err != nil {
		return err
	}

	return printDayProgress(habit, day)
}

// parseAmountValue parses an amount argument in the habit's natural unit:
// durations for timer habits, plain integers for counters. A leading minus
// on a duration subtracts.
func parseAmountValue(s string, kind model.HabitKind) (int64, error) {
	if kind == model.KindTimer {
		negative := false
		if len(s) > 1 && s[0] == '-' {
			negative = true
			s = s[1:]
		}
		result := parser.ParseDurationSeconds(s)
		if !result.Valid {
			return 0, parser.NewDurationError(s).ToUserError()
		}
		if negative {
			return -result.Amount, nil
		}
		return result.Amount, nil
	}

	result := parser.ParseAmount(s)
	if !result.Valid {
		return 0, parser.NewAmountError(s).ToUserError()
	}
	return result.Amount, nil
}

// resolveDay parses a --day flag value, defaulting to today.
func resolveDay(flag string) (time.Time, error) {
	result := parser.ParseDay(ctx.Calendar, flag)
	if result.Error != nil {
		return time.Time{}, result.Error
	}
	return result.Day, nil
}

// printDayProgress reports the day's progress after a mutation.
func printDayProgress(habit *model.Habit, day time.Time) error {
	progress, err := ctx.Aggregator.ForDay(habit.SID, day)
	if err != nil {
		return err
	}
	pct, err := ctx.Aggregator.Percentage(habit, day)
	if err != nil {
		return err
	}
	completed, err := ctx.Aggregator.Completed(habit, day)
	if err != nil {
		return err
	}
	exceeded, err := ctx.Aggregator.Exceeded(habit, day)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(&output.DayProgressOutput{
			Habit:      output.NewHabitOutput(habit),
			Day:        output.FormatDay(ctx.Calendar.StartOfDay(day)),
			Due:        ctx.Resolver.IsDue(habit, day),
			Progress:   progress,
			Percentage: pct,
			Completed:  completed,
			Exceeded:   exceeded,
		})
	}

	cli := ctx.CLIFormatter()
	ctx.Formatter.Printf("%s %s %s\n", cli.HabitName(habit.Name), cli.ProgressBar(pct, 20), formatProgress(habit, progress))
	if exceeded {
		cli.Success(fmt.Sprintf("Goal exceeded for %s!", output.FormatDay(ctx.Calendar.StartOfDay(day))))
	} else if completed {
		cli.Success(fmt.Sprintf("Goal reached for %s!", output.FormatDay(ctx.Calendar.StartOfDay(day))))
	}
	return nil
}
