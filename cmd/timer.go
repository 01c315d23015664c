package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/output"
)

// timerCmd represents the timer command.
var timerCmd = &cobra.Command{
	Use:     "timer",
	Aliases: []string{"tm"},
	Short:   "Run timers for timer habits",
	Long: `Start, pause, resume, and stop the timer for a timer habit.

A running timer keeps counting across process restarts; its state lives
in the database, not in memory. Stop commits the elapsed time as the
day's progress, reset discards both the timer and today's progress.

Examples:
  rutin timer start meditation
  rutin timer pause meditation
  rutin timer resume meditation
  rutin timer stop meditation
  rutin timer status meditation`,
}

// timerStartCmd starts a timer.
var timerStartCmd = &cobra.Command{
	Use:               "start HABIT",
	Short:             "Start the timer",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTimerHabits,
	RunE:              runTimerStart,
}

// timerPauseCmd pauses a running timer.
var timerPauseCmd = &cobra.Command{
	Use:               "pause HABIT",
	Short:             "Pause the timer, keeping elapsed time",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTimerHabits,
	RunE:              runTimerPause,
}

// timerResumeCmd resumes a paused timer.
var timerResumeCmd = &cobra.Command{
	Use:               "resume HABIT",
	Short:             "Resume a paused timer",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTimerHabits,
	RunE:              runTimerResume,
}

// timerStopCmd stops a timer and commits its value.
var timerStopCmd = &cobra.Command{
	Use:               "stop HABIT",
	Short:             "Stop the timer and save elapsed time as progress",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTimerHabits,
	RunE:              runTimerStop,
}

// timerResetCmd discards the timer and today's progress.
var timerResetCmd = &cobra.Command{
	Use:               "reset HABIT",
	Short:             "Discard the timer and today's progress",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTimerHabits,
	RunE:              runTimerReset,
}

// timerStatusCmd shows the timer state.
var timerStatusCmd = &cobra.Command{
	Use:               "status HABIT",
	Short:             "Show the timer state and elapsed time",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTimerHabits,
	RunE:              runTimerStatus,
}

func init() {
	timerCmd.AddCommand(timerStartCmd)
	timerCmd.AddCommand(timerPauseCmd)
	timerCmd.AddCommand(timerResumeCmd)
	timerCmd.AddCommand(timerStopCmd)
	timerCmd.AddCommand(timerResetCmd)
	timerCmd.AddCommand(timerStatusCmd)
	rootCmd.AddCommand(timerCmd)
}

// getTimerHabit loads a habit and rejects non-timer kinds.
func getTimerHabit(sid string) (*model.Habit, error) {
	habit, err := ctx.HabitRepo.Get(sid)
	if err != nil {
		return nil, err
	}
	if habit.Kind != model.KindTimer {
		return nil, errors.NewUserErrorWithField("habit", sid,
			"not a timer habit", "use rutin log to add progress to counter habits")
	}
	return habit, nil
}

func runTimerStart(cmd *cobra.Command, args []string) error {
	habit, err := getTimerHabit(args[0])
	if err != nil {
		return err
	}

	cp, err := ctx.Reconciler.Start(habit)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTimerOutput(habit.SID, cp, cp.Displayed(ctx.Calendar.Now())))
	}

	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Timer started for %s", cli.HabitName(habit.Name)))
	if cp.BaseProgress > 0 {
		cli.Muted(fmt.Sprintf("  continuing from %s already logged today", output.FormatSeconds(cp.BaseProgress)))
	}
	return nil
}

func runTimerPause(cmd *cobra.Command, args []string) error {
	habit, err := getTimerHabit(args[0])
	if err != nil {
		return err
	}

	cp, err := ctx.Reconciler.Pause(habit.SID)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTimerOutput(habit.SID, cp, cp.BaseProgress))
	}

	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Timer paused at %s", output.FormatSeconds(cp.BaseProgress)))
	return nil
}

func runTimerResume(cmd *cobra.Command, args []string) error {
	habit, err := getTimerHabit(args[0])
	if err != nil {
		return err
	}

	cp, err := ctx.Reconciler.Resume(habit.SID)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTimerOutput(habit.SID, cp, cp.Displayed(ctx.Calendar.Now())))
	}

	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Timer resumed for %s from %s", cli.HabitName(habit.Name), output.FormatSeconds(cp.BaseProgress)))
	return nil
}

func runTimerStop(cmd *cobra.Command, args []string) error {
	habit, err := getTimerHabit(args[0])
	if err != nil {
		return err
	}

	value, err := ctx.Reconciler.Commit(habit)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"habit_sid":         habit.SID,
			"committed_seconds": value,
			"goal_seconds":      habit.Goal,
		})
	}

	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Saved %s for %s", output.FormatSeconds(value), cli.HabitName(habit.Name)))
	if value >= habit.Goal {
		cli.Success("Goal reached!")
	} else {
		cli.Muted(fmt.Sprintf("  %s remaining", output.FormatSeconds(habit.Goal-value)))
	}
	return nil
}

func runTimerReset(cmd *cobra.Command, args []string) error {
	habit, err := getTimerHabit(args[0])
	if err != nil {
		return err
	}

	if err := ctx.Reconciler.Reset(habit); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]string{"reset": habit.SID})
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Reset timer and today's progress for %s", habit.SID))
	return nil
}

func runTimerStatus(cmd *cobra.Command, args []string) error {
	habit, err := getTimerHabit(args[0])
	if err != nil {
		return err
	}

	cp, displayed, err := ctx.Reconciler.Status(habit.SID)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewTimerOutput(habit.SID, cp, displayed))
	}

	cli := ctx.CLIFormatter()
	switch {
	case cp == nil:
		cli.Muted(fmt.Sprintf("No timer for %s", cli.HabitName(habit.Name)))
	case cp.Running:
		ctx.Formatter.Printf("▶ %s running: %s / %s\n",
			cli.HabitName(habit.Name), output.FormatSeconds(displayed), output.FormatSeconds(habit.Goal))
	default:
		ctx.Formatter.Printf("⏸ %s paused: %s / %s\n",
			cli.HabitName(habit.Name), output.FormatSeconds(displayed), output.FormatSeconds(habit.Goal))
	}
	return nil
}
