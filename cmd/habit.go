package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/output"
	"github.com/hatamisg/rutin/internal/parser"
	"github.com/hatamisg/rutin/internal/streak"
	"github.com/hatamisg/rutin/internal/validate"
)

// habitCmd represents the habit command.
var habitCmd = &cobra.Command{
	Use:     "habit",
	Aliases: []string{"habits", "h"},
	Short:   "Manage habits",
	Long: `Create, list, inspect, edit, and delete habits.

A habit has a per-day goal and a weekday schedule. Counter habits are
logged in discrete amounts; timer habits accumulate seconds through the
timer commands.

Examples:
  rutin habit add "Morning run" --goal 1 --days mon,wed,fri
  rutin habit add "Deep work" --kind timer --goal 2h --days weekdays
  rutin habit list
  rutin habit show morning-run
  rutin habit edit morning-run --goal 2
  rutin habit delete morning-run`,
	RunE: runHabitList,
}

// Habit subcommand flags.
var (
	habitAddFlagSID   string
	habitAddFlagKind  string
	habitAddFlagGoal  string
	habitAddFlagDays  string
	habitAddFlagStart string

	habitEditFlagName string
	habitEditFlagGoal string
	habitEditFlagDays string

	habitDeleteFlagForce bool
)

// habitAddCmd creates a new habit.
var habitAddCmd = &cobra.Command{
	Use:     "add NAME",
	Aliases: []string{"create", "new"},
	Short:   "Create a new habit",
	Args:    cobra.ExactArgs(1),
	RunE:    runHabitAdd,
}

// habitListCmd lists all habits.
var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all habits",
	RunE:    runHabitList,
}

// habitShowCmd shows details for one habit.
var habitShowCmd = &cobra.Command{
	Use:               "show HABIT",
	Short:             "Show habit details",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeHabits,
	RunE:              runHabitShow,
}

// habitEditCmd edits an existing habit.
var habitEditCmd = &cobra.Command{
	Use:               "edit HABIT",
	Short:             "Edit a habit",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeHabits,
	RunE:              runHabitEdit,
}

// habitDeleteCmd deletes a habit.
var habitDeleteCmd = &cobra.Command{
	Use:               "delete HABIT",
	Aliases:           []string{"rm", "remove"},
	Short:             "Delete a habit and all its records",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeHabits,
	RunE:              runHabitDelete,
}

func init() {
	// Add flags
	habitAddCmd.Flags().StringVarP(&habitAddFlagSID, "sid", "s", "", "Custom SID (auto-generated from name if omitted)")
	habitAddCmd.Flags().StringVarP(&habitAddFlagKind, "kind", "k", "counter", "Habit kind: counter, timer")
	habitAddCmd.Flags().StringVarP(&habitAddFlagGoal, "goal", "g", "1", "Daily goal (amount, or duration like 30m for timer habits)")
	habitAddCmd.Flags().StringVarP(&habitAddFlagDays, "days", "d", "daily", "Schedule: daily, weekdays, weekends, or weekday names (mon,wed,fri)")
	habitAddCmd.Flags().StringVar(&habitAddFlagStart, "start", "", "Start date (default today)")

	// Edit flags
	habitEditCmd.Flags().StringVarP(&habitEditFlagName, "name", "n", "", "Update display name")
	habitEditCmd.Flags().StringVarP(&habitEditFlagGoal, "goal", "g", "", "Update daily goal")
	habitEditCmd.Flags().StringVarP(&habitEditFlagDays, "days", "d", "", "Update schedule")

	habitDeleteCmd.Flags().BoolVar(&habitDeleteFlagForce, "force", false, "Skip confirmation")

	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitListCmd)
	habitCmd.AddCommand(habitShowCmd)
	habitCmd.AddCommand(habitEditCmd)
	habitCmd.AddCommand(habitDeleteCmd)
	rootCmd.AddCommand(habitCmd)
}

func runHabitAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := validate.Name(name); err != nil {
		return err
	}

	sid := habitAddFlagSID
	if sid == "" {
		sid = parser.ConvertToSID(name)
	}
	if err := validate.SID(sid); err != nil {
		return err
	}

	kind, err := parseHabitKind(habitAddFlagKind)
	if err != nil {
		return err
	}

	goal, err := parseGoalValue(habitAddFlagGoal, kind)
	if err != nil {
		return err
	}

	schedule, err := parser.ParseSchedule(habitAddFlagDays)
	if err != nil {
		return err
	}

	now := ctx.Calendar.Now()
	start := ctx.Calendar.StartOfDay(now)
	if habitAddFlagStart != "" {
		result := parser.ParseDay(ctx.Calendar, habitAddFlagStart)
		if result.Error != nil {
			return result.Error
		}
		start = result.Day
	}

	habit := model.NewHabit(sid, name, kind, goal, schedule, start, now)
	if err := ctx.HabitRepo.Create(habit); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewHabitOutput(habit))
	}

	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Created habit %s (%s)", cli.HabitName(habit.Name), habit.SID))
	cli.Muted(fmt.Sprintf("  goal: %s, schedule: %s", formatGoal(habit), cli.ScheduleLine(habit.Schedule, firstDayOfWeek())))
	return nil
}

func runHabitList(cmd *cobra.Command, args []string) error {
	habits, err := ctx.HabitRepo.List()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		out := make([]*output.HabitOutput, 0, len(habits))
		for _, h := range habits {
			out = append(out, output.NewHabitOutput(h))
		}
		return ctx.Formatter.JSON(out)
	}

	cli := ctx.CLIFormatter()
	if len(habits) == 0 {
		cli.Muted("No habits yet. Create one with: rutin habit add NAME")
		return nil
	}

	cli.Title("Habits")
	firstDay := firstDayOfWeek()
	now := ctx.Calendar.Now()
	for _, h := range habits {
		due := ctx.Resolver.IsDue(h, now)
		marker := " "
		if due {
			marker = "•"
		}
		ctx.Formatter.Printf("%s %s (%s)\n", marker, cli.HabitName(h.Name), h.SID)
		ctx.Formatter.Printf("    goal %s on %s\n", formatGoal(h), cli.ScheduleLine(h.Schedule, firstDay))
	}
	return nil
}

func runHabitShow(cmd *cobra.Command, args []string) error {
	habit, err := ctx.HabitRepo.Get(args[0])
	if err != nil {
		return err
	}

	now := ctx.Calendar.Now()
	progress, err := ctx.Aggregator.ForDay(habit.SID, now)
	if err != nil {
		return err
	}
	pct, err := ctx.Aggregator.Percentage(habit, now)
	if err != nil {
		return err
	}
	report, err := ctx.Analyzer.ReportFor(habit, now, now.Hour())
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		completed, err := ctx.Aggregator.Completed(habit, now)
		if err != nil {
			return err
		}
		exceeded, err := ctx.Aggregator.Exceeded(habit, now)
		if err != nil {
			return err
		}
		out := struct {
			*output.DayProgressOutput
			Streak *streak.Report `json:"streak"`
		}{
			DayProgressOutput: &output.DayProgressOutput{
				Habit:      output.NewHabitOutput(habit),
				Day:        output.FormatDay(ctx.Calendar.StartOfDay(now)),
				Due:        ctx.Resolver.IsDue(habit, now),
				Progress:   progress,
				Percentage: pct,
				Completed:  completed,
				Exceeded:   exceeded,
			},
			Streak: report,
		}
		return ctx.Formatter.JSON(out)
	}

	cli := ctx.CLIFormatter()
	cli.Title(cli.HabitName(habit.Name))
	cli.Muted(fmt.Sprintf("  sid: %s", habit.SID))
	cli.Muted(fmt.Sprintf("  kind: %s", habit.Kind))
	cli.Muted(fmt.Sprintf("  goal: %s", formatGoal(habit)))
	cli.Muted(fmt.Sprintf("  schedule: %s", cli.ScheduleLine(habit.Schedule, firstDayOfWeek())))
	cli.Muted(fmt.Sprintf("  since: %s", output.FormatDay(habit.StartDate)))
	ctx.Formatter.Println("")
	ctx.Formatter.Printf("  today: %s %s\n", cli.ProgressBar(pct, 20), formatProgress(habit, progress))
	ctx.Formatter.Printf("  %s\n", cli.StreakLine(report))
	return nil
}

func runHabitEdit(cmd *cobra.Command, args []string) error {
	habit, err := ctx.HabitRepo.Get(args[0])
	if err != nil {
		return err
	}

	changed := false
	if habitEditFlagName != "" {
		if err := validate.Name(habitEditFlagName); err != nil {
			return err
		}
		habit.Name = habitEditFlagName
		changed = true
	}
	if habitEditFlagGoal != "" {
		goal, err := parseGoalValue(habitEditFlagGoal, habit.Kind)
		if err != nil {
			return err
		}
		habit.Goal = goal
		changed = true
	}
	if habitEditFlagDays != "" {
		schedule, err := parser.ParseSchedule(habitEditFlagDays)
		if err != nil {
			return err
		}
		habit.Schedule = schedule
		changed = true
	}

	if !changed {
		return errors.NewUserError("nothing to change", "pass --name, --goal, or --days")
	}

	habit.UpdatedAt = ctx.Calendar.Now()
	if err := ctx.HabitRepo.Update(habit); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewHabitOutput(habit))
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Updated %s", habit.SID))
	return nil
}

func runHabitDelete(cmd *cobra.Command, args []string) error {
	sid := args[0]
	habit, err := ctx.HabitRepo.Get(sid)
	if err != nil {
		return err
	}

	if !habitDeleteFlagForce && ctx.IsCLI() {
		ctx.Formatter.Printf("Delete habit %q and all its records? [y/N] ", habit.Name)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			ctx.CLIFormatter().Muted("Aborted.")
			return nil
		}
	}

	if err := ctx.HabitRepo.Delete(sid); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]string{"deleted": sid})
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Deleted %s", sid))
	return nil
}

// parseHabitKind maps the --kind flag to a HabitKind.
func parseHabitKind(s string) (model.HabitKind, error) {
	switch s {
	case "counter", "":
		return model.KindCounter, nil
	case "timer":
		return model.KindTimer, nil
	default:
		return "", errors.NewUserErrorWithField("kind", s, "invalid habit kind", "use counter or timer")
	}
}

// parseGoalValue parses the --goal flag. Timer habits accept durations
// (30m, 1h); counter habits take plain amounts.
func parseGoalValue(s string, kind model.HabitKind) (int64, error) {
	var result parser.AmountResult
	if kind == model.KindTimer {
		result = parser.ParseDurationSeconds(s)
	} else {
		result = parser.ParseAmount(s)
	}
	if !result.Valid {
		if kind == model.KindTimer {
			return 0, parser.NewDurationError(s).ToUserError()
		}
		return 0, parser.NewAmountError(s).ToUserError()
	}
	if err := validate.Goal(result.Amount); err != nil {
		return 0, err
	}
	return result.Amount, nil
}

// formatGoal renders a habit's goal in its natural unit.
func formatGoal(h *model.Habit) string {
	if h.Kind == model.KindTimer {
		return output.FormatSeconds(h.Goal)
	}
	return fmt.Sprintf("%d", h.Goal)
}

// formatProgress renders "progress / goal" in the habit's unit.
func formatProgress(h *model.Habit, progress int64) string {
	if h.Kind == model.KindTimer {
		return fmt.Sprintf("%s / %s", output.FormatSeconds(progress), output.FormatSeconds(h.Goal))
	}
	return fmt.Sprintf("%d / %d", progress, h.Goal)
}

// firstDayOfWeek reads the configured first day of week, defaulting on error.
func firstDayOfWeek() int {
	cfg, err := ctx.ConfigRepo.Get()
	if err != nil {
		return model.NewConfig().FirstDayOfWeek
	}
	return cfg.FirstDayOfWeek
}
