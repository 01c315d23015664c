package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/validate"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg", "settings"},
	Short:   "Manage application configuration",
	Long: `View and modify application configuration settings.

Examples:
  rutin config get
  rutin config set first-day mon
  rutin config set snapshot disabled`,
}

// configGetCmd gets configuration values.
var configGetCmd = &cobra.Command{
	Use:   "get [KEY]",
	Short: "Get configuration value",
	Long: `Get a configuration value, or show all values.

Keys:
  first-day   First day of week for schedule display
  snapshot    Whether snapshot publication is enabled

Changing first-day only reorders how schedules are displayed; saved
schedules are stored with absolute weekdays and never shift.

Examples:
  rutin config get
  rutin config get first-day`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets configuration values.
var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set configuration value",
	Long: `Set a configuration value.

Keys and values:
  first-day WEEKDAY      First day of week (mon, sun, ...)
  snapshot enabled|disabled  Toggle snapshot publication

Examples:
  rutin config set first-day sun
  rutin config set snapshot disabled`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigGet handles the config get command.
func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := ctx.ConfigRepo.Get()
	if err != nil {
		return err
	}

	key := ""
	if len(args) > 0 {
		key = args[0]
	}

	if ctx.IsJSON() {
		switch key {
		case "first-day":
			return ctx.Formatter.JSON(map[string]interface{}{"first_day_of_week": cfg.FirstDayOfWeek})
		case "snapshot":
			return ctx.Formatter.JSON(map[string]interface{}{"snapshot_enabled": cfg.SnapshotEnabled})
		default:
			return ctx.Formatter.JSON(cfg)
		}
	}

	switch key {
	case "first-day":
		ctx.Formatter.Printf("first-day: %s\n", model.WeekdayName(cfg.FirstDayOfWeek))
	case "snapshot":
		ctx.Formatter.Printf("snapshot: %s\n", enabledString(cfg.SnapshotEnabled))
	case "":
		ctx.Formatter.Printf("first-day: %s\n", model.WeekdayName(cfg.FirstDayOfWeek))
		ctx.Formatter.Printf("snapshot:  %s\n", enabledString(cfg.SnapshotEnabled))
	default:
		return errors.NewUserErrorWithField("key", key,
			"unknown configuration key", "use first-day or snapshot")
	}

	return nil
}

// runConfigSet handles the config set command.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := ctx.ConfigRepo.Get()
	if err != nil {
		return err
	}

	switch key {
	case "first-day":
		day, err := model.ParseWeekday(value)
		if err != nil {
			return err
		}
		if err := validate.Weekday(day); err != nil {
			return err
		}
		cfg.FirstDayOfWeek = day
	case "snapshot":
		switch value {
		case "enabled", "on", "true":
			cfg.SnapshotEnabled = true
		case "disabled", "off", "false":
			cfg.SnapshotEnabled = false
		default:
			return errors.NewUserErrorWithField("snapshot", value,
				"invalid value", "use enabled or disabled")
		}
	default:
		return errors.NewUserErrorWithField("key", key,
			"unknown configuration key", "use first-day or snapshot")
	}

	if err := ctx.ConfigRepo.Update(cfg); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(cfg)
	}

	ctx.CLIFormatter().Success(fmt.Sprintf("Set %s = %s", key, value))
	return nil
}

func enabledString(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
