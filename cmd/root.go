// Package cmd provides the CLI commands for Rutin.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hatamisg/rutin/internal/output"
	"github.com/hatamisg/rutin/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// ctx is the shared runtime context, built in PersistentPreRunE.
var ctx *runtime.Context

var rootCmd = &cobra.Command{
	Use:   "rutin",
	Short: "A schedule-aware habit tracker for the command line",
	Long: `Rutin tracks recurring habits against weekday schedules: counters you
log in amounts and timers you run against a daily goal, with streaks
computed from the schedule so off days never break them.

Examples:
  rutin habit add "Morning run" --goal 1 --days mon,wed,fri
  rutin log morning-run
  rutin timer start meditation
  rutin streak
  rutin today`,
	PersistentPreRunE: openContext,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			return ctx.Close()
		}
		return nil
	},
	// Bare "rutin" shows today's habits.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToday(cmd, args)
	},
}

// openContext builds the runtime context from global flags. Completion and
// help skip it; they must not take the database lock. The hidden __complete
// command still gets a context so dynamic completions can list habits.
func openContext(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "completion" || cmd.Name() == "help" {
		return nil
	}

	opts := runtime.DefaultOptions()
	opts.Format = parseFormat(flagFormat)
	opts.ColorMode = parseColorMode(flagColor)
	opts.Debug = flagDebug

	var err error
	ctx, err = runtime.New(opts)
	return err
}

func parseFormat(s string) output.Format {
	switch s {
	case "json":
		return output.FormatJSON
	case "plain":
		return output.FormatPlain
	}
	return output.FormatCLI
}

func parseColorMode(s string) output.ColorMode {
	switch s {
	case "always":
		return output.ColorAlways
	case "never":
		return output.ColorNever
	}
	return output.ColorAuto
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("rutin %s\n  commit: %s\n  built: %s\n", Version, Commit, BuildTime)
	},
}

// Die prints an error and exits.
func Die(err error) {
	if ctx != nil && ctx.IsJSON() {
		ctx.JSONFormatter().PrintError("error", err.Error(), runtime.GetSuggestion(err))
	} else {
		os.Stderr.WriteString("Error: " + runtime.FormatError(err) + "\n")
	}
	os.Exit(1)
}
