package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Import command flags.
var (
	importFlagDryRun bool
	importFlagForce  bool
)

// importCmd represents the import command.
var importCmd = &cobra.Command{
	Use:     "import FILE",
	Aliases: []string{"imp", "restore"},
	Short:   "Import habit data from a backup file",
	Long: `Import habits and records from a JSON backup created by rutin export.

Existing habits with matching SIDs are skipped unless --force is given,
in which case their definition is overwritten. Records are merged by
key, so re-importing the same backup is idempotent.

Examples:
  rutin import backup.json
  rutin import backup.json --dry-run
  rutin import backup.json --force`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importFlagDryRun, "dry-run", false, "Preview import without making changes")
	importCmd.Flags().BoolVar(&importFlagForce, "force", false, "Overwrite existing habits on conflicts")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("not a valid backup file: %w", err)
	}

	cli := ctx.CLIFormatter()

	var habitsNew, habitsSkipped, habitsOverwritten, recordCount int
	for _, h := range backup.Habits {
		exists, err := ctx.HabitRepo.Exists(h.SID)
		if err != nil {
			return err
		}
		switch {
		case !exists:
			habitsNew++
			if !importFlagDryRun {
				if err := ctx.HabitRepo.Create(h); err != nil {
					return err
				}
			}
		case importFlagForce:
			habitsOverwritten++
			if !importFlagDryRun {
				if err := ctx.HabitRepo.Update(h); err != nil {
					return err
				}
			}
		default:
			habitsSkipped++
		}
	}

	for _, r := range backup.Records {
		recordCount++
		if importFlagDryRun {
			continue
		}
		// Create is keyed by (habit, day, id): re-imports overwrite the
		// same record rather than duplicating it.
		if err := ctx.RecordRepo.Create(r); err != nil {
			return err
		}
	}

	if !importFlagDryRun && backup.Config != nil {
		if err := ctx.ConfigRepo.Update(backup.Config); err != nil {
			return err
		}
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"dry_run":            importFlagDryRun,
			"habits_new":         habitsNew,
			"habits_skipped":     habitsSkipped,
			"habits_overwritten": habitsOverwritten,
			"records":            recordCount,
		})
	}

	if importFlagDryRun {
		cli.Title("Import preview")
	} else {
		cli.Title("Import complete")
	}
	ctx.Formatter.Printf("  habits: %d new, %d overwritten, %d skipped\n", habitsNew, habitsOverwritten, habitsSkipped)
	ctx.Formatter.Printf("  records: %d\n", recordCount)
	if habitsSkipped > 0 && !importFlagForce {
		cli.Muted("Use --force to overwrite existing habits.")
	}
	return nil
}
