package cmd

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hatamisg/rutin/internal/model"
)

// Export command flags.
var (
	exportFlagHabit  string
	exportFlagFormat string
	exportFlagOutput string
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"ex", "dump", "backup"},
	Short:   "Export habit data",
	Long: `Export habits and their completion records as a backup file.

JSON exports carry everything (habits, records, checkpoints, webhooks,
config) and can be restored with rutin import. CSV exports carry the
completion records only, for spreadsheets.

Examples:
  rutin export -o backup.json
  rutin export --habit morning-run
  rutin export --format csv -o records.csv`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFlagHabit, "habit", "", "Export a single habit's records")
	exportCmd.Flags().StringVarP(&exportFlagFormat, "format", "F", "json", "Output format: json, csv")
	exportCmd.Flags().StringVarP(&exportFlagOutput, "output", "o", "", "Output file (stdout if omitted)")

	exportCmd.RegisterFlagCompletionFunc("habit", completeHabits)

	rootCmd.AddCommand(exportCmd)
}

// Backup is the full-export file format.
type Backup struct {
	Version     string              `json:"version"`
	ExportedAt  string              `json:"exported_at"`
	Config      *model.Config       `json:"config,omitempty"`
	Habits      []*model.Habit      `json:"habits"`
	Records     []*model.Record     `json:"records"`
	Checkpoints []*model.Checkpoint `json:"checkpoints,omitempty"`
	Webhooks    []*model.Webhook    `json:"webhooks,omitempty"`
}

func runExport(cmd *cobra.Command, args []string) error {
	var habits []*model.Habit
	var err error

	if exportFlagHabit != "" {
		habit, err := ctx.HabitRepo.Get(exportFlagHabit)
		if err != nil {
			return err
		}
		habits = []*model.Habit{habit}
	} else {
		habits, err = ctx.HabitRepo.List()
		if err != nil {
			return err
		}
	}

	var records []*model.Record
	for _, h := range habits {
		rs, err := ctx.RecordRepo.ListByHabit(h.SID)
		if err != nil {
			return err
		}
		records = append(records, rs...)
	}

	writer := os.Stdout
	if exportFlagOutput != "" {
		f, err := os.Create(exportFlagOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		writer = f
	}

	switch exportFlagFormat {
	case "csv":
		return exportCSV(writer, records)
	default:
		return exportJSON(writer, habits, records)
	}
}

func exportJSON(w *os.File, habits []*model.Habit, records []*model.Record) error {
	backup := Backup{
		Version:    Version,
		ExportedAt: time.Now().Format(time.RFC3339),
		Habits:     habits,
		Records:    records,
	}

	// Single-habit exports skip the global state.
	if exportFlagHabit == "" {
		if cfg, err := ctx.ConfigRepo.Get(); err == nil {
			backup.Config = cfg
		}
		if webhooks, err := ctx.WebhookRepo.List(); err == nil {
			backup.Webhooks = webhooks
		}
		for _, h := range habits {
			cp, err := ctx.CheckpointRepo.Get(h.SID)
			if err == nil && cp != nil {
				backup.Checkpoints = append(backup.Checkpoints, cp)
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(backup)
}

func exportCSV(w *os.File, records []*model.Record) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"habit", "day", "amount", "created_at"}); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.HabitSID,
			r.Day,
			strconv.FormatInt(r.Amount, 10),
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}
