package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak/internal/adapters/git"
	"github.com/xvierd/streak/internal/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed sessions",
	Long:  `List completed focus sessions, newest first, with the git branch they were recorded on.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := app.history.Recent(context.Background(), historyLimit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputHistoryJSON(cmd.OutOrStdout(), records)
		}
		printHistory(cmd.OutOrStdout(), records, app.ctrl.Presets(), app.ctrl.Location())
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of sessions to show")
	rootCmd.AddCommand(historyCmd)
}

func outputHistoryJSON(w io.Writer, records []*domain.CompletionRecord) error {
	if records == nil {
		records = []*domain.CompletionRecord{}
	}
	jsonData, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}

func printHistory(w io.Writer, records []*domain.CompletionRecord, presets domain.PresetSet, loc *time.Location) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No completed sessions yet.")
		return
	}
	for _, r := range records {
		line := fmt.Sprintf("%s  %-12s %6s",
			r.OccurredAt.In(loc).Format("2006-01-02 15:04"),
			presetLabel(presets, r.PresetID),
			formatMinutes(time.Duration(r.DurationSeconds)*time.Second),
		)
		if r.GitBranch != "" {
			line += fmt.Sprintf("  %s@%s", r.GitBranch, git.ShortCommit(r.GitCommit))
		}
		fmt.Fprintln(w, line)
	}
}

// presetLabel returns the display name for id, or id itself once the preset is gone.
func presetLabel(presets domain.PresetSet, id string) string {
	if p, ok := presets.Get(id); ok {
		return p.Label()
	}
	return id
}
