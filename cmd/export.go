package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak/internal/domain"
)

var (
	exportFormat string
	exportPeriod string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session history",
	Long:  "Export completed sessions in markdown or CSV format.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md or csv")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "week", "Time period: week, month, or all")
}

func runExport(ctx context.Context, w io.Writer) error {
	var since time.Time
	switch exportPeriod {
	case "week":
		since = time.Now().AddDate(0, 0, -7)
	case "month":
		since = time.Now().AddDate(0, -1, 0)
	case "all":
		since = time.Time{}
	default:
		return fmt.Errorf("invalid period %q: want week, month or all", exportPeriod)
	}

	records, err := app.history.Since(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to fetch sessions: %w", err)
	}

	presets := app.ctrl.Presets()
	loc := app.ctrl.Location()
	switch exportFormat {
	case "csv":
		return exportCSV(w, records, presets, loc)
	case "md":
		return exportMarkdown(w, records, presets, loc)
	default:
		return fmt.Errorf("invalid format %q: want md or csv", exportFormat)
	}
}

func exportMarkdown(w io.Writer, records []*domain.CompletionRecord, presets domain.PresetSet, loc *time.Location) error {
	fmt.Fprintf(w, "# Streak Session Export\n\n")
	fmt.Fprintf(w, "Generated: %s\n\n", time.Now().In(loc).Format("2006-01-02 15:04"))

	day := ""
	for _, r := range records {
		at := r.OccurredAt.In(loc)
		if key := at.Format("2006-01-02"); key != day {
			if day != "" {
				fmt.Fprintln(w)
			}
			day = key
			fmt.Fprintf(w, "## %s\n", day)
		}
		line := fmt.Sprintf("- %s %s, %s", at.Format("15:04"), presetLabel(presets, r.PresetID),
			formatMinutes(time.Duration(r.DurationSeconds)*time.Second))
		if r.GitBranch != "" {
			line += fmt.Sprintf(" (%s)", r.GitBranch)
		}
		fmt.Fprintln(w, line)
	}
	if day != "" {
		fmt.Fprintln(w)
	}
	return nil
}

func exportCSV(w io.Writer, records []*domain.CompletionRecord, presets domain.PresetSet, loc *time.Location) error {
	cw := csv.NewWriter(w)

	_ = cw.Write([]string{
		"id", "occurred_at", "preset_id", "preset_name", "duration_min", "git_branch", "git_commit",
	})
	for _, r := range records {
		_ = cw.Write([]string{
			r.ID,
			r.OccurredAt.In(loc).Format(time.RFC3339),
			r.PresetID,
			presetLabel(presets, r.PresetID),
			strconv.FormatFloat(float64(r.DurationSeconds)/60, 'f', -1, 64),
			r.GitBranch,
			r.GitCommit,
		})
	}
	cw.Flush()
	return cw.Error()
}
