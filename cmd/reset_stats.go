package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	resetStatsForce       bool
	resetStatsKeepHistory bool
)

var resetStatsCmd = &cobra.Command{
	Use:   "reset-stats",
	Short: "Clear statistics, streaks and achievements",
	Long: `Permanently clears session counts, streaks, all day, month and year
buckets, achievements and the session history. The timer and presets are kept.
This cannot be undone. Use --force to skip the confirmation prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if !resetStatsForce {
			fmt.Fprint(out, "This will permanently delete all statistics and achievements.\n")
			fmt.Fprint(out, "Are you sure? Type 'yes' to confirm: ")
			reader := bufio.NewReader(cmd.InOrStdin())
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(strings.ToLower(input))
			if input != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		app.ctrl.ResetStatistics()
		if !resetStatsKeepHistory {
			if err := app.history.Clear(context.Background()); err != nil {
				return err
			}
		}

		fmt.Fprintln(out, "Statistics cleared. Fresh start.")
		return nil
	},
}

func init() {
	resetStatsCmd.Flags().BoolVarP(&resetStatsForce, "force", "f", false, "Skip confirmation prompt")
	resetStatsCmd.Flags().BoolVar(&resetStatsKeepHistory, "keep-history", false, "Keep the session history log")
	rootCmd.AddCommand(resetStatsCmd)
}
