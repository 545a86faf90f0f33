package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Long:  `Display the countdown, today's progress and the current streak.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		state, err := app.state.GetCurrentState(ctx)
		if err != nil {
			return fmt.Errorf("failed to get current state: %w", err)
		}

		if jsonOutput {
			return outputStatusJSON(cmd.OutOrStdout(), state)
		}
		printStatusText(cmd.OutOrStdout(), state)
		return nil
	},
}

// outputStatusJSON outputs the status in JSON format
func outputStatusJSON(w io.Writer, state *domain.CurrentState) error {
	timer := state.Timer
	timerData := map[string]interface{}{
		"preset_id":         timer.ActivePreset.ID,
		"preset_name":       timer.ActivePreset.Label(),
		"phase":             string(timer.Phase()),
		"remaining_seconds": timer.RemainingSeconds,
		"duration_seconds":  timer.ActivePreset.DurationSeconds,
		"progress":          timer.Progress(),
	}
	if timer.EndsAt != nil {
		timerData["ends_at"] = timer.EndsAt.Format(time.RFC3339)
	}

	result := map[string]interface{}{
		"timer": timerData,
		"today": map[string]interface{}{
			"sessions":      state.Today.SessionCount,
			"focus_seconds": state.Today.TotalDurationSeconds,
		},
		"streak": map[string]interface{}{
			"current_days": state.Stats.CurrentStreakDays,
			"longest_days": state.Stats.LongestStreakDays,
			"active":       state.StreakActive,
		},
		"sessions_completed": state.Stats.SessionsCompleted,
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}

// printStatusText prints the status in plain text format
func printStatusText(w io.Writer, state *domain.CurrentState) {
	timer := state.Timer
	fmt.Fprintf(w, "%s: %s\n", timer.ActivePreset.Label(), domain.GetPhaseLabel(timer.Phase()))
	fmt.Fprintf(w, "   Remaining: %s of %s\n", formatClock(timer.Remaining()), formatMinutes(timer.ActivePreset.Duration()))
	if state.IsSessionActive() {
		fmt.Fprintf(w, "   Progress: %.0f%%\n", timer.Progress()*100)
	}
	if timer.Running && timer.EndsAt != nil {
		fmt.Fprintf(w, "   Ends at: %s\n", timer.EndsAt.In(state.At.Location()).Format("15:04:05"))
	}

	fmt.Fprintf(w, "\nToday:\n")
	fmt.Fprintf(w, "   Sessions: %d\n", state.Today.SessionCount)
	fmt.Fprintf(w, "   Focus time: %s\n", formatMinutes(time.Duration(state.Today.TotalDurationSeconds)*time.Second))

	streak := fmt.Sprintf("%d day%s", state.Stats.CurrentStreakDays, plural(state.Stats.CurrentStreakDays))
	if state.Stats.CurrentStreakDays > 0 && !state.StreakActive {
		streak += " (broken)"
	}
	fmt.Fprintf(w, "   Streak: %s\n", streak)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
