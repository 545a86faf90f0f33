package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running countdown",
	Long:  `Freeze the countdown. Run "streak start" to resume it.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if !app.ctrl.TimerState().Running {
			fmt.Fprintln(out, "Timer is not running.")
			return nil
		}

		app.ctrl.Pause()
		state := app.ctrl.TimerState()
		if state.Complete {
			fmt.Fprintf(out, "%s already finished.\n", state.ActivePreset.Label())
			return nil
		}
		fmt.Fprintf(out, "Paused. Remaining: %s\n", formatClock(state.Remaining()))
		return nil
	},
}
