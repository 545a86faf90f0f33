package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the countdown to the full preset duration",
	Long:  `Stop the countdown and return it to the full duration of the active preset. Statistics are kept.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app.ctrl.Reset()
		state := app.ctrl.TimerState()
		fmt.Fprintf(cmd.OutOrStdout(), "%s reset to %s\n", state.ActivePreset.Label(), formatClock(state.Remaining()))
		return nil
	},
}
