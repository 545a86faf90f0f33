package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak/internal/domain"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [preset]",
	Short: "Start or resume the countdown",
	Long: `Start the countdown for the active preset, or resume it when paused.
When a preset is given the timer switches to it first. Preset names are
matched fuzzily, so "short" or "brk" work.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			p, err := resolvePreset(args[0])
			if err != nil {
				return err
			}
			if p.ID != app.ctrl.TimerState().ActivePreset.ID {
				app.ctrl.SwitchPreset(p.ID)
			}
		}

		before := app.ctrl.TimerState()
		app.ctrl.Start()
		state := app.ctrl.TimerState()

		if !state.Running {
			return fmt.Errorf("timer did not start")
		}
		verb := "Started"
		if before.Phase() == domain.PhasePaused {
			verb = "Resumed"
		} else if before.Running {
			verb = "Already running"
		}
		fmt.Fprintf(out, "%s %s: %s remaining\n", verb, state.ActivePreset.Label(), formatClock(state.Remaining()))
		return nil
	},
}
