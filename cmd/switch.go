package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak/internal/adapters/tui"
	"github.com/xvierd/streak/internal/domain"
	"github.com/xvierd/streak/internal/services"
)

// switchCmd represents the switch command
var switchCmd = &cobra.Command{
	Use:   "switch [preset]",
	Short: "Switch the active preset",
	Long: `Make another preset active. The countdown becomes idle with the
preset's full duration. Without an argument an interactive picker opens.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p domain.Preset
		if len(args) == 0 {
			result := tui.RunPresetPicker(app.ctrl.Presets(), app.ctrl.TimerState().ActivePreset.ID, &app.config.Theme)
			if result.Aborted {
				return nil
			}
			p = result.Preset
		} else {
			var err error
			p, err = resolvePreset(args[0])
			if err != nil {
				return err
			}
		}

		if !app.ctrl.SwitchPreset(p.ID) {
			return fmt.Errorf("failed to switch to %q: %w", p.ID, domain.ErrUnknownPreset)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s (%s)\n", p.Label(), formatMinutes(p.Duration()))
		return nil
	},
}

// resolvePreset returns the best preset match for query.
func resolvePreset(query string) (domain.Preset, error) {
	matches := services.MatchPresets(query, app.ctrl.Presets())
	if len(matches) == 0 {
		return domain.Preset{}, fmt.Errorf("no preset matches %q: %w", query, domain.ErrUnknownPreset)
	}
	return matches[0], nil
}
