package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/streak/internal/config"
	"github.com/xvierd/streak/internal/domain"
)

// presetCmd groups preset subcommands
var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "List or change timer presets",
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the timer presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		active := app.ctrl.TimerState().ActivePreset.ID

		activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(app.config.Theme.ColorFocus))
		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(app.config.Theme.ColorHelp))

		for _, p := range app.ctrl.Presets().All() {
			marker := "  "
			line := fmt.Sprintf("%-12s %-12s %6s", p.ID, p.Label(), formatMinutes(p.Duration()))
			if p.ID == active {
				marker = "▸ "
				line = activeStyle.Render(line)
			}
			kind := "focus"
			if !p.Countable {
				kind = "break"
			}
			fmt.Fprintf(out, "%s%s  %s\n", marker, line, dimStyle.Render(kind))
		}
		return nil
	},
}

var presetSetCmd = &cobra.Command{
	Use:   "set <preset> <duration>",
	Short: "Change a preset's duration",
	Long: `Change how long a preset counts down. The duration is either a number
of minutes ("30") or a Go duration ("1h15m", "90s"). If the preset is active
the countdown is reset to the new length. The new duration is also written
to the config file.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolvePreset(args[0])
		if err != nil {
			return err
		}
		d, err := parsePresetDuration(args[1])
		if err != nil {
			return err
		}

		if !app.ctrl.UpdatePresetDuration(p.ID, int(d/time.Second)) {
			return fmt.Errorf("failed to update %s: %w", p.ID, domain.ErrInvalidDuration)
		}
		if pc, ok := app.config.Preset(p.ID); ok {
			pc.Duration = config.Duration(d)
			if err := config.Save(app.config, configPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", p.Label(), formatMinutes(d))
		return nil
	},
}

func init() {
	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetSetCmd)
	rootCmd.AddCommand(presetCmd)
}

// parsePresetDuration accepts plain minutes or a Go duration string.
func parsePresetDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	var d time.Duration
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		d = time.Duration(n * float64(time.Minute))
	} else {
		d, err = time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
	}
	d = d.Round(time.Second)
	if d < time.Second {
		return 0, fmt.Errorf("invalid duration %q: %w", s, domain.ErrInvalidDuration)
	}
	return d, nil
}
