package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak/internal/config"
	"github.com/xvierd/streak/internal/domain"
	"github.com/xvierd/streak/internal/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit presets, timezone and notifications",
	Long: `Interactively configure preset durations, the starting preset, the
statistics timezone and desktop notifications. Changes are written to the
config file; preset durations also apply to the running timer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigEditor(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), app.config)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// configPresets lists the editable preset sections in display order.
func configPresets(cfg *config.Config) []struct {
	id  string
	cfg *config.PresetConfig
} {
	return []struct {
		id  string
		cfg *config.PresetConfig
	}{
		{domain.PresetFocus, &cfg.Presets.Focus},
		{domain.PresetShortFocus, &cfg.Presets.ShortFocus},
		{domain.PresetBreak, &cfg.Presets.Break},
		{domain.PresetShortBreak, &cfg.Presets.ShortBreak},
	}
}

func runConfigEditor(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	presets := configPresets(cfg)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Current configuration:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Presets:")
	for i, p := range presets {
		fmt.Fprintf(w, "    [%d] %-12s  %s\n", i+1, p.cfg.Name, formatMinutes(time.Duration(p.cfg.Duration)))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    Starting preset:  %s\n", cfg.Timer.DefaultPreset)
	fmt.Fprintf(w, "    Timezone:         %s\n", cfg.Stats.Timezone)
	fmt.Fprintf(w, "    Notifications:    %s\n", notificationStatus(cfg))
	fmt.Fprintf(w, "    Storage:          %s in %s\n", cfg.Storage.Backend, cfg.Storage.DataDir)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  What would you like to change?")
	fmt.Fprintf(w, "    [1-%d] Edit a preset duration\n", len(presets))
	fmt.Fprintln(w, "    [d] Change starting preset")
	fmt.Fprintln(w, "    [z] Change timezone")
	fmt.Fprintln(w, "    [n] Change notifications")
	fmt.Fprintln(w, "    [q] Quit without saving")
	fmt.Fprint(w, "  Choose: ")

	choice := readLine(reader)
	switch choice {
	case "1", "2", "3", "4":
		return editPresetDuration(reader, w, cfg, int(choice[0]-'1'))
	case "d":
		return editDefaultPreset(reader, w, cfg)
	case "z":
		return editTimezone(reader, w, cfg)
	case "n":
		return editNotifications(reader, w, cfg)
	case "q", "":
		fmt.Fprintln(w, "  No changes made.")
		return nil
	default:
		return fmt.Errorf("invalid choice %q", choice)
	}
}

func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(line))
}

func editPresetDuration(reader *bufio.Reader, w io.Writer, cfg *config.Config, index int) error {
	entry := configPresets(cfg)[index]
	current := time.Duration(entry.cfg.Duration)

	fmt.Fprintf(w, "\n  %s duration [%s]: ", entry.cfg.Name, formatMinutes(current))
	input := readLine(reader)
	if input == "" {
		fmt.Fprintln(w, "  No changes made.")
		return nil
	}
	d, err := parsePresetDuration(input)
	if err != nil {
		return err
	}

	entry.cfg.Duration = config.Duration(d)
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	if app.ctrl != nil {
		app.ctrl.UpdatePresetDuration(entry.id, int(d/time.Second))
	}

	fmt.Fprintf(w, "\n  Saved: %s is %s\n", entry.cfg.Name, formatMinutes(d))
	return nil
}

func editDefaultPreset(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "\n  Starting preset [%s]: ", cfg.Timer.DefaultPreset)
	line, _ := reader.ReadString('\n')
	input := strings.TrimSpace(line)
	if input == "" {
		fmt.Fprintln(w, "  No changes made.")
		return nil
	}
	matches := services.MatchPresets(input, cfg.DomainPresets())
	if len(matches) == 0 {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPreset, input)
	}

	cfg.Timer.DefaultPreset = matches[0].ID
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(w, "\n  Saved: starting preset is %s\n", matches[0].ID)
	return nil
}

func editTimezone(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "\n  Timezone, IANA name or Local [%s]: ", cfg.Stats.Timezone)
	line, _ := reader.ReadString('\n')
	input := strings.TrimSpace(line)
	if input == "" {
		fmt.Fprintln(w, "  No changes made.")
		return nil
	}
	if !strings.EqualFold(input, "local") {
		if _, err := time.LoadLocation(input); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", input, err)
		}
	} else {
		input = "Local"
	}

	cfg.Stats.Timezone = input
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(w, "\n  Saved: timezone %s\n", input)
	return nil
}

func notificationStatus(cfg *config.Config) string {
	if !cfg.Notifications.Enabled {
		return "off"
	}
	if cfg.Notifications.Sound {
		return "on (with sound)"
	}
	return "on"
}

func editNotifications(reader *bufio.Reader, w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "\n  Current notifications: %s\n\n", notificationStatus(cfg))
	fmt.Fprintln(w, "    [1] Off")
	fmt.Fprintln(w, "    [2] On (visual only)")
	fmt.Fprintln(w, "    [3] On (with sound)")
	fmt.Fprint(w, "  Choose: ")

	switch readLine(reader) {
	case "1":
		cfg.Notifications.Enabled = false
		cfg.Notifications.Sound = false
	case "2":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = false
	case "3":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = true
	default:
		fmt.Fprintln(w, "  No changes made.")
		return nil
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	syncPreferences(cfg)
	fmt.Fprintf(w, "\n  Saved: notifications %s\n", notificationStatus(cfg))
	return nil
}
