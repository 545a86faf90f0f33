// Package cmd provides the CLI commands for the streak application.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak/internal/adapters/tui"
	"github.com/xvierd/streak/internal/config"
	"github.com/xvierd/streak/internal/logger"
	"github.com/xvierd/streak/internal/services"
	"github.com/xvierd/streak/internal/snapshot"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	configPath string
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "streak",
	Short: "Streak - a focus timer with streaks and statistics",
	Long: `Streak is a countdown focus timer. Completed focus sessions feed
daily, monthly and yearly statistics and a day streak.

Run "streak" with no arguments to open the interactive timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchTUI()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// Services are released even when a command fails.
func Execute() {
	err := rootCmd.Execute()
	if cerr := cleanupServices(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.streak/streak.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.streak/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Streak\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(switchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(mcpCmd)
}

// launchTUI runs the interactive timer until the user quits.
func launchTUI() error {
	ctx := setupSignalHandler()

	timer := tui.NewTimer(app.ctrl, app.state, &app.config.Theme)
	timer.SetNotifications(app.notifier.IsEnabled(), func(enabled bool) {
		app.notifier.SetEnabled(enabled)
		app.ctrl.UpdatePreferences(func(p *snapshot.Preferences) {
			p.Notifications = enabled
		})
		app.config.Notifications.Enabled = enabled
		if err := config.Save(app.config, configPath); err != nil {
			logger.Warn("failed to save config", "error", err)
		}
	})

	unsubscribe := app.achievements.OnUnlock(func(u services.Unlock) {
		timer.ShowMessage(fmt.Sprintf("Achievement unlocked: %s", u.Achievement.Title))
	})
	defer unsubscribe()

	if err := timer.Run(ctx); err != nil {
		return fmt.Errorf("timer error: %w", err)
	}
	return nil
}

// formatMinutes formats a duration as a human-friendly string like "25m" or "1h30m".
func formatMinutes(d time.Duration) string {
	if d >= time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
	if s := int(d.Seconds()) % 60; s != 0 {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), s)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}

// formatClock formats a duration as MM:SS.
func formatClock(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

// getDir returns the directory of a file path.
func getDir(path string) string {
	lastSep := 0
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			lastSep = i
			break
		}
	}
	if lastSep == 0 {
		return "."
	}
	return path[:lastSep]
}
