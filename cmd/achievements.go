package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/streak/internal/config"
	"github.com/xvierd/streak/internal/services"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Show unlocked and pending achievements",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		progress := app.achievements.Progress()
		quotes := app.ctrl.Achievements().Quotes
		if jsonOutput {
			return outputAchievementsJSON(cmd.OutOrStdout(), progress, quotes)
		}
		printAchievements(cmd.OutOrStdout(), progress, quotes, app.ctrl.Location(), &app.config.Theme)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

func outputAchievementsJSON(w io.Writer, progress []services.AchievementProgress, quotes []string) error {
	items := make([]map[string]interface{}, 0, len(progress))
	for _, p := range progress {
		item := map[string]interface{}{
			"id":          p.Achievement.ID,
			"title":       p.Achievement.Title,
			"description": p.Achievement.Description,
			"unlocked":    p.Unlocked,
		}
		if p.Unlocked {
			item["unlocked_at"] = p.UnlockedAt.Format(time.RFC3339)
		}
		items = append(items, item)
	}
	if quotes == nil {
		quotes = []string{}
	}
	jsonData, err := json.MarshalIndent(map[string]interface{}{
		"achievements": items,
		"quotes":       quotes,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal achievements: %w", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}

func printAchievements(w io.Writer, progress []services.AchievementProgress, quotes []string, loc *time.Location, theme *config.ThemeConfig) {
	unlockedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorFocus))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp))

	unlocked := 0
	for _, p := range progress {
		if p.Unlocked {
			unlocked++
			fmt.Fprintf(w, "  ★ %s  %s\n",
				unlockedStyle.Render(fmt.Sprintf("%-16s", p.Achievement.Title)),
				dimStyle.Render(p.UnlockedAt.In(loc).Format("2006-01-02")),
			)
			continue
		}
		fmt.Fprintf(w, "  ☆ %s  %s\n",
			dimStyle.Render(fmt.Sprintf("%-16s", p.Achievement.Title)),
			dimStyle.Render(p.Achievement.Description),
		)
	}
	fmt.Fprintf(w, "\n  %d of %d unlocked\n", unlocked, len(progress))

	if len(quotes) > 0 {
		fmt.Fprintf(w, "\n  %s\n", dimStyle.Render(fmt.Sprintf("%q", quotes[len(quotes)-1])))
	}
}
