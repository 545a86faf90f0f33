package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/xvierd/streak/internal/config"
	"github.com/xvierd/streak/internal/domain"
)

var statsChart bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of session statistics",
	Long:  `Display session counts, focus hours, streaks and the last seven days, followed by monthly and yearly totals.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		loc := app.ctrl.Location()
		stats := app.ctrl.Stats()

		if jsonOutput {
			return outputStatsJSON(cmd.OutOrStdout(), stats, stats.LastSevenDays(now, loc))
		}

		fmt.Fprintln(cmd.OutOrStdout())
		renderDashboard(cmd.OutOrStdout(), stats, now, loc, &app.config.Theme, statsChart)
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVarP(&statsChart, "chart", "c", false, "Plot focus minutes for the last seven days")
	rootCmd.AddCommand(statsCmd)
}

// outputStatsJSON writes the statistics together with the last seven days.
func outputStatsJSON(w io.Writer, stats domain.Stats, week []domain.StatBucketEntry) error {
	jsonData, err := json.MarshalIndent(map[string]interface{}{
		"stats":           stats,
		"last_seven_days": week,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}

func renderDashboard(w io.Writer, stats domain.Stats, now time.Time, loc *time.Location, theme *config.ThemeConfig, chart bool) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorTitle))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorFocus))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorFocus))

	// Header
	fmt.Fprintf(w, "  %s\n", titleStyle.Render("Statistics"))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	totalHours := float64(stats.TotalFocusSeconds) / 3600
	fmt.Fprintf(w, "  Total: %s sessions, %s focus\n",
		valueStyle.Render(fmt.Sprintf("%d", stats.SessionsCompleted)),
		valueStyle.Render(formatHours(totalHours)),
	)
	streak := fmt.Sprintf("%d day%s", stats.CurrentStreakDays, plural(stats.CurrentStreakDays))
	if stats.CurrentStreakDays > 0 && !stats.StreakActive(now, loc) {
		streak += " (broken)"
	}
	fmt.Fprintf(w, "  Streak: %s  %s\n\n",
		valueStyle.Render(streak),
		dimStyle.Render(fmt.Sprintf("longest %d", stats.LongestStreakDays)),
	)

	if stats.SessionsCompleted == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No completed sessions yet."))
		return
	}

	week := stats.LastSevenDays(now, loc)
	fmt.Fprintf(w, "  %s\n", dimStyle.Render("Last 7 days"))
	renderWeekBars(w, week, loc, dimStyle, barColor)
	fmt.Fprintln(w)

	if chart {
		fmt.Fprintln(w, renderWeekChart(week))
		fmt.Fprintln(w)
	}

	renderSeries(w, "Months", stats.Monthly.Entries(), dimStyle, valueStyle)
	renderSeries(w, "Years", stats.Yearly.Entries(), dimStyle, valueStyle)
}

func renderWeekBars(w io.Writer, week []domain.StatBucketEntry, loc *time.Location, dimStyle, barColor lipgloss.Style) {
	maxSeconds := 0
	for _, e := range week {
		if e.TotalDurationSeconds > maxSeconds {
			maxSeconds = e.TotalDurationSeconds
		}
	}

	maxBarWidth := 30
	for _, e := range week {
		barWidth := 0
		if maxSeconds > 0 {
			barWidth = int(math.Round(float64(e.TotalDurationSeconds) / float64(maxSeconds) * float64(maxBarWidth)))
		}
		if barWidth < 1 && e.TotalDurationSeconds > 0 {
			barWidth = 1
		}
		label := e.BucketKey
		if day, err := domain.ParseDayKey(e.BucketKey, loc); err == nil {
			label = day.Format("Mon 02")
		}
		fmt.Fprintf(w, "  %s %s %d (%s)\n",
			dimStyle.Render(fmt.Sprintf("%-7s", label)),
			barColor.Render(buildBar(barWidth)),
			e.SessionCount,
			formatHours(float64(e.TotalDurationSeconds)/3600),
		)
	}
}

// renderWeekChart plots focus minutes per day.
func renderWeekChart(week []domain.StatBucketEntry) string {
	data := make([]float64, len(week))
	for i, e := range week {
		data[i] = float64(e.TotalDurationSeconds) / 60
	}
	return asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(42),
		asciigraph.Offset(4),
		asciigraph.Caption("focus minutes, oldest day first"),
	)
}

func renderSeries(w io.Writer, title string, entries []domain.StatBucketEntry, dimStyle, valueStyle lipgloss.Style) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s\n", dimStyle.Render(title))
	for _, e := range entries {
		fmt.Fprintf(w, "  %s  %s session%s  %s\n",
			dimStyle.Render(fmt.Sprintf("%-8s", e.BucketKey)),
			valueStyle.Render(fmt.Sprintf("%3d", e.SessionCount)),
			plural(e.SessionCount),
			formatHours(float64(e.TotalDurationSeconds)/3600),
		)
	}
	fmt.Fprintln(w)
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

// formatHours formats a float hours value as "Xh Ym".
func formatHours(h float64) string {
	if h < 0.01 {
		return "0m"
	}
	hours := int(h)
	minutes := int(math.Round((h - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}
