// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"

	"github.com/xvierd/streak/internal/config"
	"github.com/xvierd/streak/internal/domain"
	"github.com/xvierd/streak/internal/ports"
)

// bannerTicks is how many UI ticks a banner stays on screen.
const bannerTicks = 8

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}

// tickMsg is sent on every UI tick.
type tickMsg time.Time

// refreshMsg asks the model to reload state after a controller change.
type refreshMsg struct{}

// stateMsg wraps an updated state fetched asynchronously.
type stateMsg struct {
	state   *domain.CurrentState
	presets []domain.Preset
	err     error
}

// bannerMsg shows a transient message such as an achievement unlock.
type bannerMsg string

// Model represents the TUI state.
type Model struct {
	control  ports.TimerControl
	provider ports.StateProvider
	state    *domain.CurrentState
	presets  []domain.Preset
	progress progress.Model
	width    int
	height   int
	theme    config.ThemeConfig
	lastErr  error

	banner      string
	bannerTicks int

	// Notifications
	notificationsEnabled bool
	notificationToggle   func(bool)
}

// NewModel creates a new TUI model.
func NewModel(control ports.TimerControl, provider ports.StateProvider, theme *config.ThemeConfig) Model {
	resolved := resolveTheme(theme)
	return Model{
		control:  control,
		provider: provider,
		state:    &domain.CurrentState{Timer: control.TimerState()},
		presets:  control.Presets().All(),
		progress: progress.New(progress.WithGradient(resolved.GradientStart, resolved.GradientEnd)),
		width:    getTerminalWidth(),
		theme:    resolved,
	}
}

// SetNotifications sets the initial notification toggle and the hook called when it flips.
func (m *Model) SetNotifications(enabled bool, toggle func(bool)) {
	m.notificationsEnabled = enabled
	m.notificationToggle = toggle
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchStateCmd(), tickCmd())
}

// fetchStateCmd returns a tea.Cmd that fetches state asynchronously.
func (m Model) fetchStateCmd() tea.Cmd {
	control, provider := m.control, m.provider
	return func() tea.Msg {
		state, err := provider.GetCurrentState(context.Background())
		return stateMsg{state: state, presets: control.Presets().All(), err: err}
	}
}

func (m Model) showBanner(text string) Model {
	m.banner = text
	m.bannerTicks = bannerTicks
	return m
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 4

	case tickMsg:
		if m.bannerTicks > 0 {
			m.bannerTicks--
			if m.bannerTicks == 0 {
				m.banner = ""
			}
		}
		return m, tea.Batch(tickCmd(), m.fetchStateCmd())

	case refreshMsg:
		return m, m.fetchStateCmd()

	case bannerMsg:
		m = m.showBanner(string(msg))

	case stateMsg:
		m.lastErr = msg.err
		if msg.state != nil {
			prev := m.state.Timer
			next := msg.state.Timer
			// Detect the countdown reaching zero.
			if !prev.Complete && next.Complete && prev.ActivePreset.ID == next.ActivePreset.ID {
				if next.ActivePreset.Countable {
					m = m.showBanner(fmt.Sprintf("%s complete! Session #%d today.", next.ActivePreset.Label(), msg.state.Today.SessionCount))
				} else {
					m = m.showBanner(fmt.Sprintf("%s over. Ready for the next one?", next.ActivePreset.Label()))
				}
			}
			m.state = msg.state
		}
		if len(msg.presets) > 0 {
			m.presets = msg.presets
		}
	}

	var cmd tea.Cmd
	newProgress, cmd := m.progress.Update(msg)
	if p, ok := newProgress.(progress.Model); ok {
		m.progress = p
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "s":
		m.control.Start()
	case "p":
		m.control.Pause()
	case "r":
		m.control.Reset()
	case "tab":
		m.notificationsEnabled = !m.notificationsEnabled
		if m.notificationToggle != nil {
			m.notificationToggle(m.notificationsEnabled)
		}
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(msg.String()[0] - '1')
		if i >= len(m.presets) {
			return m, nil
		}
		m.control.SwitchPreset(m.presets[i].ID)
	default:
		return m, nil
	}
	m.state.Timer = m.control.TimerState()
	return m, m.fetchStateCmd()
}

// getThemeColor returns the color for the active preset.
func (m Model) getThemeColor() lipgloss.Color {
	if !m.state.Timer.ActivePreset.Countable {
		return lipgloss.Color(m.theme.ColorBreak)
	}
	return lipgloss.Color(m.theme.ColorFocus)
}

// getTimerColor returns the color for the timer, accounting for pause state.
func (m Model) getTimerColor() lipgloss.Color {
	if m.state.Timer.Phase() == domain.PhasePaused {
		return lipgloss.Color(m.theme.ColorPaused)
	}
	return m.getThemeColor()
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	timer := m.state.Timer
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	accentStyle := lipgloss.NewStyle().Foreground(m.getThemeColor())
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	var sections []string

	title := "streak"
	if n := m.state.Stats.CurrentStreakDays; n > 0 {
		title = fmt.Sprintf("streak · %d day%s", n, plural(n))
		if !m.state.StreakActive {
			title += " (lapsed)"
		}
	}
	sections = append(sections, titleStyle.Render(title))
	sections = append(sections, m.viewPresetTabs())
	sections = append(sections, "")
	sections = append(sections, renderBigTime(formatDuration(timer.Remaining()), m.getTimerColor(), m.width))

	switch timer.Phase() {
	case domain.PhasePaused:
		pauseBadge := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(m.theme.ColorPaused)).
			Padding(0, 1).
			Render("PAUSED")
		sections = append(sections, "", pauseBadge)
	case domain.PhaseComplete:
		sections = append(sections, "", accentStyle.Bold(true).Render("Done!"))
	default:
		sections = append(sections, "", helpStyle.Render(domain.GetPhaseLabel(timer.Phase())))
	}

	sections = append(sections, "")
	pbar := m.progress
	pbar.Width = m.width - 4
	sections = append(sections, pbar.ViewAs(timer.Progress()))

	today := m.state.Today
	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(fmt.Sprintf("Today: %d session%s, %s focused",
		today.SessionCount, plural(today.SessionCount), formatMinutes(today.TotalDurationSeconds))))
	if len(m.state.Week) > 0 {
		sections = append(sections, accentStyle.Render(weekBars(m.state.Week)))
	}

	if m.banner != "" {
		sections = append(sections, "", accentStyle.Bold(true).Render(fitWidth(m.banner, m.width)))
	}
	if m.lastErr != nil {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Render(fitWidth("Error: "+m.lastErr.Error(), m.width)))
	}

	notifLabel := "off"
	if m.notificationsEnabled {
		notifLabel = "on"
	}
	action := "[s]tart"
	if timer.Running {
		action = "[p]ause"
	} else if timer.Phase() == domain.PhasePaused {
		action = "[s] resume"
	}
	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(fmt.Sprintf("%s  [r]eset  [1-%d] preset  tab:notify %s  [q]uit", action, len(m.presets), notifLabel)))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	if m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewPresetTabs() string {
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(m.getThemeColor()).Underline(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	tabs := make([]string, 0, len(m.presets))
	for i, p := range m.presets {
		label := fmt.Sprintf("%d %s", i+1, p.Label())
		if p.ID == m.state.Timer.ActivePreset.ID {
			tabs = append(tabs, activeStyle.Render(label))
		} else {
			tabs = append(tabs, dimStyle.Render(label))
		}
	}
	return strings.Join(tabs, "   ")
}

// weekBars renders one block per day scaled to the busiest day.
// fitWidth truncates s to the terminal width. A zero width leaves s alone.
func fitWidth(s string, width int) string {
	if width <= 4 {
		return s
	}
	return ansi.Truncate(s, width-2, "…")
}

func weekBars(week []domain.StatBucketEntry) string {
	blocks := []rune("▁▂▃▄▅▆▇█")
	maxCount := 0
	for _, e := range week {
		if e.SessionCount > maxCount {
			maxCount = e.SessionCount
		}
	}
	var b strings.Builder
	for _, e := range week {
		if maxCount == 0 || e.SessionCount == 0 {
			b.WriteRune('·')
			continue
		}
		idx := (e.SessionCount*len(blocks) - 1) / maxCount
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

// tickCmd creates a command that sends a tick message.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// formatDuration formats a duration as MM:SS, or H:MM:SS past one hour.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// formatMinutes renders seconds as a compact "1h 05m" or "25m".
func formatMinutes(seconds int) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
