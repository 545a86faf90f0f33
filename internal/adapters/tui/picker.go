package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/streak/internal/config"
	"github.com/xvierd/streak/internal/domain"
	"github.com/xvierd/streak/internal/services"
)

// PickerResult holds the outcome of a picker interaction.
type PickerResult struct {
	Preset  domain.Preset
	Aborted bool
}

// pickerModel lists presets and narrows them as the user types.
type pickerModel struct {
	title   string
	presets domain.PresetSet
	active  string
	filter  textinput.Model
	matches []domain.Preset
	cursor  int
	chosen  bool
	aborted bool
	theme   config.ThemeConfig
}

func newPickerModel(title string, presets domain.PresetSet, active string, theme *config.ThemeConfig) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.CharLimit = 40
	ti.Width = 30
	ti.Focus()

	m := pickerModel{
		title:   title,
		presets: presets,
		active:  active,
		filter:  ti,
		matches: presets.All(),
		theme:   resolveTheme(theme),
	}
	for i, p := range m.matches {
		if p.ID == active {
			m.cursor = i
		}
	}
	return m
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "ctrl+k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+j":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if len(m.matches) == 0 {
				return m, nil
			}
			m.chosen = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.matches = services.MatchPresets(m.filter.Value(), m.presets)
		m.cursor = 0
	}
	return m, cmd
}

func (m pickerModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorFocus)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  "+m.title) + " " + m.filter.View() + "\n\n")

	if len(m.matches) == 0 {
		b.WriteString(dimStyle.Render("    no matching preset") + "\n")
	}
	for i, p := range m.matches {
		desc := formatDuration(p.Duration())
		if !p.Countable {
			desc += " (break)"
		}
		if p.ID == m.active {
			desc += " *"
		}
		if i == m.cursor {
			b.WriteString(activeStyle.Render(fmt.Sprintf("  ▸ %-14s %s", p.Label(), desc)) + "\n")
		} else {
			b.WriteString(dimStyle.Render(fmt.Sprintf("    %-14s %s", p.Label(), desc)) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑/↓ navigate · enter select · esc cancel") + "\n")

	return b.String()
}

func (m pickerModel) result() PickerResult {
	if m.aborted || !m.chosen || len(m.matches) == 0 {
		return PickerResult{Aborted: true}
	}
	return PickerResult{Preset: m.matches[m.cursor]}
}

// RunPresetPicker launches an interactive preset picker.
func RunPresetPicker(presets domain.PresetSet, active string, theme *config.ThemeConfig) PickerResult {
	p := tea.NewProgram(newPickerModel("Switch preset", presets, active, theme))
	result, err := p.Run()
	if err != nil {
		return PickerResult{Aborted: true}
	}
	return result.(pickerModel).result()
}
