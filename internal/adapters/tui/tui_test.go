package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/streak/internal/config"
	"github.com/xvierd/streak/internal/domain"
)

// fakeControl records the commands sent from key presses.
type fakeControl struct {
	timer   domain.TimerState
	presets domain.PresetSet
	calls   []string
}

func newFakeControl() *fakeControl {
	presets := domain.DefaultPresets()
	focus, _ := presets.Get(domain.PresetFocus)
	return &fakeControl{timer: domain.NewTimerState(focus), presets: presets}
}

func (f *fakeControl) Start() {
	f.calls = append(f.calls, "start")
	f.timer.Start(time.Now())
}

func (f *fakeControl) Pause() {
	f.calls = append(f.calls, "pause")
	f.timer.Pause(time.Now())
}

func (f *fakeControl) Reset() {
	f.calls = append(f.calls, "reset")
	f.timer.Reset()
}

func (f *fakeControl) SwitchPreset(id string) bool {
	f.calls = append(f.calls, "switch:"+id)
	p, ok := f.presets.Get(id)
	return ok && f.timer.SwitchPreset(p)
}

func (f *fakeControl) UpdatePresetDuration(string, int) bool { return false }
func (f *fakeControl) ResetStatistics()                       {}
func (f *fakeControl) TimerState() domain.TimerState          { return f.timer }
func (f *fakeControl) Stats() domain.Stats                    { return domain.NewStats() }
func (f *fakeControl) Presets() domain.PresetSet              { return f.presets.Clone() }
func (f *fakeControl) Achievements() domain.Achievements      { return domain.NewAchievements() }
func (f *fakeControl) Subscribe(func()) (unsubscribe func())  { return func() {} }

type fakeProvider struct {
	control *fakeControl
	stats   domain.Stats
}

func (p *fakeProvider) GetCurrentState(context.Context) (*domain.CurrentState, error) {
	cs := domain.NewCurrentState(p.control.timer, p.stats, time.Now(), time.Local)
	return &cs, nil
}

func key(s string) tea.Msg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func newTestModel() (Model, *fakeControl) {
	control := newFakeControl()
	m := NewModel(control, &fakeProvider{control: control, stats: domain.NewStats()}, nil)
	m.width = 80
	m.height = 24
	return m, control
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key(k))
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, want Model", next)
	}
	return model, cmd
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{25 * time.Minute, "25:00"},
		{5 * time.Minute, "05:00"},
		{1*time.Minute + 30*time.Second, "01:30"},
		{0, "00:00"},
		{-time.Second, "00:00"},
		{90 * time.Minute, "1:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatDuration(tt.duration)
			if got != tt.want {
				t.Errorf("formatDuration(%v) = %v, want %v", tt.duration, got, tt.want)
			}
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0m"},
		{1500, "25m"},
		{3900, "1h 05m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.seconds); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestWeekBars(t *testing.T) {
	week := []domain.StatBucketEntry{
		{SessionCount: 0}, {SessionCount: 1}, {SessionCount: 2}, {SessionCount: 4},
	}
	got := weekBars(week)
	if []rune(got)[0] != '·' {
		t.Errorf("empty day = %q, want ·", string([]rune(got)[0]))
	}
	if []rune(got)[3] != '█' {
		t.Errorf("busiest day = %q, want █", string([]rune(got)[3]))
	}
	if weekBars(make([]domain.StatBucketEntry, 7)) != "·······" {
		t.Error("an idle week should render dots only")
	}
}

func TestResolveTheme(t *testing.T) {
	resolved := resolveTheme(&config.ThemeConfig{ColorFocus: "#000000"})
	if resolved.ColorFocus != "#000000" {
		t.Errorf("ColorFocus = %s, want override kept", resolved.ColorFocus)
	}
	if resolved.ColorBreak != config.DefaultThemeConfig().ColorBreak {
		t.Errorf("ColorBreak = %s, want default", resolved.ColorBreak)
	}
	if resolveTheme(nil) != config.DefaultThemeConfig() {
		t.Error("resolveTheme(nil) should return defaults")
	}
}

func TestModel_Keys(t *testing.T) {
	tests := []struct {
		name      string
		keys      []string
		wantCalls []string
		wantPhase domain.Phase
		wantID    string
	}{
		{"start", []string{"s"}, []string{"start"}, domain.PhaseRunning, domain.PresetFocus},
		{"start then reset", []string{"s", "r"}, []string{"start", "reset"}, domain.PhaseIdle, domain.PresetFocus},
		{"switch to break", []string{"3"}, []string{"switch:" + domain.PresetBreak}, domain.PhaseIdle, domain.PresetBreak},
		{"switch to short break", []string{"4"}, []string{"switch:" + domain.PresetShortBreak}, domain.PhaseIdle, domain.PresetShortBreak},
		{"out of range preset ignored", []string{"9"}, nil, domain.PhaseIdle, domain.PresetFocus},
		{"unknown key ignored", []string{"x"}, nil, domain.PhaseIdle, domain.PresetFocus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, control := newTestModel()
			for _, k := range tt.keys {
				m, _ = press(t, m, k)
			}
			if strings.Join(control.calls, ",") != strings.Join(tt.wantCalls, ",") {
				t.Errorf("calls = %v, want %v", control.calls, tt.wantCalls)
			}
			if got := m.state.Timer.Phase(); got != tt.wantPhase {
				t.Errorf("phase = %s, want %s", got, tt.wantPhase)
			}
			if got := m.state.Timer.ActivePreset.ID; got != tt.wantID {
				t.Errorf("active preset = %s, want %s", got, tt.wantID)
			}
		})
	}
}

func TestModel_PauseKey(t *testing.T) {
	m, control := newTestModel()
	m, _ = press(t, m, "s")
	m, _ = press(t, m, "p")

	if strings.Join(control.calls, ",") != "start,pause" {
		t.Errorf("calls = %v, want start,pause", control.calls)
	}
	if m.state.Timer.Running {
		t.Error("timer should not be running after [p]")
	}
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m, _ := newTestModel()
			var msg tea.Msg
			if k == "ctrl+c" {
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			} else {
				msg = key(k)
			}
			_, cmd := m.Update(msg)
			if cmd == nil {
				t.Fatal("quit key should return a command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("quit key should return tea.Quit")
			}
		})
	}
}

func TestModel_NotificationToggle(t *testing.T) {
	m, _ := newTestModel()
	var got []bool
	m.SetNotifications(true, func(on bool) { got = append(got, on) })

	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "tab")

	if len(got) != 2 || got[0] || !got[1] {
		t.Errorf("toggle calls = %v, want [false true]", got)
	}
	if !m.notificationsEnabled {
		t.Error("notifications should be back on")
	}
}

func TestModel_CompletionBanner(t *testing.T) {
	m, control := newTestModel()
	m, _ = press(t, m, "s")

	done := control.timer
	done.Running = false
	done.Complete = true
	done.RemainingSeconds = 0
	done.EndsAt = nil

	next, _ := m.Update(stateMsg{state: &domain.CurrentState{Timer: done, Today: domain.StatBucketEntry{SessionCount: 3}}})
	m = next.(Model)

	if !strings.Contains(m.banner, "Focus complete") {
		t.Errorf("banner = %q, want completion message", m.banner)
	}
	if !strings.Contains(m.View(), "Session #3 today") {
		t.Error("View() should show the completion banner")
	}

	for i := 0; i < bannerTicks; i++ {
		next, _ = m.Update(tickMsg(time.Now()))
		m = next.(Model)
	}
	if m.banner != "" {
		t.Errorf("banner = %q, want cleared after %d ticks", m.banner, bannerTicks)
	}
}

func TestModel_BannerMsg(t *testing.T) {
	m, _ := newTestModel()
	next, _ := m.Update(bannerMsg("Unlocked: First Step"))
	m = next.(Model)
	if !strings.Contains(m.View(), "Unlocked: First Step") {
		t.Error("View() should show the banner")
	}
}

func TestModel_View(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeControl)
		want  []string
	}{
		{"idle", func(*fakeControl) {}, []string{"streak", "Focus", "Ready", "[s]tart"}},
		{"running", func(c *fakeControl) { c.timer.Start(time.Now()) }, []string{"Running", "[p]ause"}},
		{"paused", func(c *fakeControl) { c.timer.RemainingSeconds = 600 }, []string{"PAUSED", "[s] resume"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, control := newTestModel()
			tt.setup(control)
			m.state = &domain.CurrentState{Timer: control.timer}

			view := m.View()
			for _, w := range tt.want {
				if !strings.Contains(view, w) {
					t.Errorf("View() missing %q", w)
				}
			}
		})
	}
}

func TestModel_View_Loading(t *testing.T) {
	m, _ := newTestModel()
	m.width = 0
	if m.View() != "Loading..." {
		t.Error("View() should show loading before the first resize")
	}
}

func TestModel_StateMsg(t *testing.T) {
	m, control := newTestModel()
	provider := &fakeProvider{control: control, stats: domain.NewStats()}
	provider.stats.RecordCompletion(domain.SessionCompleted{ID: "a", OccurredAt: time.Now(), DurationSeconds: 1500, PresetID: domain.PresetFocus}, time.Local)
	m.provider = provider

	msg := m.fetchStateCmd()()
	next, _ := m.Update(msg)
	m = next.(Model)

	if m.state.Today.SessionCount != 1 {
		t.Errorf("Today.SessionCount = %d, want 1", m.state.Today.SessionCount)
	}
	if !strings.Contains(m.View(), "1 session, 25m focused") {
		t.Error("View() should show today's totals")
	}
}

func TestRenderBigTime(t *testing.T) {
	big := renderBigTime("25:00", "#FFFFFF", 80)
	if strings.Count(big, "\n") != 4 {
		t.Errorf("big time should span 5 lines, got %d", strings.Count(big, "\n")+1)
	}
	small := renderBigTime("25:00", "#FFFFFF", 30)
	if strings.Contains(small, "\n") {
		t.Error("narrow terminals should fall back to one line")
	}
}

func TestPickerModel(t *testing.T) {
	presets := domain.DefaultPresets()

	t.Run("starts on active preset", func(t *testing.T) {
		m := newPickerModel("Switch preset", presets, domain.PresetBreak, nil)
		if m.matches[m.cursor].ID != domain.PresetBreak {
			t.Errorf("cursor on %s, want %s", m.matches[m.cursor].ID, domain.PresetBreak)
		}
	})

	t.Run("filter and select", func(t *testing.T) {
		var model tea.Model = newPickerModel("Switch preset", presets, domain.PresetFocus, nil)
		for _, r := range "shrt brk" {
			model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
		model, _ = model.Update(key("enter"))

		res := model.(pickerModel).result()
		if res.Aborted {
			t.Fatal("picker aborted")
		}
		if res.Preset.ID != domain.PresetShortBreak {
			t.Errorf("picked %s, want %s", res.Preset.ID, domain.PresetShortBreak)
		}
	})

	t.Run("escape aborts", func(t *testing.T) {
		var model tea.Model = newPickerModel("Switch preset", presets, domain.PresetFocus, nil)
		model, _ = model.Update(key("esc"))
		if !model.(pickerModel).result().Aborted {
			t.Error("esc should abort")
		}
	})

	t.Run("navigation", func(t *testing.T) {
		var model tea.Model = newPickerModel("Switch preset", presets, domain.PresetFocus, nil)
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
		model, _ = model.Update(key("enter"))
		if got := model.(pickerModel).result().Preset.ID; got != domain.PresetShortFocus {
			t.Errorf("picked %s, want %s", got, domain.PresetShortFocus)
		}
	})
}

func TestFitWidth(t *testing.T) {
	long := strings.Repeat("x", 50)
	if got := fitWidth(long, 0); got != long {
		t.Errorf("zero width changed string: %q", got)
	}
	got := fitWidth(long, 20)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis, got %q", got)
	}
	if w := lipgloss.Width(got); w > 18 {
		t.Errorf("truncated width = %d, want <= 18", w)
	}
	if got := fitWidth("short", 20); got != "short" {
		t.Errorf("short string changed: %q", got)
	}
}
