package tui

import (
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvierd/streak/internal/config"
	"github.com/xvierd/streak/internal/ports"
)

// Timer runs the interactive Bubbletea program against a timer control.
type Timer struct {
	control  ports.TimerControl
	provider ports.StateProvider
	theme    *config.ThemeConfig
	program  *tea.Program
	mu       sync.RWMutex

	notificationsEnabled bool
	notificationToggle   func(bool)
}

// NewTimer creates a new TUI timer adapter.
func NewTimer(control ports.TimerControl, provider ports.StateProvider, theme *config.ThemeConfig) *Timer {
	return &Timer{control: control, provider: provider, theme: theme}
}

// SetNotifications sets the initial notification toggle and the hook called when it flips.
func (t *Timer) SetNotifications(enabled bool, toggle func(bool)) {
	t.notificationsEnabled = enabled
	t.notificationToggle = toggle
}

// Run starts the timer interface and blocks until the user quits or ctx ends.
func (t *Timer) Run(ctx context.Context) error {
	model := NewModel(t.control, t.provider, t.theme)
	model.SetNotifications(t.notificationsEnabled, t.notificationToggle)

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	t.mu.Lock()
	t.program = program
	t.mu.Unlock()

	// Listeners may run on the program's own goroutine, so sends must not block.
	unsubscribe := t.control.Subscribe(func() {
		go program.Send(refreshMsg{})
	})
	defer unsubscribe()

	_, err := program.Run()
	t.mu.Lock()
	t.program = nil
	t.mu.Unlock()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// ShowMessage displays a transient banner, e.g. an achievement unlock.
func (t *Timer) ShowMessage(text string) {
	t.mu.RLock()
	program := t.program
	t.mu.RUnlock()

	if program != nil {
		go program.Send(bannerMsg(text))
	}
}

// Stop gracefully stops the timer interface.
func (t *Timer) Stop() {
	t.mu.RLock()
	program := t.program
	t.mu.RUnlock()

	if program != nil {
		program.Quit()
	}
}

// ShowError displays an error message.
func ShowError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
