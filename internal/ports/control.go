package ports

import "github.com/xvierd/streak/internal/domain"

// TimerControl is the command and query surface of the timer.
// This is a driving port (used by the CLI, TUI and MCP adapters).
type TimerControl interface {
	// Start begins or resumes the countdown.
	Start()

	// Pause freezes the countdown.
	Pause()

	// Reset returns the timer to idle with the full duration.
	Reset()

	// SwitchPreset activates the preset with the given ID.
	// It returns false when the ID is unknown.
	SwitchPreset(id string) bool

	// UpdatePresetDuration changes a preset's length.
	// It returns false when the ID is unknown or seconds is not positive.
	UpdatePresetDuration(id string, seconds int) bool

	// ResetStatistics clears statistics and achievements.
	ResetStatistics()

	// TimerState returns a copy of the countdown state.
	TimerState() domain.TimerState

	// Stats returns a copy of the statistics.
	Stats() domain.Stats

	// Presets returns a copy of the preset definitions.
	Presets() domain.PresetSet

	// Achievements returns a copy of the unlock state.
	Achievements() domain.Achievements

	// Subscribe registers fn to run after every state change.
	Subscribe(fn func()) (unsubscribe func())
}
