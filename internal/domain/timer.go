package domain

import "time"

// Phase is the derived lifecycle position of a timer.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseRunning  Phase = "running"
	PhasePaused   Phase = "paused"
	PhaseComplete Phase = "complete"
)

// TimerState is the countdown state for the active preset.
//
// While running, EndsAt holds the absolute deadline and RemainingSeconds is
// recomputed from it on every tick, so late or missed ticks never drift.
type TimerState struct {
	ActivePreset     Preset     `json:"activePreset"`
	RemainingSeconds int        `json:"remainingSeconds"`
	Running          bool       `json:"running"`
	Complete         bool       `json:"complete"`
	EndsAt           *time.Time `json:"endsAt,omitempty"`
}

// NewTimerState returns an idle timer for p.
func NewTimerState(p Preset) TimerState {
	return TimerState{ActivePreset: p, RemainingSeconds: p.DurationSeconds}
}

// Phase derives the lifecycle phase from the flags.
func (t TimerState) Phase() Phase {
	switch {
	case t.Complete:
		return PhaseComplete
	case t.Running:
		return PhaseRunning
	case t.RemainingSeconds == t.ActivePreset.DurationSeconds:
		return PhaseIdle
	default:
		return PhasePaused
	}
}

// Remaining returns the remaining time as a time.Duration.
func (t TimerState) Remaining() time.Duration {
	return time.Duration(t.RemainingSeconds) * time.Second
}

// Progress returns the elapsed fraction of the active preset in [0, 1].
func (t TimerState) Progress() float64 {
	total := t.ActivePreset.DurationSeconds
	if total <= 0 {
		return 0
	}
	p := float64(total-t.RemainingSeconds) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Start begins or resumes the countdown. Starting a completed timer resets
// it first. It returns false when the timer was already running.
func (t *TimerState) Start(now time.Time) bool {
	if t.Running {
		return false
	}
	if t.Complete || t.RemainingSeconds <= 0 {
		t.Reset()
	}
	endsAt := now.Add(t.Remaining())
	t.EndsAt = &endsAt
	t.Running = true
	return true
}

// Pause freezes the countdown. If the deadline has already passed the timer
// completes instead and the completion event, if any, is returned.
func (t *TimerState) Pause(now time.Time) (bool, *SessionCompleted) {
	if !t.Running {
		return false, nil
	}
	if _, ev := t.Tick(now); !t.Running {
		return true, ev
	}
	t.Running = false
	t.EndsAt = nil
	return true, nil
}

// Reset returns the timer to idle with the full preset duration.
func (t *TimerState) Reset() {
	t.RemainingSeconds = t.ActivePreset.DurationSeconds
	t.Running = false
	t.Complete = false
	t.EndsAt = nil
}

// Tick recomputes the remaining time from the deadline. It reports whether
// the state changed and returns the completion event when a countable preset
// reaches zero. Remaining time never increases, so a clock that moves
// backwards leaves the countdown where it was.
func (t *TimerState) Tick(now time.Time) (bool, *SessionCompleted) {
	if !t.Running {
		return false, nil
	}
	if t.EndsAt == nil {
		endsAt := now.Add(t.Remaining())
		t.EndsAt = &endsAt
	}
	remaining := ceilSeconds(t.EndsAt.Sub(now))
	if remaining > t.RemainingSeconds {
		remaining = t.RemainingSeconds
	}
	if remaining == t.RemainingSeconds && remaining > 0 {
		return false, nil
	}
	deadline := *t.EndsAt
	t.RemainingSeconds = remaining
	if remaining > 0 {
		return true, nil
	}
	at := now
	if deadline.Before(now) {
		at = deadline
	}
	return true, t.complete(at)
}

// Step decrements the countdown by exactly one second, regardless of the
// deadline. It is for hosts whose tick source is guaranteed accurate; the
// controller always ticks against the deadline with Tick.
func (t *TimerState) Step(now time.Time) (bool, *SessionCompleted) {
	if !t.Running {
		return false, nil
	}
	t.RemainingSeconds--
	if t.RemainingSeconds > 0 {
		endsAt := now.Add(t.Remaining())
		t.EndsAt = &endsAt
		return true, nil
	}
	return true, t.complete(now)
}

// SwitchPreset makes p the active preset in idle state. Invalid presets are
// rejected and leave the timer unchanged.
func (t *TimerState) SwitchPreset(p Preset) bool {
	if !p.Valid() {
		return false
	}
	t.ActivePreset = p
	t.Reset()
	return true
}

// ApplyPresetUpdate refreshes the active preset after its definition changed.
// Progress is discarded and the timer becomes idle. Updates to other presets
// are ignored.
func (t *TimerState) ApplyPresetUpdate(p Preset) bool {
	if p.ID != t.ActivePreset.ID || !p.Valid() {
		return false
	}
	t.ActivePreset = p
	t.Reset()
	return true
}

// Normalize repairs invariants on a decoded state.
func (t *TimerState) Normalize() {
	total := t.ActivePreset.DurationSeconds
	if t.RemainingSeconds > total {
		t.RemainingSeconds = total
	}
	if t.RemainingSeconds < 0 {
		t.RemainingSeconds = 0
	}
	if t.Complete {
		t.Running = false
		t.RemainingSeconds = 0
		t.EndsAt = nil
		return
	}
	if t.RemainingSeconds == 0 {
		t.Reset()
		return
	}
	if !t.Running {
		t.EndsAt = nil
	} else if t.EndsAt == nil {
		t.Running = false
	}
}

func (t *TimerState) complete(at time.Time) *SessionCompleted {
	t.Running = false
	t.Complete = true
	t.RemainingSeconds = 0
	t.EndsAt = nil
	if !t.ActivePreset.Countable {
		return nil
	}
	ev := NewSessionCompleted(t.ActivePreset, at)
	return &ev
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
