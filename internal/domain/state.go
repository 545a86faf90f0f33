package domain

import (
	"time"
)

// CurrentState is a point-in-time summary of the timer and today's progress.
type CurrentState struct {
	Timer        TimerState
	Today        StatBucketEntry
	Week         []StatBucketEntry
	Stats        Stats
	StreakActive bool
	At           time.Time
}

// IsSessionActive returns true if the countdown is running or paused.
func (cs *CurrentState) IsSessionActive() bool {
	phase := cs.Timer.Phase()
	return phase == PhaseRunning || phase == PhasePaused
}

// CanStartSession returns true if Start would begin or resume a countdown.
func (cs *CurrentState) CanStartSession() bool {
	return !cs.Timer.Running
}

// NewCurrentState derives the summary for now in loc.
func NewCurrentState(timer TimerState, stats Stats, now time.Time, loc *time.Location) CurrentState {
	today, ok := stats.Daily.Get(DayKey(now, loc))
	if !ok {
		today = StatBucketEntry{BucketKey: DayKey(now, loc)}
	}
	return CurrentState{
		Timer:        timer,
		Today:        today,
		Week:         stats.LastSevenDays(now, loc),
		Stats:        stats,
		StreakActive: stats.StreakActive(now, loc),
		At:           now,
	}
}

// GetPhaseLabel returns a human-readable label for the phase.
func GetPhaseLabel(p Phase) string {
	switch p {
	case PhaseIdle:
		return "Ready"
	case PhaseRunning:
		return "Running"
	case PhasePaused:
		return "Paused"
	case PhaseComplete:
		return "Complete"
	default:
		return "Unknown"
	}
}
