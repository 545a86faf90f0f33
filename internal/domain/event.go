package domain

import "time"

// SessionCompleted is emitted once when a countable preset counts down to zero.
type SessionCompleted struct {
	ID              string    `json:"id"`
	OccurredAt      time.Time `json:"occurredAt"`
	DurationSeconds int       `json:"durationSeconds"`
	PresetID        string    `json:"presetId"`
}

// NewSessionCompleted creates an event for preset p finishing at at.
func NewSessionCompleted(p Preset, at time.Time) SessionCompleted {
	return SessionCompleted{
		ID:              NewID(),
		OccurredAt:      at,
		DurationSeconds: p.DurationSeconds,
		PresetID:        p.ID,
	}
}

// CompletionRecord is a SessionCompleted enriched for the history log.
type CompletionRecord struct {
	SessionCompleted
	GitBranch string `json:"gitBranch,omitempty"`
	GitCommit string `json:"gitCommit,omitempty"`
}
