// Package snapshot persists the whole timer state as one versioned JSON
// document and restores it over defaults.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/streak/internal/domain"
	"github.com/xvierd/streak/internal/logger"
	"github.com/xvierd/streak/internal/ports"
)

// Key is the blob store key holding the snapshot.
const Key = "streak.snapshot"

// SchemaVersion is the current document version.
// Version 1 documents predate the explicit countable flag on presets.
const SchemaVersion = 2

// Snapshot is everything that survives a restart.
type Snapshot struct {
	Version      int                 `json:"version"`
	Timer        TimerSection        `json:"timer"`
	Preferences  Preferences         `json:"preferences"`
	Stats        domain.Stats        `json:"stats"`
	Achievements domain.Achievements `json:"achievements"`
}

// TimerSection holds the countdown state and the preset definitions.
// Configured records the presets the defaults supplied when the document was
// written, so a later change to the defaults can be told apart from a
// duration edited at runtime.
type TimerSection struct {
	domain.TimerState
	Presets    domain.PresetSet `json:"presets"`
	Configured domain.PresetSet `json:"configuredPresets"`
}

// Preferences are user settings the timer core carries but never interprets.
type Preferences struct {
	Notifications   bool           `json:"notifications"`
	Sound           bool           `json:"sound"`
	AutoStartBreaks bool           `json:"autoStartBreaks"`
	Theme           string         `json:"theme"`
	Extra           map[string]any `json:"extra,omitempty"`
}

// Defaults describes the state used when nothing has been persisted yet.
type Defaults struct {
	Presets       domain.PresetSet
	DefaultPreset string
	Preferences   Preferences
}

// DefaultPreferences returns the built-in preferences.
func DefaultPreferences() Preferences {
	return Preferences{Notifications: true, Sound: true, Theme: "default"}
}

// DefaultDefaults returns the built-in defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		Presets:       domain.DefaultPresets(),
		DefaultPreset: domain.PresetFocus,
		Preferences:   DefaultPreferences(),
	}
}

// New builds a fresh snapshot from d.
func New(d Defaults) Snapshot {
	presets := d.Presets.Clone()
	if presets.Len() == 0 {
		presets = domain.DefaultPresets()
	}
	active, ok := presets.Get(d.DefaultPreset)
	if !ok {
		active = presets.All()[0]
	}
	return Snapshot{
		Version: SchemaVersion,
		Timer: TimerSection{
			TimerState: domain.NewTimerState(active),
			Presets:    presets,
			Configured: presets.Clone(),
		},
		Preferences:  d.Preferences.clone(),
		Stats:        domain.NewStats(),
		Achievements: domain.NewAchievements(),
	}
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Timer.Presets = s.Timer.Presets.Clone()
	c.Timer.Configured = s.Timer.Configured.Clone()
	if s.Timer.EndsAt != nil {
		endsAt := *s.Timer.EndsAt
		c.Timer.EndsAt = &endsAt
	}
	c.Preferences = s.Preferences.clone()
	c.Stats = s.Stats.Clone()
	c.Achievements = s.Achievements.Clone()
	return c
}

func (p Preferences) clone() Preferences {
	c := p
	if p.Extra != nil {
		c.Extra = make(map[string]any, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// Marshal encodes the snapshot with the current schema version.
func Marshal(s Snapshot) ([]byte, error) {
	s.Version = SchemaVersion
	return json.Marshal(s)
}

// Decode merges data over the defaults, migrates older versions and repairs
// invariants. Fields with the wrong type keep their default. It fails only
// when data is not a JSON object.
func Decode(data []byte, d Defaults) (Snapshot, error) {
	if d.Presets.Len() == 0 {
		d.Presets = domain.DefaultPresets()
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return New(d), fmt.Errorf("failed to decode snapshot: %w", err)
	}
	snap := New(d)
	snap.Version = 0
	if err := json.Unmarshal(data, &snap); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return New(d), fmt.Errorf("failed to decode snapshot: %w", err)
		}
		logger.Warn("snapshot field ignored", "field", typeErr.Field, "error", err)
	}
	if snap.Version == 0 {
		snap.Version = 1
	}
	migrate(&snap, d)
	normalize(&snap, d)
	return snap, nil
}

// Load reads the snapshot from store. A missing, unreadable or corrupt
// document yields the defaults; Load never fails.
func Load(ctx context.Context, store ports.BlobStore, d Defaults) Snapshot {
	data, err := store.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			logger.Warn("snapshot unreadable, using defaults", "error", err)
		}
		return New(d)
	}
	snap, err := Decode(data, d)
	if err != nil {
		logger.Warn("snapshot corrupt, using defaults", "error", err)
		return New(d)
	}
	return snap
}

// Save writes the snapshot to store.
func Save(ctx context.Context, store ports.BlobStore, s Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := store.Set(ctx, Key, data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// migrate upgrades older documents to SchemaVersion.
func migrate(s *Snapshot, d Defaults) {
	if s.Version < 2 {
		// v1 had no countable flag; normalize takes it from the defaults by ID.
		// It also predates configuredPresets, so stored durations are kept.
		s.Timer.Configured = d.Presets.Clone()
	}
	s.Version = SchemaVersion
}

// normalize repairs invariants that a hand-edited or stale document may break.
// The defaults own preset names and countable flags, and own durations that
// changed since the document was written.
func normalize(s *Snapshot, d Defaults) {
	id := s.Timer.ActivePreset.ID
	before, _ := s.Timer.Presets.Get(id)
	s.Timer.Presets.Normalize(d.Presets, s.Timer.Configured)
	s.Timer.Configured = d.Presets.Clone()
	if after, ok := s.Timer.Presets.Get(id); ok && s.Timer.ActivePreset.Valid() {
		if after.DurationSeconds != before.DurationSeconds && s.Timer.ActivePreset.DurationSeconds == before.DurationSeconds {
			s.Timer.ApplyPresetUpdate(after)
		} else {
			s.Timer.ActivePreset.Name = after.Name
			s.Timer.ActivePreset.Countable = after.Countable
		}
	}

	active := s.Timer.ActivePreset
	if !active.Valid() {
		if p, ok := s.Timer.Presets.Get(active.ID); ok {
			active = p
		} else if p, ok := s.Timer.Presets.Get(d.DefaultPreset); ok {
			active = p
		} else {
			active = s.Timer.Presets.All()[0]
		}
		s.Timer.TimerState = domain.NewTimerState(active)
	}
	s.Timer.Normalize()

	s.Stats.Normalize()

	if s.Achievements.Unlocked == nil {
		s.Achievements.Unlocked = map[string]time.Time{}
	}
	if s.Achievements.Quotes == nil {
		s.Achievements.Quotes = []string{}
	}
}
