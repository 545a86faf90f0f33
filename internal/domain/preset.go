package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Stable preset identifiers.
const (
	PresetFocus      = "focus"
	PresetShortFocus = "shortFocus"
	PresetBreak      = "break"
	PresetShortBreak = "shortBreak"
)

// Preset is a named timer configuration.
type Preset struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationSeconds int    `json:"durationSeconds"`
	Countable       bool   `json:"countable"`
}

// Validate checks that the preset can drive a countdown.
func (p Preset) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPreset)
	}
	if p.DurationSeconds <= 0 {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPreset, p.ID, ErrInvalidDuration)
	}
	return nil
}

// Valid reports whether Validate returns nil.
func (p Preset) Valid() bool {
	return p.Validate() == nil
}

// Duration returns the preset length as a time.Duration.
func (p Preset) Duration() time.Duration {
	return time.Duration(p.DurationSeconds) * time.Second
}

// Label returns the display name, falling back to the ID.
func (p Preset) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// DefaultPresets returns the built-in preset set.
func DefaultPresets() PresetSet {
	return NewPresetSet(
		Preset{ID: PresetFocus, Name: "Focus", DurationSeconds: 25 * 60, Countable: true},
		Preset{ID: PresetShortFocus, Name: "Short Focus", DurationSeconds: 15 * 60, Countable: true},
		Preset{ID: PresetBreak, Name: "Break", DurationSeconds: 5 * 60, Countable: false},
		Preset{ID: PresetShortBreak, Name: "Short Break", DurationSeconds: 3 * 60, Countable: false},
	)
}

// PresetSet is an ordered collection of presets keyed by ID.
// The zero value is an empty set ready to use.
type PresetSet struct {
	items []Preset
}

// NewPresetSet builds a set from presets. Invalid presets are skipped and a
// later preset with the same ID replaces an earlier one.
func NewPresetSet(presets ...Preset) PresetSet {
	var s PresetSet
	for _, p := range presets {
		s.Put(p)
	}
	return s
}

// Get returns the preset with the given ID.
func (s PresetSet) Get(id string) (Preset, bool) {
	for _, p := range s.items {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// Put inserts or replaces a preset. Invalid presets are ignored.
func (s *PresetSet) Put(p Preset) bool {
	if !p.Valid() {
		return false
	}
	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i] = p
			return true
		}
	}
	s.items = append(s.items, p)
	return true
}

// SetDuration changes the duration of an existing preset and returns the
// updated definition.
func (s *PresetSet) SetDuration(id string, seconds int) (Preset, error) {
	if seconds <= 0 {
		return Preset{}, ErrInvalidDuration
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].DurationSeconds = seconds
			return s.items[i], nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, id)
}

// IDs returns preset IDs in order.
func (s PresetSet) IDs() []string {
	ids := make([]string, len(s.items))
	for i, p := range s.items {
		ids[i] = p.ID
	}
	return ids
}

// All returns a copy of the presets in order.
func (s PresetSet) All() []Preset {
	out := make([]Preset, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of presets.
func (s PresetSet) Len() int {
	return len(s.items)
}

// Clone returns an independent copy.
func (s PresetSet) Clone() PresetSet {
	return PresetSet{items: s.All()}
}

// MarshalJSON encodes the set as an ordered array.
func (s PresetSet) MarshalJSON() ([]byte, error) {
	items := s.items
	if items == nil {
		items = []Preset{}
	}
	return json.Marshal(items)
}

// UnmarshalJSON replaces the set with the decoded array, keeping every
// entry with an ID so that later normalization can repair durations.
func (s *PresetSet) UnmarshalJSON(data []byte) error {
	var items []Preset
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	s.items = nil
	for _, p := range items {
		if p.ID == "" {
			continue
		}
		replaced := false
		for i := range s.items {
			if s.items[i].ID == p.ID {
				s.items[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			s.items = append(s.items, p)
		}
	}
	return nil
}

// Normalize makes configured the source of truth for preset definitions.
// Invalid presets fall back to their configured definition and missing ones
// are re-added. Names and countable flags always follow configured. A stored
// duration is kept unless configured changed it relative to previous, the
// configuration in effect when the set was last saved.
func (s *PresetSet) Normalize(configured, previous PresetSet) {
	kept := make([]Preset, 0, len(s.items))
	for _, p := range s.items {
		c, known := configured.Get(p.ID)
		switch {
		case !p.Valid() && known:
			p = c
		case !p.Valid():
			continue
		case known:
			if c.Name != "" {
				p.Name = c.Name
			}
			p.Countable = c.Countable
			if prev, ok := previous.Get(p.ID); ok && prev.DurationSeconds != c.DurationSeconds {
				p.DurationSeconds = c.DurationSeconds
			}
		}
		kept = append(kept, p)
	}
	s.items = kept
	for _, c := range configured.items {
		if _, ok := s.Get(c.ID); !ok {
			s.items = append(s.items, c)
		}
	}
}
