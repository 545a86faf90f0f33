package domain

import "errors"

var (
	// ErrInvalidDuration is returned when a preset duration is not positive.
	ErrInvalidDuration = errors.New("duration must be a positive number of seconds")

	// ErrUnknownPreset is returned when a preset ID is not in the preset set.
	ErrUnknownPreset = errors.New("unknown preset")

	// ErrInvalidPreset is returned when a preset has no ID or no duration.
	ErrInvalidPreset = errors.New("invalid preset")
)
