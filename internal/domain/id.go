package domain

import "github.com/google/uuid"

// NewID returns a random identifier for completion events.
func NewID() string {
	return uuid.NewString()
}
