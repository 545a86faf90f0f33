package ports

import "time"

// Clock supplies wall-clock time to the controller.
type Clock interface {
	Now() time.Time
}

// Ticker invokes a callback periodically.
// This is a driven port (implemented by adapters).
type Ticker interface {
	// Start calls fn every interval until stop is called. Stop must not
	// wait for an in-flight fn to return.
	Start(interval time.Duration, fn func()) (stop func())
}
