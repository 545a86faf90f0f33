// Package clock provides wall-clock and ticker adapters.
package clock

import (
	"sync"
	"time"

	"github.com/xvierd/streak/internal/ports"
)

// System reads the real wall clock.
type System struct{}

// Ensure System implements ports.Clock.
var _ ports.Clock = System{}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// Ticker drives callbacks from a time.Ticker on its own goroutine.
type Ticker struct{}

// Ensure Ticker implements ports.Ticker.
var _ ports.Ticker = Ticker{}

// NewTicker returns a ticker adapter.
func NewTicker() Ticker {
	return Ticker{}
}

// Start calls fn every interval until the returned stop function is called.
// Stop returns immediately; a callback already running is allowed to finish.
func (Ticker) Start(interval time.Duration, fn func()) func() {
	t := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		for {
			select {
			case <-t.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}
