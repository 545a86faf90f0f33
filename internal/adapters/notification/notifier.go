// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/streak/internal/config"
	"github.com/xvierd/streak/internal/domain"
	"github.com/xvierd/streak/internal/logger"
)

// Notifier handles desktop notifications.
type Notifier struct {
	mu      sync.RWMutex
	enabled bool
	sound   bool
	send    func(title, message string) error
	beep    func() error
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	n := &Notifier{
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		beep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
	}
	if cfg != nil {
		n.enabled = cfg.Enabled
		n.sound = cfg.Sound
	}
	return n
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	n.mu.RLock()
	enabled, sound := n.enabled, n.sound
	n.mu.RUnlock()
	if !enabled {
		return nil
	}

	if err := n.send(title, message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if sound {
		if err := n.beep(); err != nil {
			logger.Debug("notification sound failed", "error", err)
		}
	}
	return nil
}

// NotifySessionComplete announces a finished countable session.
func (n *Notifier) NotifySessionComplete(p domain.Preset, stats domain.Stats) error {
	title := fmt.Sprintf("%s complete", p.Label())
	message := fmt.Sprintf("Great job! %d sessions so far, %d day streak.", stats.SessionsCompleted, stats.CurrentStreakDays)
	return n.Notify(title, message)
}

// NotifyBreakComplete announces the end of a break.
func (n *Notifier) NotifyBreakComplete(p domain.Preset) error {
	title := "Break Over!"
	message := fmt.Sprintf("Your %s is complete. Ready to focus?", p.Label())
	return n.Notify(title, message)
}

// NotifyAchievement announces an unlocked achievement.
func (n *Notifier) NotifyAchievement(a domain.Achievement, quote string) error {
	title := fmt.Sprintf("Achievement unlocked: %s", a.Title)
	message := a.Description
	if quote != "" {
		message = fmt.Sprintf("%s\n\"%s\"", message, quote)
	}
	return n.Notify(title, message)
}

// SetSound toggles the notification sound at runtime.
func (n *Notifier) SetSound(sound bool) {
	n.mu.Lock()
	n.sound = sound
	n.mu.Unlock()
}

// SetEnabled toggles notifications at runtime.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	n.enabled = enabled
	n.mu.Unlock()
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled
}
