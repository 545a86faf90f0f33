package services

import (
	"context"
	"sync"
	"time"

	"github.com/xvierd/streak/internal/adapters/clock"
	"github.com/xvierd/streak/internal/domain"
	"github.com/xvierd/streak/internal/logger"
	"github.com/xvierd/streak/internal/ports"
	"github.com/xvierd/streak/internal/snapshot"
)

// Deps groups the collaborators of a TimerController.
type Deps struct {
	Store        ports.BlobStore
	Clock        ports.Clock
	Ticker       ports.Ticker
	TickInterval time.Duration
	Location     *time.Location
	Defaults     snapshot.Defaults
}

// TimerController owns the timer, statistics and achievement state. All
// mutation is serialized under one lock; every change is persisted in the
// background and announced to listeners after the lock is released.
type TimerController struct {
	mu       sync.Mutex
	snap     snapshot.Snapshot
	clock    ports.Clock
	ticker   ports.Ticker
	interval time.Duration
	loc      *time.Location
	writer   *snapshot.Writer
	stopTick func()
	tickGen  uint64
	closed   bool

	changeListeners    registry[func(snapshot.Snapshot)]
	completedListeners registry[func(domain.SessionCompleted, domain.Stats)]
	finishedListeners  registry[func(domain.Preset)]
}

// Ensure TimerController implements ports.TimerControl.
var _ ports.TimerControl = (*TimerController)(nil)

// outcome describes what a command did to the state.
type outcome struct {
	changed  bool
	finished bool
	event    *domain.SessionCompleted
}

// NewTimerController loads the persisted snapshot and returns a controller.
// Call Resume after registering listeners to continue a countdown that was
// running when the snapshot was written.
func NewTimerController(ctx context.Context, deps Deps) *TimerController {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Ticker == nil {
		deps.Ticker = clock.NewTicker()
	}
	if deps.TickInterval <= 0 {
		deps.TickInterval = time.Second
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Defaults.Presets.Len() == 0 {
		deps.Defaults = snapshot.DefaultDefaults()
	}

	return &TimerController{
		snap:     snapshot.Load(ctx, deps.Store, deps.Defaults),
		clock:    deps.Clock,
		ticker:   deps.Ticker,
		interval: deps.TickInterval,
		loc:      deps.Location,
		writer:   snapshot.NewWriter(deps.Store),
	}
}

// Resume settles a countdown persisted as running against the current time
// and restarts the ticker if time remains.
func (c *TimerController) Resume() {
	c.mutate("resume", func(now time.Time) outcome {
		if !c.snap.Timer.Running {
			return outcome{}
		}
		out := c.tickLocked(now)
		if c.snap.Timer.Running {
			c.startTickerLocked()
		}
		return out
	})
}

// Start begins or resumes the countdown. Starting a completed timer resets it first.
func (c *TimerController) Start() {
	c.mutate("start", func(now time.Time) outcome {
		if !c.snap.Timer.Start(now) {
			return outcome{}
		}
		c.startTickerLocked()
		return outcome{changed: true}
	})
}

// Pause freezes the countdown.
func (c *TimerController) Pause() {
	c.mutate("pause", func(now time.Time) outcome {
		changed, ev := c.snap.Timer.Pause(now)
		if !changed {
			return outcome{}
		}
		c.stopTickerLocked()
		return outcome{changed: true, finished: c.snap.Timer.Complete, event: ev}
	})
}

// Reset returns the timer to idle with the full duration of the active preset.
func (c *TimerController) Reset() {
	c.mutate("reset", func(time.Time) outcome {
		c.stopTickerLocked()
		c.snap.Timer.Reset()
		return outcome{changed: true}
	})
}

// SwitchPreset activates the preset with the given ID. Unknown IDs are ignored.
func (c *TimerController) SwitchPreset(id string) bool {
	return c.mutate("switch preset", func(time.Time) outcome {
		p, ok := c.snap.Timer.Presets.Get(id)
		if !ok {
			logger.Debug("switch preset ignored", "preset", id, "error", domain.ErrUnknownPreset)
			return outcome{}
		}
		c.stopTickerLocked()
		c.snap.Timer.SwitchPreset(p)
		return outcome{changed: true}
	})
}

// SwitchPresetTo activates an ad-hoc preset. Invalid presets are ignored.
func (c *TimerController) SwitchPresetTo(p domain.Preset) bool {
	return c.mutate("switch preset", func(time.Time) outcome {
		if err := p.Validate(); err != nil {
			logger.Debug("switch preset ignored", "preset", p.ID, "error", err)
			return outcome{}
		}
		c.stopTickerLocked()
		c.snap.Timer.SwitchPreset(p)
		return outcome{changed: true}
	})
}

// UpdatePresetDuration changes a preset's length. When it is the active
// preset the countdown is reset to the new duration.
func (c *TimerController) UpdatePresetDuration(id string, seconds int) bool {
	return c.mutate("update preset", func(time.Time) outcome {
		p, err := c.snap.Timer.Presets.SetDuration(id, seconds)
		if err != nil {
			logger.Debug("update preset ignored", "preset", id, "seconds", seconds, "error", err)
			return outcome{}
		}
		if c.snap.Timer.ApplyPresetUpdate(p) {
			c.stopTickerLocked()
		}
		return outcome{changed: true}
	})
}

// RecordCompletionManually folds an externally produced completion into the
// statistics without touching the timer.
func (c *TimerController) RecordCompletionManually(ev domain.SessionCompleted) bool {
	return c.mutate("record completion", func(now time.Time) outcome {
		if ev.DurationSeconds < 0 {
			logger.Debug("manual completion ignored", "seconds", ev.DurationSeconds, "error", domain.ErrInvalidDuration)
			return outcome{}
		}
		if ev.ID == "" {
			ev.ID = domain.NewID()
		}
		if ev.OccurredAt.IsZero() {
			ev.OccurredAt = now
		}
		return outcome{changed: true, event: &ev}
	})
}

// ResetStatistics clears statistics and achievements.
func (c *TimerController) ResetStatistics() {
	c.mutate("reset statistics", func(time.Time) outcome {
		c.snap.Stats.Reset()
		c.snap.Achievements.Reset()
		return outcome{changed: true}
	})
}

// UpdateAchievements applies fn to the achievement state. The state is
// persisted when fn reports a change.
func (c *TimerController) UpdateAchievements(fn func(*domain.Achievements) bool) bool {
	return c.mutate("update achievements", func(time.Time) outcome {
		return outcome{changed: fn(&c.snap.Achievements)}
	})
}

// UpdatePreferences applies fn to the preferences and persists them.
func (c *TimerController) UpdatePreferences(fn func(*snapshot.Preferences)) {
	c.mutate("update preferences", func(time.Time) outcome {
		fn(&c.snap.Preferences)
		return outcome{changed: true}
	})
}

// Tick recomputes the remaining time from the deadline.
func (c *TimerController) Tick() {
	c.mutate("tick", c.tickLocked)
}

func (c *TimerController) tickFrom(gen uint64) {
	c.mutate("tick", func(now time.Time) outcome {
		if gen != c.tickGen {
			return outcome{}
		}
		return c.tickLocked(now)
	})
}

func (c *TimerController) tickLocked(now time.Time) outcome {
	changed, ev := c.snap.Timer.Tick(now)
	if !changed {
		return outcome{}
	}
	finished := c.snap.Timer.Complete
	if finished {
		c.stopTickerLocked()
	}
	return outcome{changed: true, finished: finished, event: ev}
}

// Close stops the ticker and flushes pending writes.
func (c *TimerController) Close() error {
	c.mu.Lock()
	c.stopTickerLocked()
	c.closed = true
	c.mu.Unlock()
	return c.writer.Close()
}

// Flush waits until every change so far has been written.
func (c *TimerController) Flush(ctx context.Context) error {
	return c.writer.Flush(ctx)
}

// TimerState returns a copy of the countdown state.
func (c *TimerController) TimerState() domain.TimerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Clone().Timer.TimerState
}

// Stats returns a copy of the statistics.
func (c *TimerController) Stats() domain.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Stats.Clone()
}

// Presets returns a copy of the preset definitions.
func (c *TimerController) Presets() domain.PresetSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Timer.Presets.Clone()
}

// Achievements returns a copy of the unlock state.
func (c *TimerController) Achievements() domain.Achievements {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Achievements.Clone()
}

// Preferences returns a copy of the preferences.
func (c *TimerController) Preferences() snapshot.Preferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Clone().Preferences
}

// Snapshot returns a deep copy of the whole state.
func (c *TimerController) Snapshot() snapshot.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Clone()
}

// Location returns the timezone used for day buckets.
func (c *TimerController) Location() *time.Location {
	return c.loc
}

// OnChange registers fn to run after every state change.
func (c *TimerController) OnChange(fn func(snapshot.Snapshot)) (unsubscribe func()) {
	return c.changeListeners.add(fn)
}

// OnSessionCompleted registers fn to run after a completion has been folded
// into the statistics.
func (c *TimerController) OnSessionCompleted(fn func(domain.SessionCompleted, domain.Stats)) (unsubscribe func()) {
	return c.completedListeners.add(fn)
}

// OnFinished registers fn to run whenever a countdown reaches zero,
// countable or not.
func (c *TimerController) OnFinished(fn func(domain.Preset)) (unsubscribe func()) {
	return c.finishedListeners.add(fn)
}

// Subscribe registers fn to run after every state change.
func (c *TimerController) Subscribe(fn func()) (unsubscribe func()) {
	return c.OnChange(func(snapshot.Snapshot) { fn() })
}

// mutate runs fn under the lock. When fn reports a change the completion
// event, if any, is folded into the statistics, the snapshot is submitted
// for writing and listeners run once the lock is released.
func (c *TimerController) mutate(op string, fn func(now time.Time) outcome) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		logger.Debug("command after close ignored", "op", op)
		return false
	}
	out := fn(c.clock.Now())
	if !out.changed {
		c.mu.Unlock()
		return false
	}
	if out.event != nil {
		c.snap.Stats.RecordCompletion(*out.event, c.loc)
	}
	snap := c.snap.Clone()
	c.writer.Submit(snap)
	c.mu.Unlock()

	logger.Debug("timer state changed", "op", op, "phase", snap.Timer.Phase(), "remaining", snap.Timer.RemainingSeconds)
	c.dispatch(snap, out)
	return true
}

func (c *TimerController) dispatch(snap snapshot.Snapshot, out outcome) {
	for _, fn := range c.changeListeners.all() {
		fn(snap.Clone())
	}
	if out.finished {
		for _, fn := range c.finishedListeners.all() {
			fn(snap.Timer.ActivePreset)
		}
	}
	if out.event != nil {
		for _, fn := range c.completedListeners.all() {
			fn(*out.event, snap.Stats.Clone())
		}
	}
}

func (c *TimerController) startTickerLocked() {
	c.stopTickerLocked()
	gen := c.tickGen
	c.stopTick = c.ticker.Start(c.interval, func() { c.tickFrom(gen) })
}

func (c *TimerController) stopTickerLocked() {
	if c.stopTick != nil {
		c.stopTick()
		c.stopTick = nil
	}
	c.tickGen++
}
