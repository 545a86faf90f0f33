package services

import (
	"context"
	"sync"
	"time"

	"github.com/xvierd/streak/internal/ports"
)

var t0 = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// manualTicker only fires when the test asks it to.
type manualTicker struct {
	mu      sync.Mutex
	next    int
	live    map[int]func()
	started int
}

func newManualTicker() *manualTicker {
	return &manualTicker{live: map[int]func(){}}
}

func (m *manualTicker) Start(_ time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	m.started++
	m.live[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.live, id)
	}
}

func (m *manualTicker) Fire() {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.live))
	for _, fn := range m.live {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (m *manualTicker) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	s.sets++
	return nil
}

type harness struct {
	ctrl   *TimerController
	clock  *fakeClock
	ticker *manualTicker
	store  *memStore
}

func newHarness(t interface{ Cleanup(func()) }, store *memStore) *harness {
	if store == nil {
		store = newMemStore()
	}
	h := &harness{clock: newFakeClock(t0), ticker: newManualTicker(), store: store}
	h.ctrl = h.open()
	t.Cleanup(func() { _ = h.ctrl.Close() })
	return h
}

func (h *harness) open() *TimerController {
	ctrl := NewTimerController(context.Background(), Deps{
		Store:    h.store,
		Clock:    h.clock,
		Ticker:   h.ticker,
		Location: time.UTC,
	})
	return ctrl
}

// second advances the clock by one second and fires the ticker.
func (h *harness) second() {
	h.clock.Advance(time.Second)
	h.ticker.Fire()
}
