package world

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// TickManager steps every registered unit at a fixed rate.
//
// All unit mutation happens under mu: Step and WithUnit serialize, so units
// stay single-threaded even when commands arrive from other goroutines.
type TickManager struct {
	mu    sync.Mutex
	units map[uuid.UUID]*Unit
	order []uuid.UUID // registration order

	interval time.Duration
	dt       float64

	stopCh   chan struct{}
	stopOnce sync.Once
	ticks    atomic.Uint64
}

// NewTickManager creates a tick manager running tickRate steps per second.
// Non-positive rates fall back to 20.
func NewTickManager(tickRate int) *TickManager {
	if tickRate <= 0 {
		tickRate = 20
	}
	return &TickManager{
		units:    make(map[uuid.UUID]*Unit),
		interval: time.Second / time.Duration(tickRate),
		dt:       1 / float64(tickRate),
		stopCh:   make(chan struct{}),
	}
}

// Register adds u to the loop. Registering the same unit twice is a no-op.
func (m *TickManager) Register(u *Unit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.units[u.ID()]; ok {
		return
	}
	m.units[u.ID()] = u
	m.order = append(m.order, u.ID())

	slog.Debug("unit registered", "unit", u.Name(), "id", u.ID())
}

// Unregister removes the unit and strips its effects.
func (m *TickManager) Unregister(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.units[id]
	if !ok {
		return
	}
	delete(m.units, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	u.Effects().RemoveAll()

	slog.Debug("unit unregistered", "unit", u.Name(), "id", id)
}

// Get returns the registered unit. Mutate it only through WithUnit while the loop runs.
func (m *TickManager) Get(id uuid.UUID) (*Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.units[id]
	if !ok {
		return nil, unitNotFound(id)
	}
	return u, nil
}

// WithUnit runs fn on the unit between steps.
func (m *TickManager) WithUnit(id uuid.UUID, fn func(*Unit)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.units[id]
	if !ok {
		return unitNotFound(id)
	}
	fn(u)
	return nil
}

// Count returns the number of registered units.
func (m *TickManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.units)
}

// Ticks returns the number of completed steps.
func (m *TickManager) Ticks() uint64 {
	return m.ticks.Load()
}

// Interval returns the wall-clock time between steps.
func (m *TickManager) Interval() time.Duration {
	return m.interval
}

// Step advances every unit by dt in registration order.
// Recalculation errors are logged per unit and do not stop the step.
func (m *TickManager) Step(dt float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		u := m.units[id]
		if err := u.Update(dt); err != nil {
			slog.Error("unit update failed", "unit", u.Name(), "id", id, "err", err)
		}
	}
	m.ticks.Add(1)
}

// Start runs the fixed-step loop (blocks until ctx is canceled or Stop is called).
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("tick manager started", "interval", m.interval, "units", m.Count())

	for {
		select {
		case <-ctx.Done():
			slog.Info("tick manager stopping", "ticks", m.Ticks())
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("tick manager stopped", "ticks", m.Ticks())
			return nil

		case <-ticker.C:
			m.Step(m.dt)
		}
	}
}

// Stop stops the loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}
