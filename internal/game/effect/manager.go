// Package effect tracks timed status effects on an actor and folds their
// stat modifiers into the actor's current stats.
package effect

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/udisondev/chronosdescent/internal/event"
	"github.com/udisondev/chronosdescent/internal/model"
)

// Manager owns the active effects of one actor.
//
// Instances are keyed by definition ID: re-applying stacks or refreshes the
// existing instance. Stats are recalculated at the end of Update whenever an
// applied or removed effect carried modifiers.
//
// Not safe for concurrent use; driven from the actor's simulation goroutine.
type Manager struct {
	target *model.Actor

	active  map[string]*Instance
	ticking []*Instance
	control []*Instance

	// dirty is set by Apply/Remove/MarkDirty and cleared by Recalculate.
	dirty bool

	listeners event.Observers[Listener]
}

// NewManager creates an empty Manager for target.
func NewManager(target *model.Actor) *Manager {
	return &Manager{
		target: target,
		active: make(map[string]*Instance),
	}
}

// Target returns the actor this manager modifies.
func (m *Manager) Target() *model.Actor {
	return m.target
}

// Subscribe registers l for effect notifications.
func (m *Manager) Subscribe(l Listener) event.Subscription {
	return m.listeners.Subscribe(l)
}

// Apply adds def to the actor, stacking or refreshing an existing instance.
// Returns false only for a nil definition.
func (m *Manager) Apply(def *Definition) bool {
	if def == nil {
		slog.Debug("apply effect rejected: nil definition", "target", m.targetName())
		return false
	}

	if inst, ok := m.active[def.ID]; ok {
		if def.Stackable && inst.addStack(def.MaxStacks) {
			if def.HasModifiers() {
				m.dirty = true
			}
			def.behavior().OnStack(inst, inst.stacks)
			m.notifyUpdated(inst)

			slog.Debug("effect stacked",
				"effect", def.ID,
				"target", m.targetName(),
				"stacks", inst.stacks,
				"max_stacks", def.MaxStacks)
			return true
		}

		inst.refresh(def.Duration)
		m.notifyUpdated(inst)

		slog.Debug("effect refreshed", "effect", def.ID, "target", m.targetName())
		return true
	}

	inst := newInstance(def, m.target)
	m.active[def.ID] = inst
	if def.NeedsTicking {
		m.ticking = append(m.ticking, inst)
	}
	if def.Control {
		m.control = append(m.control, inst)
	}

	def.behavior().OnApply(inst)
	if def.HasModifiers() {
		m.dirty = true
	}

	m.listeners.Notify(func(l Listener) { l.EffectApplied(def, 1) })

	slog.Debug("effect applied", "effect", def.ID, "target", m.targetName())
	return true
}

// Update advances every instance by dt, removes expired ones after the full
// pass, runs periodic payloads and recalculates stats if dirty.
// The returned error is a recalculation failure (unknown stat specifier).
func (m *Manager) Update(dt float64) error {
	if dt < 0 {
		dt = 0
	}

	var expired []string
	for _, id := range m.sortedIDs() {
		inst := m.active[id]
		inst.Update(dt)
		if inst.IsExpired() {
			expired = append(expired, id)
			continue
		}
		m.notifyUpdated(inst)
	}

	for _, id := range expired {
		m.Remove(id)
	}

	// Payloads may apply or remove effects on this manager.
	for _, inst := range slices.Clone(m.ticking) {
		if m.active[inst.def.ID] != inst {
			continue
		}
		inst.UpdateTick(dt)
	}

	if !m.dirty {
		return nil
	}
	if err := m.Recalculate(); err != nil {
		slog.Error("stat recalculation failed", "target", m.targetName(), "error", err)
		return err
	}
	return nil
}

// Remove deletes the instance for id. Unknown ids are ignored.
func (m *Manager) Remove(id string) {
	inst, ok := m.active[id]
	if !ok {
		slog.Debug("remove effect ignored: not active", "effect", id, "target", m.targetName())
		return
	}

	def := inst.def
	def.behavior().OnRemove(inst)

	m.ticking = removeInstance(m.ticking, inst)
	m.control = removeInstance(m.control, inst)
	delete(m.active, id)

	if def.HasModifiers() {
		m.dirty = true
	}

	m.listeners.Notify(func(l Listener) { l.EffectRemoved(id) })

	slog.Debug("effect removed", "effect", id, "target", m.targetName())
}

// RemoveAll removes every active effect.
func (m *Manager) RemoveAll() {
	for _, id := range m.sortedIDs() {
		m.Remove(id)
	}
}

func removeInstance(list []*Instance, inst *Instance) []*Instance {
	i := slices.Index(list, inst)
	if i < 0 {
		return list
	}
	return slices.Delete(list, i, i+1)
}

// Has reports whether an effect with id is active.
func (m *Manager) Has(id string) bool {
	_, ok := m.active[id]
	return ok
}

// Stacks returns the stack count of id, or 0 when inactive.
func (m *Manager) Stacks(id string) int {
	if inst, ok := m.active[id]; ok {
		return inst.stacks
	}
	return 0
}

// Instance returns the active instance for id, or nil.
func (m *Manager) Instance(id string) *Instance {
	return m.active[id]
}

// Active returns the definitions of all active effects ordered by ID.
func (m *Manager) Active() []*Definition {
	ids := m.sortedIDs()
	defs := make([]*Definition, 0, len(ids))
	for _, id := range ids {
		defs = append(defs, m.active[id].def)
	}
	return defs
}

// Count returns the number of active effects.
func (m *Manager) Count() int {
	return len(m.active)
}

// HasControlEffect reports whether any stun-like effect is active.
func (m *Manager) HasControlEffect() bool {
	return len(m.control) > 0
}

// MarkDirty forces a recalculation on the next Update.
func (m *Manager) MarkDirty() {
	m.dirty = true
}

// IsDirty reports whether a recalculation is pending.
func (m *Manager) IsDirty() bool {
	return m.dirty
}

// Recalculate rebuilds the target's current stats from base and every active
// modifier: current = base × Π value^stacks + Σ value × stacks.
//
// An unknown specifier aborts without touching current stats. The dirty flag
// is cleared either way so a broken definition is reported once, not every tick.
func (m *Manager) Recalculate() error {
	m.dirty = false
	if m.target == nil {
		return nil
	}

	mult := make(map[model.Specifier]float64)
	add := make(map[model.Specifier]float64)

	ids := m.sortedIDs()
	for _, id := range ids {
		inst := m.active[id]
		for spec, value := range inst.def.Multiplicative {
			if !spec.Valid() {
				return fmt.Errorf("effect %s: %w: %d", id, model.ErrUnknownSpecifier, int8(spec))
			}
			total, ok := mult[spec]
			if !ok {
				total = 1.0
			}
			mult[spec] = total * math.Pow(value, float64(inst.stacks))
		}
	}
	for _, id := range ids {
		inst := m.active[id]
		for spec, value := range inst.def.Additive {
			if !spec.Valid() {
				return fmt.Errorf("effect %s: %w: %d", id, model.ErrUnknownSpecifier, int8(spec))
			}
			add[spec] += value * float64(inst.stacks)
		}
	}

	base := m.target.Stats().Base()
	stats := base.Clone()
	for spec, factor := range mult {
		v, err := base.Get(spec)
		if err != nil {
			return err
		}
		if err := stats.Set(spec, v*factor); err != nil {
			return err
		}
	}
	for spec, sum := range add {
		v, err := stats.Get(spec)
		if err != nil {
			return err
		}
		if err := stats.Set(spec, v+sum); err != nil {
			return err
		}
	}

	m.target.Stats().Replace(stats)

	slog.Debug("stats recalculated",
		"target", m.targetName(),
		"effects", len(ids),
		"attack_speed", stats.AttackSpeed,
		"move_speed", stats.MoveSpeed)
	return nil
}

func (m *Manager) notifyUpdated(inst *Instance) {
	m.listeners.Notify(func(l Listener) { l.EffectUpdated(inst.def, inst.stacks, inst.remaining) })
}

func (m *Manager) sortedIDs() []string {
	ids := make([]string, 0, len(m.active))
	for id := range m.active {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (m *Manager) targetName() string {
	if m.target == nil {
		return ""
	}
	return m.target.Name()
}
