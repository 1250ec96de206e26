package ability

import (
	"log/slog"

	"github.com/udisondev/chronosdescent/internal/event"
	"github.com/udisondev/chronosdescent/internal/model"
)

// Manager owns an actor's ability slots.
//
// At most one slot may be charging or channeling at any time; that slot is
// the exclusive slot and roots the owner in place until it finishes.
//
// Not safe for concurrent use: drive it from the actor's simulation goroutine.
type Manager struct {
	owner     *model.Actor
	slots     [SlotCount]binding
	exclusive Slot
	listeners event.Observers[Listener]

	// While holding, notifications raised inside Ability.Activate are queued
	// so that AbilityActivated is published before them.
	holding bool
	held    []func()
}

type binding struct {
	ability   *Ability
	lastState State
}

// slotObserver routes one bound ability's transitions back to its Manager.
type slotObserver struct {
	m    *Manager
	slot Slot
}

func (o slotObserver) cooldownChanged(a *Ability) { o.m.handleCooldownChanged(o.slot, a) }
func (o slotObserver) stateChanged(a *Ability)    { o.m.handleStateChanged(o.slot, a) }

// NewManager creates an empty Manager for owner.
func NewManager(owner *model.Actor) *Manager {
	return &Manager{
		owner:     owner,
		exclusive: SlotNone,
	}
}

// Owner returns the actor whose abilities this Manager drives.
func (m *Manager) Owner() *model.Actor {
	return m.owner
}

// Subscribe registers l for every ability notification of this actor.
func (m *Manager) Subscribe(l Listener) event.Subscription {
	return m.listeners.Subscribe(l)
}

// SetAbility binds a to slot, replacing and detaching whatever was there.
// Returns false when slot or a is invalid, or a is bound to another actor.
func (m *Manager) SetAbility(slot Slot, a *Ability) bool {
	if !slot.Valid() || a == nil {
		slog.Debug("set ability rejected", "owner", m.ownerName(), "slot", slot, "nil_ability", a == nil)
		return false
	}

	if a.observer != nil {
		so, ok := a.observer.(slotObserver)
		if !ok || so.m != m {
			slog.Warn("ability already bound to another actor",
				"owner", m.ownerName(),
				"ability", a.name)
			return false
		}
		if so.slot == slot {
			return true
		}
		m.RemoveAbility(so.slot)
	}

	if m.slots[slot].ability != nil {
		m.detach(slot)
	}

	a.caster = m.owner
	a.observer = slotObserver{m: m, slot: slot}
	a.Initialize()
	m.slots[slot] = binding{ability: a, lastState: a.State()}

	m.listeners.Notify(func(l Listener) { l.SlotChanged(a, slot) })

	slog.Debug("ability bound", "owner", m.ownerName(), "ability", a.name, "slot", slot)
	return true
}

// RemoveAbility unbinds the ability in slot, if any.
func (m *Manager) RemoveAbility(slot Slot) {
	if !slot.Valid() {
		slog.Debug("remove ability rejected", "owner", m.ownerName(), "slot", slot)
		return
	}
	a := m.slots[slot].ability
	if a == nil {
		return
	}

	m.detach(slot)
	m.listeners.Notify(func(l Listener) { l.SlotChanged(nil, slot) })

	slog.Debug("ability unbound", "owner", m.ownerName(), "ability", a.name, "slot", slot)
}

// detach unsubscribes and clears the caster of the ability in slot.
func (m *Manager) detach(slot Slot) {
	a := m.slots[slot].ability
	a.observer = nil
	a.caster = nil
	m.slots[slot] = binding{}

	if m.exclusive == slot {
		m.leaveExclusive()
	}
}

// Update advances every bound ability by dt seconds.
func (m *Manager) Update(dt float64) {
	bound := m.boundAbilities()
	for _, a := range bound {
		if a != nil {
			a.Update(dt)
		}
	}
}

func (m *Manager) boundAbilities() [SlotCount]*Ability {
	var out [SlotCount]*Ability
	for i := range m.slots {
		out[i] = m.slots[i].ability
	}
	return out
}

// ActivateAbility tries to activate the ability in slot.
// Returns true if the ability was activated.
func (m *Manager) ActivateAbility(slot Slot) bool {
	a := m.Ability(slot)
	if a == nil {
		slog.Debug("ability slot empty", "owner", m.ownerName(), "slot", slot)
		return false
	}

	if a.kind.Exclusive() && m.exclusive != SlotNone && m.exclusive != slot {
		if !m.IsOnCooldown(m.exclusive) {
			slog.Debug("another ability is active",
				"owner", m.ownerName(),
				"ability", a.name,
				"active_slot", m.exclusive)
			return false
		}
		// The holder already finished and is just cooling down.
		m.exclusive = SlotNone
	}

	if !a.CanActivate() {
		slog.Debug("ability not ready", "owner", m.ownerName(), "ability", a.name, "slot", slot)
		return false
	}

	m.holding = true
	a.Activate()
	m.holding = false

	m.listeners.Notify(func(l Listener) { l.AbilityActivated(a) })
	m.flush()

	switch {
	case a.kind.Exclusive():
		m.exclusive = slot
		if m.owner != nil {
			m.owner.SetMovementAllowed(false)
		}
	case a.kind == KindActive:
		m.publishState(slot, a, a.State())
	}

	slog.Debug("ability activated", "owner", m.ownerName(), "ability", a.name, "slot", slot)
	return true
}

// ReleaseChargedAbility releases the charging ability in the exclusive slot.
// slot must be the exclusive slot, or SlotNone to mean "whatever is charging".
func (m *Manager) ReleaseChargedAbility(slot Slot) bool {
	if slot != SlotNone && slot != m.exclusive {
		slog.Debug("release ignored: slot is not active", "owner", m.ownerName(), "slot", slot)
		return false
	}
	if m.exclusive == SlotNone {
		slog.Warn("release requested with no active charged ability", "owner", m.ownerName())
		return false
	}

	a := m.slots[m.exclusive].ability
	if a == nil || !a.IsCharging() {
		slog.Warn("release requested but active ability is not charging",
			"owner", m.ownerName(),
			"slot", m.exclusive)
		return false
	}

	a.ReleaseCharge()
	m.leaveExclusive()
	return true
}

// CancelChargedAbility abandons the charge in the exclusive slot.
func (m *Manager) CancelChargedAbility() bool {
	if m.exclusive == SlotNone {
		slog.Warn("cancel requested with no charging ability", "owner", m.ownerName())
		return false
	}

	a := m.slots[m.exclusive].ability
	if a == nil || !a.IsCharging() {
		slog.Warn("cancel requested but active ability is not charging",
			"owner", m.ownerName(),
			"slot", m.exclusive)
		return false
	}

	a.CancelCharge()
	m.leaveExclusive()
	return true
}

// InterruptChannelingAbility interrupts the channel in the exclusive slot.
func (m *Manager) InterruptChannelingAbility() bool {
	if m.exclusive == SlotNone {
		slog.Warn("interrupt requested with no channeling ability", "owner", m.ownerName())
		return false
	}

	a := m.slots[m.exclusive].ability
	if a == nil || !a.IsChanneling() {
		slog.Warn("interrupt requested but active ability is not channeling",
			"owner", m.ownerName(),
			"slot", m.exclusive)
		return false
	}

	a.InterruptChanneling()
	m.leaveExclusive()
	return true
}

// leaveExclusive clears the exclusive slot and lets the owner move again.
func (m *Manager) leaveExclusive() {
	if m.exclusive == SlotNone {
		return
	}
	m.exclusive = SlotNone
	if m.owner != nil {
		m.owner.SetMovementAllowed(true)
	}
}

func (m *Manager) handleCooldownChanged(slot Slot, a *Ability) {
	cd := a.CooldownRemaining()
	st := a.State()
	m.dispatch(func() {
		m.listeners.Notify(func(l Listener) { l.CooldownChanged(a, cd) })
		m.publishState(slot, a, st)
	})
}

func (m *Manager) handleStateChanged(slot Slot, a *Ability) {
	// Auto-release at max charge and normal channel completion end here.
	if slot == m.exclusive && !a.IsCharging() && !a.IsChanneling() {
		m.leaveExclusive()
	}
	st := a.State()
	m.dispatch(func() { m.publishState(slot, a, st) })
}

// publishState notifies listeners that a, bound to slot, moved to st.
// st is resolved when the transition happens, not when a held notification
// is flushed: a toggle that also starts its cooldown reports ToggledOn first.
// Repeats of the last published state are dropped.
func (m *Manager) publishState(slot Slot, a *Ability, st State) {
	b := &m.slots[slot]
	if b.ability != a || st == b.lastState {
		return
	}
	b.lastState = st
	m.listeners.Notify(func(l Listener) { l.StateChanged(a, st) })
}

func (m *Manager) dispatch(fn func()) {
	if m.holding {
		m.held = append(m.held, fn)
		return
	}
	fn()
}

func (m *Manager) flush() {
	held := m.held
	m.held = nil
	for _, fn := range held {
		fn()
	}
}

func (m *Manager) ownerName() string {
	if m.owner == nil {
		return ""
	}
	return m.owner.Name()
}

// Ability returns the ability bound to slot, or nil.
func (m *Manager) Ability(slot Slot) *Ability {
	if !slot.Valid() {
		return nil
	}
	return m.slots[slot].ability
}

// Cooldown returns the remaining cooldown of slot (0 when empty).
func (m *Manager) Cooldown(slot Slot) float64 {
	if a := m.Ability(slot); a != nil {
		return a.CooldownRemaining()
	}
	return 0
}

// CooldownPercent returns remaining/total cooldown of slot in [0, 1].
func (m *Manager) CooldownPercent(slot Slot) float64 {
	a := m.Ability(slot)
	if a == nil || a.Cooldown() <= 0 {
		return 0
	}
	return a.CooldownRemaining() / a.Cooldown()
}

// IsReady reports whether the ability in slot can be activated now.
func (m *Manager) IsReady(slot Slot) bool {
	a := m.Ability(slot)
	return a != nil && a.CanActivate()
}

// IsCharging reports whether the ability in slot is charging.
func (m *Manager) IsCharging(slot Slot) bool {
	a := m.Ability(slot)
	return a != nil && a.IsCharging()
}

// IsChanneling reports whether the ability in slot is channeling.
func (m *Manager) IsChanneling(slot Slot) bool {
	a := m.Ability(slot)
	return a != nil && a.IsChanneling()
}

// IsToggled reports whether the ability in slot is toggled on.
func (m *Manager) IsToggled(slot Slot) bool {
	a := m.Ability(slot)
	return a != nil && a.IsToggled()
}

// IsOnCooldown reports whether the ability in slot is cooling down.
func (m *Manager) IsOnCooldown(slot Slot) bool {
	a := m.Ability(slot)
	return a != nil && a.IsOnCooldown()
}

// ExclusiveSlot returns the slot currently charging or channeling, or SlotNone.
func (m *Manager) ExclusiveSlot() Slot {
	return m.exclusive
}

// HasActiveAbility reports whether some slot is charging or channeling.
func (m *Manager) HasActiveAbility() bool {
	return m.exclusive != SlotNone
}
