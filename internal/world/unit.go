// Package world drives units (actor + abilities + effects) at a fixed step.
package world

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/udisondev/chronosdescent/internal/data"
	"github.com/udisondev/chronosdescent/internal/game/ability"
	"github.com/udisondev/chronosdescent/internal/game/effect"
	"github.com/udisondev/chronosdescent/internal/model"
)

// Unit bundles an actor with its ability and effect managers.
//
// Per tick, abilities update before effects: effects applied by an ability
// this tick are decremented and folded into stats in the same tick.
type Unit struct {
	actor     *model.Actor
	abilities *ability.Manager
	effects   *effect.Manager
}

// NewUnit creates a unit with an empty loadout.
func NewUnit(name string, base model.Stats) *Unit {
	actor := model.NewActor(name, base)
	return &Unit{
		actor:     actor,
		abilities: ability.NewManager(actor),
		effects:   effect.NewManager(actor),
	}
}

func (u *Unit) ID() uuid.UUID               { return u.actor.ID() }
func (u *Unit) Name() string                { return u.actor.Name() }
func (u *Unit) Actor() *model.Actor         { return u.actor }
func (u *Unit) Abilities() *ability.Manager { return u.abilities }
func (u *Unit) Effects() *effect.Manager    { return u.effects }

// Equip builds ability id from catalog and binds it to slot.
// The ability's effects target this unit.
func (u *Unit) Equip(c *data.Catalog, slot ability.Slot, id string) error {
	a, err := c.NewAbility(id, u.effects)
	if err != nil {
		return err
	}
	if !u.abilities.SetAbility(slot, a) {
		return &SlotError{Slot: slot, Ability: id}
	}
	return nil
}

// Activate fires the ability in slot unless a control effect is active.
func (u *Unit) Activate(slot ability.Slot) bool {
	if u.effects.HasControlEffect() {
		slog.Debug("activation blocked by control effect", "unit", u.Name(), "slot", slot)
		return false
	}
	return u.abilities.ActivateAbility(slot)
}

// Update advances abilities, then effects. A control effect that is active
// after the effect pass breaks any charge or channel in progress.
// The returned error comes from stat recalculation.
func (u *Unit) Update(dt float64) error {
	u.abilities.Update(dt)
	err := u.effects.Update(dt)

	if u.effects.HasControlEffect() {
		u.breakExclusive()
	}
	return err
}

func (u *Unit) breakExclusive() {
	slot := u.abilities.ExclusiveSlot()
	switch {
	case slot == ability.SlotNone:
	case u.abilities.IsChanneling(slot):
		u.abilities.InterruptChannelingAbility()
	case u.abilities.IsCharging(slot):
		u.abilities.CancelChargedAbility()
	}
}
