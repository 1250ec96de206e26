package effect

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/udisondev/chronosdescent/internal/game/combat"
)

// parsePower reads the "power" parameter. Missing means zero.
func parsePower(params map[string]string) (float64, error) {
	raw, ok := params["power"]
	if !ok || raw == "" {
		return 0, nil
	}
	power, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse power %q: %w", raw, err)
	}
	if power < 0 {
		return 0, fmt.Errorf("power %v must not be negative", power)
	}
	return power, nil
}

// DamageOverTime deals power × stacks damage to the target on every tick.
// Params: "power" (float64 per stack per tick).
type DamageOverTime struct {
	BaseBehavior
	power float64
}

// NewDamageOverTime is the registry factory for DamageOverTime.
func NewDamageOverTime(params map[string]string) (Behavior, error) {
	power, err := parsePower(params)
	if err != nil {
		return nil, err
	}
	return &DamageOverTime{power: power}, nil
}

// Power returns the per-stack damage per tick.
func (b *DamageOverTime) Power() float64 { return b.power }

func (b *DamageOverTime) OnApply(inst *Instance) {
	slog.Debug("dot started", "effect", inst.def.ID, "power", b.power, "target", inst.target.Name())
}

func (b *DamageOverTime) OnTick(inst *Instance) {
	if combat.IsDead(inst.target) {
		return
	}
	damage := b.power * float64(inst.stacks)
	if damage <= 0 {
		return
	}
	combat.TakeDamage(inst.target, damage)

	slog.Debug("dot tick",
		"effect", inst.def.ID,
		"damage", damage,
		"target", inst.target.Name())
}

func (b *DamageOverTime) OnRemove(inst *Instance) {
	slog.Debug("dot ended", "effect", inst.def.ID, "target", inst.target.Name())
}

// HealOverTime heals the target by power × stacks on every tick, up to max health.
// Params: "power" (float64 per stack per tick).
type HealOverTime struct {
	BaseBehavior
	power float64
}

// NewHealOverTime is the registry factory for HealOverTime.
func NewHealOverTime(params map[string]string) (Behavior, error) {
	power, err := parsePower(params)
	if err != nil {
		return nil, err
	}
	return &HealOverTime{power: power}, nil
}

// Power returns the per-stack heal per tick.
func (b *HealOverTime) Power() float64 { return b.power }

func (b *HealOverTime) OnApply(inst *Instance) {
	slog.Debug("hot started", "effect", inst.def.ID, "power", b.power, "target", inst.target.Name())
}

func (b *HealOverTime) OnTick(inst *Instance) {
	// No healing the dead.
	if combat.IsDead(inst.target) {
		return
	}
	heal := b.power * float64(inst.stacks)
	if heal <= 0 {
		return
	}
	combat.Heal(inst.target, heal)

	slog.Debug("hot tick",
		"effect", inst.def.ID,
		"healed", heal,
		"target", inst.target.Name())
}

func (b *HealOverTime) OnRemove(inst *Instance) {
	slog.Debug("hot ended", "effect", inst.def.ID, "target", inst.target.Name())
}
