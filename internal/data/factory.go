package data

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/chronosdescent/internal/game/ability"
	"github.com/udisondev/chronosdescent/internal/game/effect"
)

// EffectSink receives the effects an ability applies. *effect.Manager implements it.
type EffectSink interface {
	Apply(def *effect.Definition) bool
	Remove(id string)
	Has(id string) bool
}

// NewAbility builds a fresh ability from the definition id.
// Its payload applies the definition's effects to sink; sink may be nil for
// abilities without effects.
func (c *Catalog) NewAbility(id string, sink EffectSink) (*ability.Ability, error) {
	def := c.AbilityDef(id)
	if def == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAbility, id)
	}

	cfg, err := def.Config()
	if err != nil {
		return nil, err
	}

	effects := make([]*effect.Definition, 0, len(def.Effects))
	for _, ref := range def.Effects {
		e := c.Effect(ref)
		if e == nil {
			return nil, fmt.Errorf("ability %s: %w: %s", id, ErrUnknownEffect, ref)
		}
		effects = append(effects, e)
	}
	if len(effects) > 0 && sink == nil {
		return nil, fmt.Errorf("ability %s: effects need a target", id)
	}

	cfg.Behavior = &effectPayload{effects: effects, sink: sink}
	return ability.New(cfg)
}

// effectPayload applies a fixed list of effects when its ability fires.
// Toggles keep them up while on and strip them when turned off; passives
// re-apply any that have expired.
type effectPayload struct {
	ability.BaseBehavior
	effects []*effect.Definition
	sink    EffectSink
}

func (p *effectPayload) Execute(a *ability.Ability, power float64) {
	slog.Debug("ability fired", "ability", a.Name(), "power", power, "effects", len(p.effects))
	p.applyAll()
}

func (p *effectPayload) OnToggle(_ *ability.Ability, on bool) {
	if on {
		p.applyAll()
		return
	}
	for _, e := range p.effects {
		p.sink.Remove(e.ID)
	}
}

func (p *effectPayload) OnToggleTick(_ *ability.Ability, _ float64) {
	p.applyMissing()
}

func (p *effectPayload) OnPassiveTick(_ *ability.Ability, _ float64) {
	p.applyMissing()
}

func (p *effectPayload) OnChannelComplete(a *ability.Ability) {
	slog.Debug("channel completed", "ability", a.Name())
	p.applyAll()
}

func (p *effectPayload) OnChannelInterrupt(a *ability.Ability) {
	slog.Debug("channel interrupted", "ability", a.Name())
}

func (p *effectPayload) OnChargeCancel(a *ability.Ability) {
	slog.Debug("charge cancelled", "ability", a.Name())
}

func (p *effectPayload) applyAll() {
	for _, e := range p.effects {
		p.sink.Apply(e)
	}
}

func (p *effectPayload) applyMissing() {
	for _, e := range p.effects {
		if !p.sink.Has(e.ID) {
			p.sink.Apply(e)
		}
	}
}
