package data

import (
	"fmt"
	"math"

	"github.com/udisondev/chronosdescent/internal/game/ability"
	"github.com/udisondev/chronosdescent/internal/game/effect"
	"github.com/udisondev/chronosdescent/internal/model"
)

// Defaults for ability fields left empty in a definition file.
const (
	DefaultCooldown         = 5.0
	DefaultChargeMin        = 0.2
	DefaultChargeMax        = 1.0
	DefaultAutoReleaseAtMax = true
	DefaultChannelDuration  = 3.0
)

// BehaviorRef names a registered effect behavior and its parameters.
type BehaviorRef struct {
	Name   string            `yaml:"name"`
	Params map[string]string `yaml:"params,omitempty"`
}

// EffectDef is the on-disk form of an effect definition.
type EffectDef struct {
	ID             string                      `yaml:"id"`
	Name           string                      `yaml:"name"`
	MaxStacks      int                         `yaml:"max_stacks"`
	Stackable      bool                        `yaml:"stackable"`
	Duration       float64                     `yaml:"duration"`
	NeedsTicking   bool                        `yaml:"needs_ticking"`
	TickInterval   float64                     `yaml:"tick_interval"`
	Control        bool                        `yaml:"control"`
	Additive       map[model.Specifier]float64 `yaml:"additive,omitempty"`
	Multiplicative map[model.Specifier]float64 `yaml:"multiplicative,omitempty"`
	Behavior       *BehaviorRef                `yaml:"behavior,omitempty"`
}

// Build resolves the behavior and returns a validated effect.Definition.
func (d *EffectDef) Build() (*effect.Definition, error) {
	def := &effect.Definition{
		ID:             d.ID,
		Name:           d.Name,
		MaxStacks:      max(d.MaxStacks, 1),
		Stackable:      d.Stackable,
		Duration:       d.Duration,
		NeedsTicking:   d.NeedsTicking,
		TickInterval:   d.TickInterval,
		Control:        d.Control,
		Additive:       d.Additive,
		Multiplicative: d.Multiplicative,
	}
	if def.Name == "" {
		def.Name = d.ID
	}

	if d.Behavior != nil && d.Behavior.Name != "" {
		b, err := effect.CreateBehavior(d.Behavior.Name, d.Behavior.Params)
		if err != nil {
			return nil, fmt.Errorf("effect %s: %w: %w", d.ID, ErrInvalidDefinition, err)
		}
		def.Behavior = b
	}

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	return def, nil
}

// AbilityDef is the on-disk form of an ability definition.
// Pointer fields distinguish "unset" (use the default) from an explicit zero.
type AbilityDef struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Kind             string   `yaml:"kind"`
	Cooldown         *float64 `yaml:"cooldown,omitempty"`
	ChargeMin        *float64 `yaml:"charge_min,omitempty"`
	ChargeMax        *float64 `yaml:"charge_max,omitempty"`
	AutoReleaseAtMax *bool    `yaml:"auto_release_at_max,omitempty"`
	ChannelDuration  *float64 `yaml:"channel_duration,omitempty"`
	Effects          []string `yaml:"effects,omitempty"` // applied to the effect target on fire
}

// Config returns the ability.Config for d with defaults filled in.
// The returned config carries no Behavior.
func (d *AbilityDef) Config() (ability.Config, error) {
	kind, err := ability.ParseKind(d.Kind)
	if err != nil {
		return ability.Config{}, fmt.Errorf("ability %s: %w: %w", d.ID, ErrInvalidDefinition, err)
	}

	cfg := ability.Config{
		Name:             d.Name,
		Kind:             kind,
		Cooldown:         valueOr(d.Cooldown, DefaultCooldown),
		ChargeMin:        valueOr(d.ChargeMin, DefaultChargeMin),
		ChargeMax:        valueOr(d.ChargeMax, DefaultChargeMax),
		AutoReleaseAtMax: valueOr(d.AutoReleaseAtMax, DefaultAutoReleaseAtMax),
		ChannelDuration:  valueOr(d.ChannelDuration, DefaultChannelDuration),
	}
	if cfg.Name == "" {
		cfg.Name = d.ID
	}
	if cfg.Cooldown < 0 || math.IsNaN(cfg.Cooldown) {
		return ability.Config{}, fmt.Errorf("ability %s: %w: negative cooldown", d.ID, ErrInvalidDefinition)
	}
	return cfg, nil
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
