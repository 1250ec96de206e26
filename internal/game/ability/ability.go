package ability

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/udisondev/chronosdescent/internal/model"
)

const (
	// cooldownEpsilon is the smallest cooldown change worth notifying observers about.
	cooldownEpsilon = 0.001

	// interruptCooldownMultiplier applies to channels cut short by InterruptChanneling.
	interruptCooldownMultiplier = 0.5
)

// ChargeState is the payload of a Charged ability.
type ChargeState struct {
	Min              float64 // seconds before any power is gained
	Max              float64 // seconds to full power
	Elapsed          float64
	Charging         bool
	AutoReleaseAtMax bool
}

// ChannelState is the payload of a Channeled ability.
type ChannelState struct {
	Duration   float64
	Elapsed    float64
	Channeling bool
}

// ToggleState is the payload of a Toggle ability.
type ToggleState struct {
	On bool
}

// Config describes an ability to build with New.
// Charge* fields apply to KindCharged, ChannelDuration to KindChanneled.
type Config struct {
	Name             string
	Kind             Kind
	Cooldown         float64
	ChargeMin        float64
	ChargeMax        float64
	AutoReleaseAtMax bool
	ChannelDuration  float64
	Behavior         Behavior
}

// observer receives raw transitions from an Ability. Implemented by Manager.
type observer interface {
	cooldownChanged(a *Ability)
	stateChanged(a *Ability)
}

// Ability is one bound, stateful action. Exactly one of charge, channel and
// toggle is non-nil, matching kind; Active and Passive carry none.
//
// Not safe for concurrent use.
type Ability struct {
	name     string
	kind     Kind
	behavior Behavior

	cooldownTotal     float64
	cooldownRemaining float64
	reportedCooldown  float64

	charge  *ChargeState
	channel *ChannelState
	toggle  *ToggleState

	caster   *model.Actor
	observer observer
}

// New validates cfg and builds an idle ability.
func New(cfg Config) (*Ability, error) {
	if cfg.Name == "" {
		return nil, errors.New("ability name is empty")
	}
	if cfg.Cooldown < 0 || math.IsNaN(cfg.Cooldown) {
		return nil, fmt.Errorf("ability %s: negative cooldown %v", cfg.Name, cfg.Cooldown)
	}

	a := &Ability{
		name:          cfg.Name,
		kind:          cfg.Kind,
		behavior:      cfg.Behavior,
		cooldownTotal: cfg.Cooldown,
	}
	if a.behavior == nil {
		a.behavior = BaseBehavior{}
	}

	switch cfg.Kind {
	case KindActive, KindPassive:
	case KindToggle:
		a.toggle = &ToggleState{}
	case KindCharged:
		if cfg.ChargeMax <= 0 || cfg.ChargeMin < 0 || cfg.ChargeMin > cfg.ChargeMax {
			return nil, fmt.Errorf("ability %s: invalid charge window [%v, %v]", cfg.Name, cfg.ChargeMin, cfg.ChargeMax)
		}
		a.charge = &ChargeState{
			Min:              cfg.ChargeMin,
			Max:              cfg.ChargeMax,
			AutoReleaseAtMax: cfg.AutoReleaseAtMax,
		}
	case KindChanneled:
		if cfg.ChannelDuration <= 0 {
			return nil, fmt.Errorf("ability %s: channel duration must be positive, got %v", cfg.Name, cfg.ChannelDuration)
		}
		a.channel = &ChannelState{Duration: cfg.ChannelDuration}
	default:
		return nil, fmt.Errorf("ability %s: unsupported kind %s", cfg.Name, cfg.Kind)
	}

	return a, nil
}

// Name returns the ability name.
func (a *Ability) Name() string { return a.name }

// Kind returns the activation model.
func (a *Ability) Kind() Kind { return a.kind }

// Behavior returns the payload.
func (a *Ability) Behavior() Behavior { return a.behavior }

// Caster returns the owning actor, or nil when unbound.
func (a *Ability) Caster() *model.Actor { return a.caster }

// Cooldown returns the full cooldown length in seconds.
func (a *Ability) Cooldown() float64 { return a.cooldownTotal }

// CooldownRemaining returns seconds until the ability is off cooldown.
func (a *Ability) CooldownRemaining() float64 { return a.cooldownRemaining }

// IsOnCooldown reports whether any cooldown remains.
func (a *Ability) IsOnCooldown() bool { return a.cooldownRemaining > 0 }

// IsCharging reports whether a Charged ability is mid-charge.
func (a *Ability) IsCharging() bool { return a.charge != nil && a.charge.Charging }

// IsChanneling reports whether a Channeled ability is mid-channel.
func (a *Ability) IsChanneling() bool { return a.channel != nil && a.channel.Channeling }

// IsToggled reports whether a Toggle ability is on.
func (a *Ability) IsToggled() bool { return a.toggle != nil && a.toggle.On }

// Charge returns a copy of the charge payload; ok is false for other kinds.
func (a *Ability) Charge() (ChargeState, bool) {
	if a.charge == nil {
		return ChargeState{}, false
	}
	return *a.charge, true
}

// Channel returns a copy of the channel payload; ok is false for other kinds.
func (a *Ability) Channel() (ChannelState, bool) {
	if a.channel == nil {
		return ChannelState{}, false
	}
	return *a.channel, true
}

// Initialize runs the behavior's one-time setup, if it has any.
func (a *Ability) Initialize() {
	if i, ok := a.behavior.(Initializer); ok {
		i.Initialize(a)
	}
}

// CanActivate reports whether Activate would start something right now.
func (a *Ability) CanActivate() bool {
	if a.IsOnCooldown() {
		return false
	}
	switch a.kind {
	case KindCharged:
		return !a.charge.Charging
	case KindChanneled:
		return !a.channel.Channeling
	default:
		return true
	}
}

// Activate starts the ability according to its kind. Callers check CanActivate first.
func (a *Ability) Activate() {
	switch a.kind {
	case KindActive:
		a.behavior.Execute(a, 1.0)
		a.StartCooldown(1.0)

	case KindPassive:
		// Always active; nothing to start.

	case KindToggle:
		a.setToggled(!a.toggle.On)
		a.behavior.OnToggle(a, a.toggle.On)
		if a.cooldownTotal > 0 {
			a.StartCooldown(1.0)
		}

	case KindCharged:
		a.charge.Elapsed = 0
		a.setCharging(true)
		slog.Debug("ability charging", "caster", a.casterName(), "ability", a.name)

	case KindChanneled:
		a.channel.Elapsed = 0
		a.setChanneling(true)
		a.behavior.OnChannelStart(a)
	}
}

// Update advances cooldown and any in-progress charge, channel, toggle or passive tick.
// Threshold crossings (charge at max, channel at duration) resolve within this call.
func (a *Ability) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}

	if a.cooldownRemaining > 0 {
		a.setCooldown(a.cooldownRemaining - dt)
	}

	switch a.kind {
	case KindCharged:
		if !a.charge.Charging {
			return
		}
		a.charge.Elapsed += dt
		if a.charge.Elapsed >= a.charge.Max && a.charge.AutoReleaseAtMax {
			a.ReleaseCharge()
		}

	case KindChanneled:
		if !a.channel.Channeling {
			return
		}
		a.channel.Elapsed += dt
		a.behavior.OnChannelTick(a, dt)
		if a.channel.Elapsed >= a.channel.Duration {
			a.CompleteChanneling()
		}

	case KindToggle:
		if a.toggle.On {
			a.behavior.OnToggleTick(a, dt)
		}

	case KindPassive:
		a.behavior.OnPassiveTick(a, dt)
	}
}

// ChargePercent returns the clamped charge power for the current elapsed time.
func (a *Ability) ChargePercent() float64 {
	if a.charge == nil {
		return 0
	}
	c := a.charge
	if c.Max <= c.Min {
		if c.Elapsed >= c.Max {
			return 1
		}
		return 0
	}
	pct := (c.Elapsed - c.Min) / (c.Max - c.Min)
	return math.Max(0, math.Min(1, pct))
}

// ReleaseCharge fires a Charged ability scaled by how long it charged.
// No-op unless charging.
func (a *Ability) ReleaseCharge() {
	if !a.IsCharging() {
		return
	}

	pct := a.ChargePercent()
	a.behavior.Execute(a, pct)

	a.charge.Elapsed = 0
	a.StartCooldown(1.0)
	a.setCharging(false)

	slog.Debug("ability charge released",
		"caster", a.casterName(),
		"ability", a.name,
		"power", pct)
}

// CancelCharge abandons a charge without firing the payload. No-op unless charging.
func (a *Ability) CancelCharge() {
	if !a.IsCharging() {
		return
	}

	a.charge.Elapsed = 0
	a.setCharging(false)
	a.behavior.OnChargeCancel(a)
}

// CompleteChanneling ends a channel normally and starts the full cooldown.
func (a *Ability) CompleteChanneling() {
	if !a.IsChanneling() {
		return
	}

	a.behavior.OnChannelComplete(a)

	a.channel.Elapsed = 0
	a.StartCooldown(1.0)
	a.setChanneling(false)
}

// InterruptChanneling cuts a channel short; the cooldown is halved.
// No-op unless channeling.
func (a *Ability) InterruptChanneling() {
	if !a.IsChanneling() {
		return
	}

	a.behavior.OnChannelInterrupt(a)

	a.channel.Elapsed = 0
	a.StartCooldown(interruptCooldownMultiplier)
	a.setChanneling(false)
}

// StartCooldown sets the remaining cooldown to Cooldown()*multiplier.
func (a *Ability) StartCooldown(multiplier float64) {
	a.setCooldown(a.cooldownTotal * multiplier)
}

// State resolves the descriptive state from the current flags.
func (a *Ability) State() State {
	switch {
	case a.IsOnCooldown():
		return StateCooldown
	case a.IsCharging():
		return StateCharging
	case a.IsChanneling():
		return StateChanneling
	case a.IsToggled():
		return StateToggledOn
	case a.kind == KindToggle:
		return StateToggledOff
	default:
		return StateDefault
	}
}

func (a *Ability) setCooldown(v float64) {
	v = math.Max(0, math.Min(v, a.cooldownTotal))
	a.cooldownRemaining = v

	reachedZero := v == 0 && a.reportedCooldown != 0
	if !reachedZero && math.Abs(v-a.reportedCooldown) <= cooldownEpsilon {
		return
	}
	a.reportedCooldown = v
	if a.observer != nil {
		a.observer.cooldownChanged(a)
	}
}

func (a *Ability) setCharging(v bool) {
	if a.charge.Charging == v {
		return
	}
	a.charge.Charging = v
	a.notifyState()
}

func (a *Ability) setChanneling(v bool) {
	if a.channel.Channeling == v {
		return
	}
	a.channel.Channeling = v
	a.notifyState()
}

func (a *Ability) setToggled(v bool) {
	if a.toggle.On == v {
		return
	}
	a.toggle.On = v
	a.notifyState()
}

func (a *Ability) notifyState() {
	if a.observer != nil {
		a.observer.stateChanged(a)
	}
}

func (a *Ability) casterName() string {
	if a.caster == nil {
		return ""
	}
	return a.caster.Name()
}
