package ability

// Behavior is the payload of a concrete ability (movement, damage, cues).
// The state machine decides when each hook fires; Behavior decides what happens.
type Behavior interface {
	// Execute fires the ability. power is 1.0 for Active abilities and the
	// clamped charge percentage for Charged ones.
	Execute(a *Ability, power float64)

	OnToggle(a *Ability, on bool)
	OnToggleTick(a *Ability, dt float64)
	OnPassiveTick(a *Ability, dt float64)

	OnChannelStart(a *Ability)
	OnChannelTick(a *Ability, dt float64)
	OnChannelComplete(a *Ability)
	OnChannelInterrupt(a *Ability)

	OnChargeCancel(a *Ability)
}

// Initializer is optionally implemented by a Behavior that needs one-time
// setup when its ability is bound to a slot.
type Initializer interface {
	Initialize(a *Ability)
}

// BaseBehavior implements every Behavior hook as a no-op.
// Embed it and override the hooks you need.
type BaseBehavior struct{}

func (BaseBehavior) Execute(*Ability, float64)       {}
func (BaseBehavior) OnToggle(*Ability, bool)         {}
func (BaseBehavior) OnToggleTick(*Ability, float64)  {}
func (BaseBehavior) OnPassiveTick(*Ability, float64) {}
func (BaseBehavior) OnChannelStart(*Ability)         {}
func (BaseBehavior) OnChannelTick(*Ability, float64) {}
func (BaseBehavior) OnChannelComplete(*Ability)      {}
func (BaseBehavior) OnChannelInterrupt(*Ability)     {}
func (BaseBehavior) OnChargeCancel(*Ability)         {}
