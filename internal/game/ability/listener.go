package ability

// Listener receives ability notifications from a Manager.
// Calls are fire-and-forget and happen on the simulation goroutine.
type Listener interface {
	AbilityActivated(a *Ability)
	CooldownChanged(a *Ability, cooldown float64)
	StateChanged(a *Ability, state State)
	// SlotChanged reports a bind (a != nil) or an unbind (a == nil).
	SlotChanged(a *Ability, slot Slot)
}

// ListenerFuncs adapts optional functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnActivated       func(a *Ability)
	OnCooldownChanged func(a *Ability, cooldown float64)
	OnStateChanged    func(a *Ability, state State)
	OnSlotChanged     func(a *Ability, slot Slot)
}

func (f ListenerFuncs) AbilityActivated(a *Ability) {
	if f.OnActivated != nil {
		f.OnActivated(a)
	}
}

func (f ListenerFuncs) CooldownChanged(a *Ability, cooldown float64) {
	if f.OnCooldownChanged != nil {
		f.OnCooldownChanged(a, cooldown)
	}
}

func (f ListenerFuncs) StateChanged(a *Ability, state State) {
	if f.OnStateChanged != nil {
		f.OnStateChanged(a, state)
	}
}

func (f ListenerFuncs) SlotChanged(a *Ability, slot Slot) {
	if f.OnSlotChanged != nil {
		f.OnSlotChanged(a, slot)
	}
}
