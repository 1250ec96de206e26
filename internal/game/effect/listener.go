package effect

// Listener receives effect notifications from a Manager.
type Listener interface {
	EffectApplied(def *Definition, stacks int)
	EffectRemoved(id string)
	EffectUpdated(def *Definition, stacks int, remaining float64)
}

// ListenerFuncs adapts optional functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnApplied func(def *Definition, stacks int)
	OnRemoved func(id string)
	OnUpdated func(def *Definition, stacks int, remaining float64)
}

func (f ListenerFuncs) EffectApplied(def *Definition, stacks int) {
	if f.OnApplied != nil {
		f.OnApplied(def, stacks)
	}
}

func (f ListenerFuncs) EffectRemoved(id string) {
	if f.OnRemoved != nil {
		f.OnRemoved(id)
	}
}

func (f ListenerFuncs) EffectUpdated(def *Definition, stacks int, remaining float64) {
	if f.OnUpdated != nil {
		f.OnUpdated(def, stacks, remaining)
	}
}
