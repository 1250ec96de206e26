package effect

import (
	"github.com/google/uuid"

	"github.com/udisondev/chronosdescent/internal/model"
)

// Instance is one active application of a Definition on an actor.
// Owned by Manager; one per definition ID per actor.
type Instance struct {
	id     uuid.UUID
	def    *Definition
	target *model.Actor

	stacks          int
	remaining       float64
	tickAccumulator float64
}

func newInstance(def *Definition, target *model.Actor) *Instance {
	return &Instance{
		id:        uuid.New(),
		def:       def,
		target:    target,
		stacks:    1,
		remaining: def.Duration,
	}
}

// ID returns the unique instance identifier.
func (i *Instance) ID() uuid.UUID { return i.id }

// Definition returns the template this instance was created from.
func (i *Instance) Definition() *Definition { return i.def }

// Target returns the actor carrying the effect.
func (i *Instance) Target() *model.Actor { return i.target }

// Stacks returns the current stack count.
func (i *Instance) Stacks() int { return i.stacks }

// Remaining returns seconds left before expiry.
func (i *Instance) Remaining() float64 { return i.remaining }

// IsExpired reports whether the duration has run out.
func (i *Instance) IsExpired() bool {
	return i.remaining <= 0
}

// Update decrements the remaining duration.
func (i *Instance) Update(dt float64) {
	i.remaining -= dt
	if i.remaining < 0 {
		i.remaining = 0
	}
}

// UpdateTick advances the periodic payload, firing OnTick once per elapsed interval.
func (i *Instance) UpdateTick(dt float64) {
	b := i.def.behavior()
	if i.def.TickInterval <= 0 {
		b.OnTick(i)
		return
	}

	i.tickAccumulator += dt
	for i.tickAccumulator >= i.def.TickInterval {
		i.tickAccumulator -= i.def.TickInterval
		b.OnTick(i)
	}
}

func (i *Instance) addStack(maxStacks int) bool {
	if i.stacks >= maxStacks {
		return false
	}
	i.stacks++
	return true
}

func (i *Instance) refresh(duration float64) {
	i.remaining = duration
}
