package effect

import (
	"errors"
	"fmt"

	"github.com/udisondev/chronosdescent/internal/model"
)

// Definition is the immutable template of a status effect, loaded from the catalog.
// Shared by every instance; do not modify after load.
type Definition struct {
	ID        string
	Name      string
	MaxStacks int
	Stackable bool
	Duration  float64 // seconds

	NeedsTicking bool
	TickInterval float64 // seconds between OnTick; <= 0 ticks every update

	// Control marks stun-like effects that block actions.
	Control bool

	Additive       map[model.Specifier]float64 // summed per stack
	Multiplicative map[model.Specifier]float64 // raised to the stack count

	Behavior Behavior
}

// HasModifiers reports whether applying or removing this effect changes stats.
func (d *Definition) HasModifiers() bool {
	return len(d.Additive) > 0 || len(d.Multiplicative) > 0
}

// Validate checks the invariants the engine relies on.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return errors.New("effect id is empty")
	}
	if d.MaxStacks < 1 {
		return fmt.Errorf("effect %s: max stacks %d < 1", d.ID, d.MaxStacks)
	}
	if d.Duration < 0 {
		return fmt.Errorf("effect %s: negative duration %v", d.ID, d.Duration)
	}
	for spec := range d.Additive {
		if !spec.Valid() {
			return fmt.Errorf("effect %s: %w: %d", d.ID, model.ErrUnknownSpecifier, int8(spec))
		}
	}
	for spec := range d.Multiplicative {
		if !spec.Valid() {
			return fmt.Errorf("effect %s: %w: %d", d.ID, model.ErrUnknownSpecifier, int8(spec))
		}
	}
	return nil
}

func (d *Definition) behavior() Behavior {
	if d.Behavior == nil {
		return BaseBehavior{}
	}
	return d.Behavior
}
