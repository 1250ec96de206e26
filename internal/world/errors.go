package world

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/udisondev/chronosdescent/internal/game/ability"
)

// ErrUnitNotFound is returned for lookups of unregistered units.
var ErrUnitNotFound = errors.New("unit not found")

// SlotError reports an ability that could not be bound to a slot.
type SlotError struct {
	Slot    ability.Slot
	Ability string
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("cannot bind ability %s to slot %s", e.Ability, e.Slot)
}

func unitNotFound(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", ErrUnitNotFound, id)
}
