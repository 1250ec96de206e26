package ability

import (
	"fmt"
	"strings"
)

// Slot is a fixed binding point on an actor.
type Slot int8

const (
	SlotNormalAttack Slot = iota
	SlotPrimary
	SlotSecondary
	SlotWeaponUlt

	// SlotNone means "no slot": no exclusive ability, or "use the current one".
	SlotNone Slot = 8
)

// SlotCount is the number of bindable slots.
const SlotCount = 4

var slotNames = [SlotCount]string{
	SlotNormalAttack: "normal_attack",
	SlotPrimary:      "primary",
	SlotSecondary:    "secondary",
	SlotWeaponUlt:    "weapon_ult",
}

// Valid reports whether s indexes a real slot.
func (s Slot) Valid() bool {
	return s >= 0 && s < SlotCount
}

func (s Slot) String() string {
	if s.Valid() {
		return slotNames[s]
	}
	if s == SlotNone {
		return "none"
	}
	return fmt.Sprintf("Slot(%d)", int8(s))
}

// ParseSlot resolves a catalog slot name (case-insensitive).
func ParseSlot(name string) (Slot, error) {
	for i, n := range slotNames {
		if strings.EqualFold(n, name) {
			return Slot(i), nil
		}
	}
	return SlotNone, fmt.Errorf("unknown ability slot %q", name)
}
