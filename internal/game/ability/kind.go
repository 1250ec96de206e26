package ability

import (
	"fmt"
	"strings"
)

// Kind selects the activation model of an ability. Fixed at construction.
type Kind int8

const (
	KindActive    Kind = iota // one-shot: fire payload, start cooldown
	KindPassive               // always on, ticks every update
	KindToggle                // on/off, ticks while on
	KindCharged               // hold to charge, release to fire scaled payload
	KindChanneled             // fires over a duration, may be interrupted
)

var kindNames = map[Kind]string{
	KindActive:    "active",
	KindPassive:   "passive",
	KindToggle:    "toggle",
	KindCharged:   "charged",
	KindChanneled: "channeled",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int8(k))
}

// Exclusive reports whether abilities of this kind occupy the actor's exclusive slot.
func (k Kind) Exclusive() bool {
	return k == KindCharged || k == KindChanneled
}

// ParseKind resolves a catalog kind name (case-insensitive).
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown ability kind %q", s)
}

// State is the descriptive state published to observers.
type State int8

const (
	StateDefault State = iota
	StateCooldown
	StateCharging
	StateChanneling
	StateToggledOn
	StateToggledOff
)

func (s State) String() string {
	switch s {
	case StateDefault:
		return "Default"
	case StateCooldown:
		return "Cooldown"
	case StateCharging:
		return "Charging"
	case StateChanneling:
		return "Channeling"
	case StateToggledOn:
		return "ToggledOn"
	case StateToggledOff:
		return "ToggledOff"
	default:
		return fmt.Sprintf("State(%d)", int8(s))
	}
}
