package effect

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownBehavior is returned by CreateBehavior for unregistered names.
var ErrUnknownBehavior = errors.New("unknown effect behavior")

// Factory builds a Behavior from catalog parameters.
type Factory func(params map[string]string) (Behavior, error)

// behaviorRegistry maps behavior name to factory.
// Populated by init(); RegisterBehavior after startup is not safe for concurrent use.
var behaviorRegistry = map[string]Factory{}

// RegisterBehavior registers a factory by name, replacing any previous one.
func RegisterBehavior(name string, factory Factory) {
	behaviorRegistry[name] = factory
}

// CreateBehavior creates a behavior by name using the registered factory.
func CreateBehavior(name string, params map[string]string) (Behavior, error) {
	factory, ok := behaviorRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBehavior, name)
	}
	b, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("create behavior %s: %w", name, err)
	}
	return b, nil
}

// BehaviorNames lists registered behavior names in sorted order.
func BehaviorNames() []string {
	names := make([]string, 0, len(behaviorRegistry))
	for name := range behaviorRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterBehavior("DamageOverTime", NewDamageOverTime)
	RegisterBehavior("HealOverTime", NewHealOverTime)
	RegisterBehavior("Stun", NewStun)
	RegisterBehavior("StatUp", NewStatUp)
}
