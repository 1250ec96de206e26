package effect

import "log/slog"

// Stun marks the target as disabled for its duration.
// Blocking actions is left to callers via Manager.HasControlEffect; pair it with Definition.Control.
type Stun struct {
	BaseBehavior
}

// NewStun is the registry factory for Stun. No params.
func NewStun(_ map[string]string) (Behavior, error) {
	return &Stun{}, nil
}

func (Stun) OnApply(inst *Instance) {
	slog.Debug("stun applied", "effect", inst.def.ID, "target", inst.target.Name())
}

func (Stun) OnRemove(inst *Instance) {
	slog.Debug("stun removed", "effect", inst.def.ID, "target", inst.target.Name())
}

// StatUp is the payload of pure stat buffs. Modifiers live on the Definition;
// the behavior only traces lifecycle.
type StatUp struct {
	BaseBehavior
}

// NewStatUp is the registry factory for StatUp. No params.
func NewStatUp(_ map[string]string) (Behavior, error) {
	return &StatUp{}, nil
}

func (StatUp) OnApply(inst *Instance) {
	slog.Debug("stat up applied", "effect", inst.def.ID, "target", inst.target.Name())
}

func (StatUp) OnStack(inst *Instance, stacks int) {
	slog.Debug("stat up stacked", "effect", inst.def.ID, "stacks", stacks, "target", inst.target.Name())
}

func (StatUp) OnRemove(inst *Instance) {
	slog.Debug("stat up removed", "effect", inst.def.ID, "target", inst.target.Name())
}
