package effect

// Behavior is the per-effect payload hooked into an instance's lifecycle.
// OnTick fires only for definitions with NeedsTicking set.
type Behavior interface {
	OnApply(inst *Instance)
	OnStack(inst *Instance, stacks int)
	OnRemove(inst *Instance)
	OnTick(inst *Instance)
}

// BaseBehavior implements Behavior with no-ops. Embed it to override selected hooks.
type BaseBehavior struct{}

func (BaseBehavior) OnApply(*Instance)      {}
func (BaseBehavior) OnStack(*Instance, int) {}
func (BaseBehavior) OnRemove(*Instance)     {}
func (BaseBehavior) OnTick(*Instance)       {}
