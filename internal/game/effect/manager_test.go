package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/chronosdescent/internal/model"
)

// mockBehavior is a testify mock of Behavior.
type mockBehavior struct {
	mock.Mock
}

func (m *mockBehavior) OnApply(inst *Instance)             { m.Called(inst) }
func (m *mockBehavior) OnStack(inst *Instance, stacks int) { m.Called(inst, stacks) }
func (m *mockBehavior) OnRemove(inst *Instance)            { m.Called(inst) }
func (m *mockBehavior) OnTick(inst *Instance)              { m.Called(inst) }

type effectEvent struct {
	kind      string
	id        string
	stacks    int
	remaining float64
}

// recorder captures Manager notifications in order.
type recorder struct {
	events []effectEvent
}

func (r *recorder) EffectApplied(def *Definition, stacks int) {
	r.events = append(r.events, effectEvent{kind: "applied", id: def.ID, stacks: stacks})
}

func (r *recorder) EffectRemoved(id string) {
	r.events = append(r.events, effectEvent{kind: "removed", id: id})
}

func (r *recorder) EffectUpdated(def *Definition, stacks int, remaining float64) {
	r.events = append(r.events, effectEvent{kind: "updated", id: def.ID, stacks: stacks, remaining: remaining})
}

func (r *recorder) kinds() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.kind)
	}
	return out
}

func newTarget(t *testing.T) *model.Actor {
	t.Helper()
	return model.NewActor("target", model.DefaultStats())
}

func TestApply_NewInstance(t *testing.T) {
	target := newTarget(t)
	m := NewManager(target)
	rec := &recorder{}
	m.Subscribe(rec)

	def := &Definition{ID: "haste", MaxStacks: 1, Duration: 5,
		Multiplicative: map[model.Specifier]float64{model.SpecMoveSpeed: 1.5}}

	require.True(t, m.Apply(def))

	assert.True(t, m.Has("haste"))
	assert.Equal(t, 1, m.Stacks("haste"))
	assert.Equal(t, 5.0, m.Instance("haste").Remaining())
	assert.True(t, m.IsDirty())
	assert.Equal(t, []effectEvent{{kind: "applied", id: "haste", stacks: 1}}, rec.events)

	// Stats change only at the end of Update.
	assert.Equal(t, 1.0, target.Stats().Current().MoveSpeed)
	require.NoError(t, m.Update(0))
	assert.InDelta(t, 1.5, target.Stats().Current().MoveSpeed, 1e-9)
	assert.False(t, m.IsDirty())
}

func TestApply_NilRejected(t *testing.T) {
	m := NewManager(newTarget(t))
	assert.False(t, m.Apply(nil))
	assert.Equal(t, 0, m.Count())
}

func TestApply_StackableCapsAtMax(t *testing.T) {
	m := NewManager(newTarget(t))
	rec := &recorder{}
	m.Subscribe(rec)

	def := &Definition{ID: "bleed", MaxStacks: 3, Stackable: true, Duration: 4}

	for range 3 {
		m.Apply(def)
	}
	assert.Equal(t, 3, m.Stacks("bleed"))

	require.NoError(t, m.Update(1))
	assert.InDelta(t, 3.0, m.Instance("bleed").Remaining(), 1e-9)

	// Fourth application refreshes only.
	m.Apply(def)
	assert.Equal(t, 3, m.Stacks("bleed"))
	assert.Equal(t, 4.0, m.Instance("bleed").Remaining())

	assert.Equal(t, []string{"applied", "updated", "updated", "updated", "updated"}, rec.kinds())
	assert.Equal(t, 2, rec.events[1].stacks)
	assert.Equal(t, 3, rec.events[2].stacks)
}

func TestApply_NonStackableRefreshes(t *testing.T) {
	m := NewManager(newTarget(t))
	def := &Definition{ID: "shield", MaxStacks: 5, Stackable: false, Duration: 10}

	m.Apply(def)
	require.NoError(t, m.Update(6))
	assert.InDelta(t, 4.0, m.Instance("shield").Remaining(), 1e-9)

	m.Apply(def)
	assert.Equal(t, 1, m.Stacks("shield"))
	assert.Equal(t, 10.0, m.Instance("shield").Remaining())
}

func TestApply_RefreshDoesNotDirty(t *testing.T) {
	m := NewManager(newTarget(t))
	def := &Definition{ID: "might", MaxStacks: 1, Duration: 10,
		Additive: map[model.Specifier]float64{model.SpecDefense: 5}}

	m.Apply(def)
	require.NoError(t, m.Update(0))
	require.False(t, m.IsDirty())

	m.Apply(def)
	assert.False(t, m.IsDirty())
}

func TestRecalculate_MultiplicativeThenAdditive(t *testing.T) {
	target := newTarget(t)
	m := NewManager(target)

	a := &Definition{ID: "a", MaxStacks: 5, Stackable: true, Duration: 10,
		Multiplicative: map[model.Specifier]float64{model.SpecAttackSpeed: 1.1}}
	b := &Definition{ID: "b", MaxStacks: 1, Duration: 10,
		Additive: map[model.Specifier]float64{model.SpecAttackSpeed: 0.2}}

	m.Apply(a)
	m.Apply(a)
	m.Apply(b)
	require.NoError(t, m.Recalculate())

	assert.InDelta(t, 1.41, target.Stats().Current().AttackSpeed, 1e-9)
	// Untouched stats stay at base.
	assert.Equal(t, target.Stats().Base().Defense, target.Stats().Current().Defense)
}

func TestRecalculate_AdditiveScalesWithStacks(t *testing.T) {
	target := newTarget(t)
	m := NewManager(target)

	def := &Definition{ID: "armor", MaxStacks: 4, Stackable: true, Duration: 10,
		Additive: map[model.Specifier]float64{model.SpecDefense: 2.5}}
	for range 4 {
		m.Apply(def)
	}
	require.NoError(t, m.Recalculate())

	assert.InDelta(t, 20.0, target.Stats().Current().Defense, 1e-9)
}

func TestRemove_RestoresBase(t *testing.T) {
	target := newTarget(t)
	m := NewManager(target)
	rec := &recorder{}
	m.Subscribe(rec)

	def := &Definition{ID: "frenzy", MaxStacks: 1, Duration: 10,
		Multiplicative: map[model.Specifier]float64{model.SpecAttackSpeed: 2},
		Additive:       map[model.Specifier]float64{model.SpecCriticalChance: 10}}

	m.Apply(def)
	require.NoError(t, m.Update(0))
	require.NotEqual(t, target.Stats().Base(), target.Stats().Current())

	m.Remove("frenzy")
	assert.True(t, m.IsDirty())
	require.NoError(t, m.Update(0))

	assert.Equal(t, target.Stats().Base(), target.Stats().Current())
	assert.Equal(t, effectEvent{kind: "removed", id: "frenzy"}, rec.events[len(rec.events)-1])
}

func TestRemove_UnknownIsNoop(t *testing.T) {
	m := NewManager(newTarget(t))
	rec := &recorder{}
	m.Subscribe(rec)

	m.Remove("missing")

	assert.Empty(t, rec.events)
	assert.False(t, m.IsDirty())
}

func TestUpdate_ExpiresAfterFullPass(t *testing.T) {
	m := NewManager(newTarget(t))
	rec := &recorder{}

	short := &Definition{ID: "short", MaxStacks: 1, Duration: 1}
	long := &Definition{ID: "long", MaxStacks: 1, Duration: 3}
	m.Apply(short)
	m.Apply(long)
	m.Subscribe(rec)

	require.NoError(t, m.Update(1))

	assert.False(t, m.Has("short"))
	assert.True(t, m.Has("long"))
	assert.Equal(t, []effectEvent{
		{kind: "updated", id: "long", stacks: 1, remaining: 2},
		{kind: "removed", id: "short"},
	}, rec.events)
}

func TestUpdate_TicksPeriodicPayload(t *testing.T) {
	b := &mockBehavior{}
	def := &Definition{ID: "burn", MaxStacks: 1, Duration: 10, NeedsTicking: true, TickInterval: 1, Behavior: b}

	m := NewManager(newTarget(t))
	b.On("OnApply", mock.Anything).Once()
	b.On("OnTick", mock.Anything).Times(3)

	m.Apply(def)
	require.NoError(t, m.Update(0.5))
	require.NoError(t, m.Update(0.5)) // 1st tick
	require.NoError(t, m.Update(2.2)) // 2nd and 3rd

	b.AssertExpectations(t)
}

func TestUpdate_ZeroIntervalTicksEveryUpdate(t *testing.T) {
	b := &mockBehavior{}
	def := &Definition{ID: "aura", MaxStacks: 1, Duration: 10, NeedsTicking: true, Behavior: b}

	m := NewManager(newTarget(t))
	b.On("OnApply", mock.Anything)
	b.On("OnTick", mock.Anything).Times(4)

	m.Apply(def)
	for range 4 {
		require.NoError(t, m.Update(0.016))
	}

	b.AssertExpectations(t)
}

func TestUpdate_NonTickingNeverTicks(t *testing.T) {
	b := &mockBehavior{}
	def := &Definition{ID: "plain", MaxStacks: 1, Duration: 10, Behavior: b}

	m := NewManager(newTarget(t))
	b.On("OnApply", mock.Anything)

	m.Apply(def)
	require.NoError(t, m.Update(5))

	b.AssertNotCalled(t, "OnTick", mock.Anything)
}

func TestBehaviorHooks(t *testing.T) {
	b := &mockBehavior{}
	def := &Definition{ID: "rage", MaxStacks: 2, Stackable: true, Duration: 3, Behavior: b}
	m := NewManager(newTarget(t))

	b.On("OnApply", mock.MatchedBy(func(i *Instance) bool { return i.Stacks() == 1 })).Once()
	b.On("OnStack", mock.Anything, 2).Once()
	b.On("OnRemove", mock.Anything).Once()

	m.Apply(def)
	m.Apply(def)
	m.Apply(def) // refresh
	require.NoError(t, m.Update(3))

	b.AssertExpectations(t)
	assert.False(t, m.Has("rage"))
}

func TestControlEffects(t *testing.T) {
	m := NewManager(newTarget(t))
	stun := &Definition{ID: "stun", MaxStacks: 1, Duration: 1, Control: true}
	slow := &Definition{ID: "slow", MaxStacks: 1, Duration: 5}

	m.Apply(slow)
	assert.False(t, m.HasControlEffect())

	m.Apply(stun)
	assert.True(t, m.HasControlEffect())

	require.NoError(t, m.Update(1))
	assert.False(t, m.HasControlEffect())
	assert.True(t, m.Has("slow"))
}

func TestRemoveAll(t *testing.T) {
	m := NewManager(newTarget(t))
	rec := &recorder{}
	m.Subscribe(rec)

	m.Apply(&Definition{ID: "b", MaxStacks: 1, Duration: 5, NeedsTicking: true})
	m.Apply(&Definition{ID: "a", MaxStacks: 1, Duration: 5, Control: true})
	rec.events = nil

	m.RemoveAll()

	assert.Equal(t, 0, m.Count())
	assert.False(t, m.HasControlEffect())
	assert.Equal(t, []string{"removed", "removed"}, rec.kinds())
}

func TestActive_SortedByID(t *testing.T) {
	m := NewManager(newTarget(t))
	for _, id := range []string{"zeta", "alpha", "mid"} {
		m.Apply(&Definition{ID: id, MaxStacks: 1, Duration: 5})
	}

	var ids []string
	for _, def := range m.Active() {
		ids = append(ids, def.ID)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, ids)
}

func TestRecalculate_UnknownSpecifierAborts(t *testing.T) {
	target := newTarget(t)
	m := NewManager(target)

	good := &Definition{ID: "good", MaxStacks: 1, Duration: 5,
		Additive: map[model.Specifier]float64{model.SpecDefense: 100}}
	bad := &Definition{ID: "bad", MaxStacks: 1, Duration: 5,
		Additive: map[model.Specifier]float64{model.Specifier(42): 1}}

	m.Apply(good)
	m.Apply(bad)

	err := m.Update(0)
	require.ErrorIs(t, err, model.ErrUnknownSpecifier)
	assert.Equal(t, target.Stats().Base(), target.Stats().Current())
	assert.False(t, m.IsDirty())
}

func TestUpdate_PayloadMayRemoveItself(t *testing.T) {
	m := NewManager(newTarget(t))

	b := &mockBehavior{}
	def := &Definition{ID: "once", MaxStacks: 1, Duration: 10, NeedsTicking: true, Behavior: b}
	b.On("OnApply", mock.Anything)
	b.On("OnRemove", mock.Anything)
	b.On("OnTick", mock.Anything).Run(func(mock.Arguments) { m.Remove("once") }).Once()

	m.Apply(def)
	require.NoError(t, m.Update(0.1))
	require.NoError(t, m.Update(0.1))

	assert.False(t, m.Has("once"))
	b.AssertExpectations(t)
}

func TestUnsubscribe(t *testing.T) {
	m := NewManager(newTarget(t))
	rec := &recorder{}
	sub := m.Subscribe(rec)

	m.Apply(&Definition{ID: "x", MaxStacks: 1, Duration: 1})
	sub.Unsubscribe()
	m.Remove("x")

	assert.Equal(t, []string{"applied"}, rec.kinds())
}
