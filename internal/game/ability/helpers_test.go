package ability

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/chronosdescent/internal/model"
)

// recordingBehavior counts hook invocations.
type recordingBehavior struct {
	BaseBehavior
	executed    []float64
	toggles     []bool
	toggleTicks int
	passive     int
	chanStart   int
	chanTicks   int
	chanDone    int
	chanBroken  int
	cancels     int
	initialized int
}

func (b *recordingBehavior) Execute(_ *Ability, power float64)  { b.executed = append(b.executed, power) }
func (b *recordingBehavior) OnToggle(_ *Ability, on bool)       { b.toggles = append(b.toggles, on) }
func (b *recordingBehavior) OnToggleTick(*Ability, float64)     { b.toggleTicks++ }
func (b *recordingBehavior) OnPassiveTick(*Ability, float64)    { b.passive++ }
func (b *recordingBehavior) OnChannelStart(*Ability)            { b.chanStart++ }
func (b *recordingBehavior) OnChannelTick(*Ability, float64)    { b.chanTicks++ }
func (b *recordingBehavior) OnChannelComplete(*Ability)         { b.chanDone++ }
func (b *recordingBehavior) OnChannelInterrupt(*Ability)        { b.chanBroken++ }
func (b *recordingBehavior) OnChargeCancel(*Ability)            { b.cancels++ }
func (b *recordingBehavior) Initialize(*Ability)                { b.initialized++ }

// mockBehavior is a testify mock of Behavior.
type mockBehavior struct {
	mock.Mock
}

func (m *mockBehavior) Execute(a *Ability, power float64)    { m.Called(a, power) }
func (m *mockBehavior) OnToggle(a *Ability, on bool)         { m.Called(a, on) }
func (m *mockBehavior) OnToggleTick(a *Ability, dt float64)  { m.Called(a, dt) }
func (m *mockBehavior) OnPassiveTick(a *Ability, dt float64) { m.Called(a, dt) }
func (m *mockBehavior) OnChannelStart(a *Ability)            { m.Called(a) }
func (m *mockBehavior) OnChannelTick(a *Ability, dt float64) { m.Called(a, dt) }
func (m *mockBehavior) OnChannelComplete(a *Ability)         { m.Called(a) }
func (m *mockBehavior) OnChannelInterrupt(a *Ability)        { m.Called(a) }
func (m *mockBehavior) OnChargeCancel(a *Ability)            { m.Called(a) }

type notification struct {
	kind     string
	ability  *Ability
	state    State
	cooldown float64
	slot     Slot
}

// recorder captures every Manager notification in order.
type recorder struct {
	events []notification
}

func (r *recorder) AbilityActivated(a *Ability) {
	r.events = append(r.events, notification{kind: "activated", ability: a})
}

func (r *recorder) CooldownChanged(a *Ability, cd float64) {
	r.events = append(r.events, notification{kind: "cooldown", ability: a, cooldown: cd})
}

func (r *recorder) StateChanged(a *Ability, st State) {
	r.events = append(r.events, notification{kind: "state", ability: a, state: st})
}

func (r *recorder) SlotChanged(a *Ability, slot Slot) {
	r.events = append(r.events, notification{kind: "slot", ability: a, slot: slot})
}

func (r *recorder) kinds() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.kind
	}
	return out
}

func (r *recorder) states() []State {
	var out []State
	for _, e := range r.events {
		if e.kind == "state" {
			out = append(out, e.state)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.events = nil
}

func newTestAbility(t *testing.T, cfg Config) *Ability {
	t.Helper()
	if cfg.Name == "" {
		cfg.Name = "test-" + cfg.Kind.String()
	}
	a, err := New(cfg)
	require.NoError(t, err)
	return a
}

func newCharged(t *testing.T, cooldown float64, b Behavior) *Ability {
	t.Helper()
	return newTestAbility(t, Config{
		Kind:             KindCharged,
		Cooldown:         cooldown,
		ChargeMin:        0.2,
		ChargeMax:        1.0,
		AutoReleaseAtMax: true,
		Behavior:         b,
	})
}

func newChanneled(t *testing.T, cooldown, duration float64, b Behavior) *Ability {
	t.Helper()
	return newTestAbility(t, Config{
		Kind:            KindChanneled,
		Cooldown:        cooldown,
		ChannelDuration: duration,
		Behavior:        b,
	})
}

func newTestManager(t *testing.T) (*Manager, *model.Actor, *recorder) {
	t.Helper()
	owner := model.NewActor("hero", model.DefaultStats())
	m := NewManager(owner)
	rec := &recorder{}
	m.Subscribe(rec)
	return m, owner, rec
}
