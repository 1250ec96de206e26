package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/chronosdescent/internal/model"
)

func TestCreateBehavior_Registered(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   any
	}{
		{"DamageOverTime", map[string]string{"power": "5"}, &DamageOverTime{}},
		{"HealOverTime", map[string]string{"power": "3"}, &HealOverTime{}},
		{"Stun", nil, &Stun{}},
		{"StatUp", nil, &StatUp{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := CreateBehavior(tt.name, tt.params)
			require.NoError(t, err)
			assert.IsType(t, tt.want, b)
		})
	}
}

func TestCreateBehavior_Errors(t *testing.T) {
	_, err := CreateBehavior("Teleport", nil)
	require.ErrorIs(t, err, ErrUnknownBehavior)

	_, err = CreateBehavior("DamageOverTime", map[string]string{"power": "lots"})
	require.Error(t, err)

	_, err = CreateBehavior("HealOverTime", map[string]string{"power": "-1"})
	require.Error(t, err)
}

func TestBehaviorNames(t *testing.T) {
	assert.Subset(t, BehaviorNames(), []string{"DamageOverTime", "HealOverTime", "StatUp", "Stun"})
}

func TestDamageOverTime_ScalesWithStacks(t *testing.T) {
	target := model.NewActor("dummy", model.DefaultStats())
	m := NewManager(target)

	b, err := CreateBehavior("DamageOverTime", map[string]string{"power": "4"})
	require.NoError(t, err)
	def := &Definition{ID: "poison", MaxStacks: 3, Stackable: true, Duration: 10,
		NeedsTicking: true, TickInterval: 1, Behavior: b}

	m.Apply(def)
	require.NoError(t, m.Update(1))
	assert.Equal(t, 96.0, target.Stats().Health())

	m.Apply(def)
	require.NoError(t, m.Update(1))
	assert.Equal(t, 88.0, target.Stats().Health())
}

func TestHealOverTime_CappedAtMax(t *testing.T) {
	target := model.NewActor("dummy", model.DefaultStats())
	target.Stats().UpdateStats(func(s *model.Stats) { s.Health = 95 })
	m := NewManager(target)

	b, err := NewHealOverTime(map[string]string{"power": "10"})
	require.NoError(t, err)
	m.Apply(&Definition{ID: "regen", MaxStacks: 1, Duration: 5, NeedsTicking: true, TickInterval: 1, Behavior: b})

	require.NoError(t, m.Update(1))
	assert.Equal(t, 100.0, target.Stats().Health())
}

func TestDefinitionValidate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{"ok", Definition{ID: "x", MaxStacks: 1, Duration: 1}, false},
		{"empty id", Definition{MaxStacks: 1}, true},
		{"zero stacks", Definition{ID: "x"}, true},
		{"negative duration", Definition{ID: "x", MaxStacks: 1, Duration: -1}, true},
		{"bad additive", Definition{ID: "x", MaxStacks: 1,
			Additive: map[model.Specifier]float64{model.Specifier(-1): 1}}, true},
		{"bad multiplicative", Definition{ID: "x", MaxStacks: 1,
			Multiplicative: map[model.Specifier]float64{model.Specifier(99): 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestInstance_UpdateClampsAtZero(t *testing.T) {
	inst := newInstance(&Definition{ID: "x", MaxStacks: 1, Duration: 1}, nil)

	assert.False(t, inst.IsExpired())
	inst.Update(5)
	assert.Equal(t, 0.0, inst.Remaining())
	assert.True(t, inst.IsExpired())
}
