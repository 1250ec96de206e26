package model

// StatsModel holds an actor's base and current stat snapshots.
//
// Base is never mutated after construction. Current is overwritten wholesale
// by effect recalculation (Replace) and nudged by combat (UpdateStats).
// Not safe for concurrent use: an actor is simulated on a single goroutine.
type StatsModel struct {
	base    Stats
	current Stats
}

// NewStatsModel creates a StatsModel whose current snapshot equals base.
func NewStatsModel(base Stats) *StatsModel {
	return &StatsModel{base: base, current: base}
}

// Base returns a fresh clone of the base snapshot.
func (m *StatsModel) Base() Stats {
	return m.base.Clone()
}

// Current returns a copy of the current snapshot.
func (m *StatsModel) Current() Stats {
	return m.current.Clone()
}

// Health returns current health.
func (m *StatsModel) Health() float64 {
	return m.current.Health
}

// UpdateStats applies fn to the current snapshot in place.
func (m *StatsModel) UpdateStats(fn func(*Stats)) {
	if fn == nil {
		return
	}
	fn(&m.current)
}

// ResetToBase discards every change to current.
func (m *StatsModel) ResetToBase() {
	m.current = m.base.Clone()
}

// Replace installs s as the current snapshot in a single assignment,
// so readers never observe a half-applied recalculation.
func (m *StatsModel) Replace(s Stats) {
	m.current = s
}
