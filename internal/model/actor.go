package model

import "github.com/google/uuid"

// Actor is the owning entity of abilities and effects.
// Abilities hold a non-owning *Actor as their caster.
type Actor struct {
	id              uuid.UUID
	name            string
	movementAllowed bool
	stats           *StatsModel
}

// NewActor creates an actor with a random ID and movement allowed.
func NewActor(name string, base Stats) *Actor {
	return &Actor{
		id:              uuid.New(),
		name:            name,
		movementAllowed: true,
		stats:           NewStatsModel(base),
	}
}

// ID returns the actor's unique identifier.
func (a *Actor) ID() uuid.UUID {
	return a.id
}

// Name returns the display name used in diagnostics.
func (a *Actor) Name() string {
	return a.name
}

// Stats returns the actor's stat model.
func (a *Actor) Stats() *StatsModel {
	return a.stats
}

// MovementAllowed reports whether the actor may move.
// False while a charged or channeled ability roots the actor.
func (a *Actor) MovementAllowed() bool {
	return a.movementAllowed
}

// SetMovementAllowed sets the movement flag.
func (a *Actor) SetMovementAllowed(allowed bool) {
	a.movementAllowed = allowed
}
