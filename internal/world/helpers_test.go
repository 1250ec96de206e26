package world

import "github.com/udisondev/chronosdescent/internal/game/effect"

func testEffect(id string) *effect.Definition {
	return &effect.Definition{ID: id, MaxStacks: 1, Duration: 10}
}
