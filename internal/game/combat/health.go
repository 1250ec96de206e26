// Package combat applies damage and healing to an actor's current stats.
package combat

import (
	"log/slog"
	"math"

	"github.com/udisondev/chronosdescent/internal/model"
)

// TakeDamage subtracts amount from target's health.
// Returns true if the hit brought health to zero or below.
// Negative amounts are rejected; use Heal.
func TakeDamage(target *model.Actor, amount float64) bool {
	if target == nil {
		return false
	}
	if amount < 0 || math.IsNaN(amount) {
		slog.Debug("damage rejected", "target", target.Name(), "amount", amount)
		return IsDead(target)
	}

	wasAlive := !IsDead(target)
	target.Stats().UpdateStats(func(s *model.Stats) {
		s.Health -= amount
	})

	dead := IsDead(target)
	if dead && wasAlive {
		slog.Info("actor died", "target", target.Name())
	}
	return dead
}

// Heal adds amount to target's health, capped at max health.
func Heal(target *model.Actor, amount float64) {
	if target == nil {
		return
	}
	if amount < 0 || math.IsNaN(amount) {
		slog.Debug("heal rejected", "target", target.Name(), "amount", amount)
		return
	}

	target.Stats().UpdateStats(func(s *model.Stats) {
		s.Health = math.Min(s.Health+amount, s.MaxHealth)
	})
}

// IsDead reports whether target's health is depleted.
func IsDead(target *model.Actor) bool {
	return target.Stats().Health() <= 0
}
