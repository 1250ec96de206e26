package data

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/udisondev/chronosdescent/internal/game/effect"
)

var (
	ErrUnknownEffect       = errors.New("unknown effect")
	ErrUnknownAbility      = errors.New("unknown ability")
	ErrInvalidDefinition   = errors.New("invalid definition")
	ErrDuplicateDefinition = errors.New("duplicate definition")
)

// Catalog holds every effect and ability definition known to the simulator.
// Built once at startup; lookups are safe for concurrent use.
type Catalog struct {
	mu sync.RWMutex

	effectDefs map[string]*EffectDef
	effects    map[string]*effect.Definition
	abilities  map[string]*AbilityDef
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		effectDefs: make(map[string]*EffectDef),
		effects:    make(map[string]*effect.Definition),
		abilities:  make(map[string]*AbilityDef),
	}
}

// AddEffect builds and registers def. IDs must be unique.
func (c *Catalog) AddEffect(def EffectDef) error {
	built, err := def.Build()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.effects[def.ID]; ok {
		return fmt.Errorf("effect %s: %w", def.ID, ErrDuplicateDefinition)
	}
	c.effectDefs[def.ID] = &def
	c.effects[def.ID] = built
	return nil
}

// AddAbility registers def. Effect references are checked by Validate.
func (c *Catalog) AddAbility(def AbilityDef) error {
	if def.ID == "" {
		return fmt.Errorf("%w: ability id is empty", ErrInvalidDefinition)
	}
	if _, err := def.Config(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.abilities[def.ID]; ok {
		return fmt.Errorf("ability %s: %w", def.ID, ErrDuplicateDefinition)
	}
	c.abilities[def.ID] = &def
	return nil
}

// Merge adds every definition of other to c.
func (c *Catalog) Merge(other *Catalog) error {
	for _, id := range other.EffectIDs() {
		if err := c.AddEffect(*other.EffectDef(id)); err != nil {
			return err
		}
	}
	for _, id := range other.AbilityIDs() {
		if err := c.AddAbility(*other.AbilityDef(id)); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks cross references between abilities and effects.
func (c *Catalog) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs []error
	for _, id := range sortedKeys(c.abilities) {
		for _, ref := range c.abilities[id].Effects {
			if _, ok := c.effects[ref]; !ok {
				errs = append(errs, fmt.Errorf("ability %s: %w: %s", id, ErrUnknownEffect, ref))
			}
		}
	}
	return errors.Join(errs...)
}

// Effect returns the built effect definition, or nil if not found.
func (c *Catalog) Effect(id string) *effect.Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.effects[id]
}

// EffectDef returns the source definition of an effect, or nil if not found.
func (c *Catalog) EffectDef(id string) *EffectDef {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.effectDefs[id]
}

// AbilityDef returns the ability definition, or nil if not found.
func (c *Catalog) AbilityDef(id string) *AbilityDef {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.abilities[id]
}

// EffectIDs returns all effect IDs in sorted order.
func (c *Catalog) EffectIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.effects)
}

// AbilityIDs returns all ability IDs in sorted order.
func (c *Catalog) AbilityIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.abilities)
}

// Count returns the number of effects and abilities.
func (c *Catalog) Count() (effects, abilities int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.effects), len(c.abilities)
}

func (c *Catalog) logLoaded(source string) {
	effects, abilities := c.Count()
	slog.Info("loaded definitions", "source", source, "effects", effects, "abilities", abilities)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
