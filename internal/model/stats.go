package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSpecifier is returned when a stat specifier has no field in Stats.
// Hitting it during recalculation means the effect catalog is broken.
var ErrUnknownSpecifier = errors.New("unknown stat specifier")

// Specifier identifies a single combat stat.
type Specifier int8

const (
	SpecHealth Specifier = iota
	SpecMaxHealth
	SpecCurrentResource
	SpecMaxResource
	SpecDefense
	SpecCriticalChance
	SpecCriticalDamage
	SpecAttackSpeed
	SpecMoveSpeed

	specifierCount
)

var specifierNames = [specifierCount]string{
	SpecHealth:          "health",
	SpecMaxHealth:       "maxHealth",
	SpecCurrentResource: "currentResource",
	SpecMaxResource:     "maxResource",
	SpecDefense:         "defense",
	SpecCriticalChance:  "criticalChance",
	SpecCriticalDamage:  "criticalDamage",
	SpecAttackSpeed:     "attackSpeed",
	SpecMoveSpeed:       "moveSpeed",
}

func (s Specifier) String() string {
	if s < 0 || s >= specifierCount {
		return fmt.Sprintf("Specifier(%d)", int8(s))
	}
	return specifierNames[s]
}

// Valid reports whether s maps to a Stats field.
func (s Specifier) Valid() bool {
	return s >= 0 && s < specifierCount
}

// ParseSpecifier resolves a catalog stat name (case-insensitive).
func ParseSpecifier(name string) (Specifier, error) {
	for i, n := range specifierNames {
		if strings.EqualFold(n, name) {
			return Specifier(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSpecifier, name)
}

// MarshalText implements encoding.TextMarshaler so specifiers can key YAML maps.
func (s Specifier) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSpecifier, int8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Specifier) UnmarshalText(text []byte) error {
	parsed, err := ParseSpecifier(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Stats is a snapshot of an actor's combat stats.
// Value type: copying a Stats copies the whole snapshot.
type Stats struct {
	Health          float64 `yaml:"health"`
	MaxHealth       float64 `yaml:"max_health"`
	CurrentResource float64 `yaml:"current_resource"`
	MaxResource     float64 `yaml:"max_resource"`
	Defense         float64 `yaml:"defense"`
	CriticalChance  float64 `yaml:"critical_chance"` // percentage
	CriticalDamage  float64 `yaml:"critical_damage"` // percentage
	AttackSpeed     float64 `yaml:"attack_speed"`    // attacks/second
	MoveSpeed       float64 `yaml:"move_speed"`      // units/second
}

// DefaultStats returns the baseline stats every new actor starts from.
func DefaultStats() Stats {
	return Stats{
		Health:          100,
		MaxHealth:       100,
		CurrentResource: 100,
		MaxResource:     100,
		Defense:         10,
		CriticalChance:  50,
		CriticalDamage:  100,
		AttackSpeed:     1,
		MoveSpeed:       1,
	}
}

// Clone returns an independent copy of s.
func (s *Stats) Clone() Stats {
	return *s
}

// field returns a pointer to the field named by spec.
func (s *Stats) field(spec Specifier) (*float64, error) {
	switch spec {
	case SpecHealth:
		return &s.Health, nil
	case SpecMaxHealth:
		return &s.MaxHealth, nil
	case SpecCurrentResource:
		return &s.CurrentResource, nil
	case SpecMaxResource:
		return &s.MaxResource, nil
	case SpecDefense:
		return &s.Defense, nil
	case SpecCriticalChance:
		return &s.CriticalChance, nil
	case SpecCriticalDamage:
		return &s.CriticalDamage, nil
	case SpecAttackSpeed:
		return &s.AttackSpeed, nil
	case SpecMoveSpeed:
		return &s.MoveSpeed, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownSpecifier, int8(spec))
	}
}

// Get returns the value of the stat named by spec.
func (s *Stats) Get(spec Specifier) (float64, error) {
	f, err := s.field(spec)
	if err != nil {
		return 0, err
	}
	return *f, nil
}

// Set overwrites the stat named by spec.
func (s *Stats) Set(spec Specifier, value float64) error {
	f, err := s.field(spec)
	if err != nil {
		return err
	}
	*f = value
	return nil
}
