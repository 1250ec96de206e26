package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Catalog sources.
const (
	SourceEmbedded = "embedded"
	SourceYAML     = "yaml"
	SourcePostgres = "postgres"
)

// Simulator holds all configuration for the rules simulator.
// YAML values are overlaid by CHRONOS_* environment variables.
type Simulator struct {
	LogLevel string `yaml:"log_level" env:"CHRONOS_LOG_LEVEL"`

	// Fixed-step rate of the tick loop, in updates per second.
	TickRate int `yaml:"tick_rate" env:"CHRONOS_TICK_RATE"`

	// Seconds to simulate before exiting; 0 runs until interrupted.
	Duration float64 `yaml:"duration" env:"CHRONOS_DURATION"`

	// Definition catalog
	CatalogSource   string `yaml:"catalog_source" env:"CHRONOS_CATALOG_SOURCE"`
	DefinitionsPath string `yaml:"definitions_path" env:"CHRONOS_DEFINITIONS_PATH"`

	// Database (catalog_source: postgres)
	Database       DatabaseConfig `yaml:"database"`
	MigrateOnStart bool           `yaml:"migrate_on_start" env:"CHRONOS_MIGRATE_ON_START"`

	// Demo loadout: slot name -> ability id.
	Loadout map[string]string `yaml:"loadout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"CHRONOS_DB_HOST"`
	Port     int    `yaml:"port" env:"CHRONOS_DB_PORT"`
	User     string `yaml:"user" env:"CHRONOS_DB_USER"`
	Password string `yaml:"password" env:"CHRONOS_DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"CHRONOS_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"CHRONOS_DB_SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultSimulator returns Simulator config with sensible defaults.
func DefaultSimulator() Simulator {
	return Simulator{
		LogLevel:        "info",
		TickRate:        20,
		CatalogSource:   SourceEmbedded,
		DefinitionsPath: "definitions",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "chronos",
			Password: "chronos",
			DBName:   "chronos",
			SSLMode:  "disable",
		},
		MigrateOnStart: true,
		Loadout: map[string]string{
			"normal_attack": "slash",
			"primary":       "heavy_blow",
			"secondary":     "meditate",
			"weapon_ult":    "stone_form",
		},
	}
}

// LoadSimulator loads simulator config from a YAML file, then applies the
// environment overlay. If the file doesn't exist, defaults are used.
func LoadSimulator(path string) (Simulator, error) {
	cfg := DefaultSimulator()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the simulator cannot run with.
func (s Simulator) Validate() error {
	if s.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", s.TickRate)
	}
	if s.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %v", s.Duration)
	}
	switch s.CatalogSource {
	case SourceEmbedded, SourceYAML, SourcePostgres:
	default:
		return fmt.Errorf("unknown catalog_source %q", s.CatalogSource)
	}
	return nil
}
