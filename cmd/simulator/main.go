// simulator runs a demo unit through its ability loadout on the fixed-step tick loop.
//
// Usage:
//
//	go run ./cmd/simulator
//	CHRONOS_CONFIG=config/simulator.yaml CHRONOS_LOG_LEVEL=debug go run ./cmd/simulator
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/chronosdescent/internal/config"
	"github.com/udisondev/chronosdescent/internal/data"
	"github.com/udisondev/chronosdescent/internal/db"
	"github.com/udisondev/chronosdescent/internal/game/ability"
	"github.com/udisondev/chronosdescent/internal/game/effect"
	"github.com/udisondev/chronosdescent/internal/model"
	"github.com/udisondev/chronosdescent/internal/world"
)

const (
	SimulatorConfigPath = "config/simulator.yaml"

	// Wall-clock pause between scripted inputs of the demo driver.
	inputInterval = 750 * time.Millisecond
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// .env is optional; real environment variables win.
	envErr := godotenv.Load()

	cfgPath := SimulatorConfigPath
	if p := os.Getenv("CHRONOS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulator(cfgPath)
	if err != nil {
		return fmt.Errorf("loading simulator config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	if envErr != nil {
		slog.Debug("no .env file loaded", "err", envErr)
	}

	slog.Info("simulator starting",
		"log_level", cfg.LogLevel,
		"tick_rate", cfg.TickRate,
		"catalog_source", cfg.CatalogSource)

	catalog, err := loadCatalog(ctx, cfg)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	hero := world.NewUnit("hero", model.DefaultStats())
	if err := equipLoadout(hero, catalog, cfg.Loadout); err != nil {
		return fmt.Errorf("equipping loadout: %w", err)
	}
	subscribeLogging(hero)

	tm := world.NewTickManager(cfg.TickRate)
	tm.Register(hero)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := tm.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("tick manager: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return drive(gctx, tm, hero.ID())
	})

	if cfg.Duration > 0 {
		g.Go(func() error {
			timer := time.NewTimer(time.Duration(cfg.Duration * float64(time.Second)))
			defer timer.Stop()
			select {
			case <-gctx.Done():
			case <-timer.C:
				slog.Info("simulation duration reached", "seconds", cfg.Duration)
				tm.Stop()
			}
			return errStopped
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errStopped) {
		return fmt.Errorf("simulator error: %w", err)
	}

	current := hero.Actor().Stats().Current()
	slog.Info("simulator stopped",
		"ticks", tm.Ticks(),
		"health", current.Health,
		"attack_speed", current.AttackSpeed,
		"active_effects", hero.Effects().Count())
	return nil
}

// errStopped ends the run group once the configured duration elapses.
var errStopped = errors.New("simulation stopped")

func loadCatalog(ctx context.Context, cfg config.Simulator) (*data.Catalog, error) {
	switch cfg.CatalogSource {
	case config.SourceYAML:
		return data.LoadDir(ctx, cfg.DefinitionsPath)

	case config.SourcePostgres:
		if cfg.MigrateOnStart {
			if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
				return nil, fmt.Errorf("running migrations: %w", err)
			}
			slog.Info("database migrations applied")
		}

		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		defer database.Close()

		repo := database.Definitions()
		catalog, err := repo.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		if effects, abilities := catalog.Count(); effects+abilities > 0 {
			return catalog, nil
		}

		slog.Info("definition tables empty, seeding embedded defaults")
		defaults, err := data.LoadDefaults(ctx)
		if err != nil {
			return nil, err
		}
		if err := repo.SaveCatalog(ctx, defaults); err != nil {
			return nil, fmt.Errorf("seeding definitions: %w", err)
		}
		return defaults, nil

	default:
		return data.LoadDefaults(ctx)
	}
}

func equipLoadout(u *world.Unit, c *data.Catalog, loadout map[string]string) error {
	for name, id := range loadout {
		slot, err := ability.ParseSlot(name)
		if err != nil {
			return err
		}
		if err := u.Equip(c, slot, id); err != nil {
			return err
		}
	}
	return nil
}

func subscribeLogging(u *world.Unit) {
	u.Abilities().Subscribe(ability.ListenerFuncs{
		OnActivated: func(a *ability.Ability) {
			slog.Info("ability activated", "unit", u.Name(), "ability", a.Name())
		},
		OnStateChanged: func(a *ability.Ability, st ability.State) {
			slog.Debug("ability state", "unit", u.Name(), "ability", a.Name(), "state", st)
		},
	})
	u.Effects().Subscribe(effect.ListenerFuncs{
		OnApplied: func(def *effect.Definition, stacks int) {
			slog.Info("effect applied", "unit", u.Name(), "effect", def.Name, "stacks", stacks)
		},
		OnRemoved: func(id string) {
			slog.Info("effect removed", "unit", u.Name(), "effect", id)
		},
	})
}

// drive feeds scripted input to the unit: it cycles through the slots,
// releasing a held charge before moving on.
func drive(ctx context.Context, tm *world.TickManager, id uuid.UUID) error {
	ticker := time.NewTicker(inputInterval)
	defer ticker.Stop()

	next := ability.SlotNormalAttack
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		err := tm.WithUnit(id, func(u *world.Unit) {
			m := u.Abilities()
			if m.IsCharging(m.ExclusiveSlot()) {
				m.ReleaseChargedAbility(ability.SlotNone)
				return
			}
			if m.HasActiveAbility() {
				return
			}
			u.Activate(next)
			next = (next + 1) % ability.SlotCount
		})
		if err != nil {
			return err
		}
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
