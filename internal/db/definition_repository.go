package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/chronosdescent/internal/data"
	"github.com/udisondev/chronosdescent/internal/model"
)

const (
	opAdd = "add"
	opMul = "mul"
)

// DefinitionRepository reads and writes the effect/ability catalog.
type DefinitionRepository struct {
	pool *pgxpool.Pool
}

// NewDefinitionRepository creates a repository on pool.
func NewDefinitionRepository(pool *pgxpool.Pool) *DefinitionRepository {
	return &DefinitionRepository{pool: pool}
}

// LoadCatalog reads every definition and builds a validated catalog.
func (r *DefinitionRepository) LoadCatalog(ctx context.Context) (*data.Catalog, error) {
	effects, err := r.loadEffects(ctx)
	if err != nil {
		return nil, err
	}
	abilities, err := r.loadAbilities(ctx)
	if err != nil {
		return nil, err
	}

	f := data.File{Effects: effects, Abilities: abilities}
	c, err := f.Catalog()
	if err != nil {
		return nil, fmt.Errorf("building catalog from database: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating catalog from database: %w", err)
	}

	slog.Info("loaded definitions", "source", "postgres", "effects", len(effects), "abilities", len(abilities))
	return c, nil
}

// EffectDef returns one effect definition.
// Returns nil, nil if it does not exist.
func (r *DefinitionRepository) EffectDef(ctx context.Context, id string) (*data.EffectDef, error) {
	def, err := scanEffect(r.pool.QueryRow(ctx, `
		SELECT id, name, max_stacks, stackable, duration, needs_ticking,
		       tick_interval, control, behavior, behavior_params
		FROM effect_definitions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying effect %q: %w", id, err)
	}

	mods, err := r.loadModifiers(ctx, `WHERE effect_id = $1`, id)
	if err != nil {
		return nil, err
	}
	applyModifiers(def, mods[id])
	return def, nil
}

func (r *DefinitionRepository) loadEffects(ctx context.Context) ([]data.EffectDef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, max_stacks, stackable, duration, needs_ticking,
		       tick_interval, control, behavior, behavior_params
		FROM effect_definitions
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying effect definitions: %w", err)
	}
	defer rows.Close()

	var defs []data.EffectDef
	for rows.Next() {
		def, err := scanEffect(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning effect row: %w", err)
		}
		defs = append(defs, *def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating effect rows: %w", err)
	}

	mods, err := r.loadModifiers(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range defs {
		applyModifiers(&defs[i], mods[defs[i].ID])
	}
	return defs, nil
}

func scanEffect(row pgx.Row) (*data.EffectDef, error) {
	var (
		def      data.EffectDef
		behavior *string
		params   map[string]string
	)
	err := row.Scan(&def.ID, &def.Name, &def.MaxStacks, &def.Stackable, &def.Duration,
		&def.NeedsTicking, &def.TickInterval, &def.Control, &behavior, &params)
	if err != nil {
		return nil, err
	}

	if behavior != nil && *behavior != "" {
		def.Behavior = &data.BehaviorRef{Name: *behavior}
		if len(params) > 0 {
			def.Behavior.Params = params
		}
	}
	return &def, nil
}

type modifierRow struct {
	stat  model.Specifier
	op    string
	value float64
}

// loadModifiers returns modifiers grouped by effect ID. where is an optional filter clause.
func (r *DefinitionRepository) loadModifiers(ctx context.Context, where string, args ...any) (map[string][]modifierRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT effect_id, stat, op, value FROM effect_modifiers `+where+` ORDER BY effect_id, stat`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying effect modifiers: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]modifierRow)
	for rows.Next() {
		var (
			effectID, stat string
			m              modifierRow
		)
		if err := rows.Scan(&effectID, &stat, &m.op, &m.value); err != nil {
			return nil, fmt.Errorf("scanning modifier row: %w", err)
		}
		spec, err := model.ParseSpecifier(stat)
		if err != nil {
			return nil, fmt.Errorf("effect %s: %w", effectID, err)
		}
		m.stat = spec
		out[effectID] = append(out[effectID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating modifier rows: %w", err)
	}
	return out, nil
}

func applyModifiers(def *data.EffectDef, mods []modifierRow) {
	for _, m := range mods {
		switch m.op {
		case opAdd:
			if def.Additive == nil {
				def.Additive = make(map[model.Specifier]float64)
			}
			def.Additive[m.stat] = m.value
		case opMul:
			if def.Multiplicative == nil {
				def.Multiplicative = make(map[model.Specifier]float64)
			}
			def.Multiplicative[m.stat] = m.value
		}
	}
}

func (r *DefinitionRepository) loadAbilities(ctx context.Context) ([]data.AbilityDef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, kind, cooldown, charge_min, charge_max,
		       auto_release_at_max, channel_duration
		FROM ability_definitions
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying ability definitions: %w", err)
	}
	defer rows.Close()

	var defs []data.AbilityDef
	index := make(map[string]int)
	for rows.Next() {
		var def data.AbilityDef
		if err := rows.Scan(&def.ID, &def.Name, &def.Kind, &def.Cooldown, &def.ChargeMin,
			&def.ChargeMax, &def.AutoReleaseAtMax, &def.ChannelDuration); err != nil {
			return nil, fmt.Errorf("scanning ability row: %w", err)
		}
		index[def.ID] = len(defs)
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ability rows: %w", err)
	}

	links, err := r.pool.Query(ctx, `SELECT ability_id, effect_id FROM ability_effects ORDER BY ability_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying ability effects: %w", err)
	}
	defer links.Close()

	for links.Next() {
		var abilityID, effectID string
		if err := links.Scan(&abilityID, &effectID); err != nil {
			return nil, fmt.Errorf("scanning ability effect row: %w", err)
		}
		if i, ok := index[abilityID]; ok {
			defs[i].Effects = append(defs[i].Effects, effectID)
		}
	}
	if err := links.Err(); err != nil {
		return nil, fmt.Errorf("iterating ability effect rows: %w", err)
	}
	return defs, nil
}

// SaveCatalog replaces every stored definition with the contents of c
// in a single transaction.
func (r *DefinitionRepository) SaveCatalog(ctx context.Context, c *data.Catalog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE ability_effects, ability_definitions, effect_modifiers, effect_definitions`); err != nil {
		return fmt.Errorf("clearing definitions: %w", err)
	}

	effectIDs := c.EffectIDs()
	if err := saveEffects(ctx, tx, c, effectIDs); err != nil {
		return err
	}
	abilityIDs := c.AbilityIDs()
	if err := saveAbilities(ctx, tx, c, abilityIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing definitions save: %w", err)
	}

	slog.Info("saved definitions", "effects", len(effectIDs), "abilities", len(abilityIDs))
	return nil
}

func saveEffects(ctx context.Context, tx pgx.Tx, c *data.Catalog, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	var mods [][]any
	for _, id := range ids {
		def := c.EffectDef(id)

		var behavior *string
		params := map[string]string{}
		if def.Behavior != nil {
			behavior = &def.Behavior.Name
			for k, v := range def.Behavior.Params {
				params[k] = v
			}
		}

		batch.Queue(
			`INSERT INTO effect_definitions
			 (id, name, max_stacks, stackable, duration, needs_ticking,
			  tick_interval, control, behavior, behavior_params)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			def.ID, def.Name, max(def.MaxStacks, 1), def.Stackable, def.Duration, def.NeedsTicking,
			def.TickInterval, def.Control, behavior, params,
		)

		for spec, v := range def.Additive {
			mods = append(mods, []any{def.ID, spec.String(), opAdd, v})
		}
		for spec, v := range def.Multiplicative {
			mods = append(mods, []any{def.ID, spec.String(), opMul, v})
		}
	}

	br := tx.SendBatch(ctx, batch)
	for _, id := range ids {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck
			return fmt.Errorf("inserting effect %s: %w", id, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close effect batch: %w", err)
	}

	if len(mods) == 0 {
		return nil
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"effect_modifiers"},
		[]string{"effect_id", "stat", "op", "value"},
		pgx.CopyFromRows(mods),
	); err != nil {
		return fmt.Errorf("inserting effect modifiers: %w", err)
	}
	return nil
}

func saveAbilities(ctx context.Context, tx pgx.Tx, c *data.Catalog, ids []string) error {
	var links [][]any
	for _, id := range ids {
		def := c.AbilityDef(id)
		if _, err := tx.Exec(ctx,
			`INSERT INTO ability_definitions
			 (id, name, kind, cooldown, charge_min, charge_max, auto_release_at_max, channel_duration)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			def.ID, def.Name, def.Kind, def.Cooldown, def.ChargeMin,
			def.ChargeMax, def.AutoReleaseAtMax, def.ChannelDuration,
		); err != nil {
			return fmt.Errorf("inserting ability %s: %w", id, err)
		}
		for pos, effectID := range def.Effects {
			links = append(links, []any{def.ID, int32(pos), effectID})
		}
	}

	if len(links) == 0 {
		return nil
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"ability_effects"},
		[]string{"ability_id", "position", "effect_id"},
		pgx.CopyFromRows(links),
	); err != nil {
		return fmt.Errorf("inserting ability effects: %w", err)
	}
	return nil
}
