package migration

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config drives one migration run.
type Config struct {
	TargetEmail    string
	TargetPassword string
	Reset          bool
	BatchSize      int
}

// resetOrder lists the target tables children-first so the wipe never leaves
// gallery rows pointing at deleted projects mid-reset.
var resetOrder = []string{"projeto_galeria", "projetos", "posts", "autores", "depoimentos"}

// simpleTables are migrated without any id remapping, each paged by its
// natural order column.
var simpleTables = []struct {
	name        string
	orderColumn string
}{
	{"posts", "created_at"},
	{"autores", "created_at"},
	{"depoimentos", "ordem"},
}

// Job is the one-shot source-to-target transfer. It is strictly sequential:
// one outstanding source fetch or target insert at a time. Any error aborts
// the whole run; a failed run must be restarted against a reset target.
type Job struct {
	source Source
	target *Client
	cfg    Config
	logger zerolog.Logger
}

func NewJob(source Source, target *Client, cfg Config) *Job {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &Job{
		source: source,
		target: target,
		cfg:    cfg,
		logger: log.With().Str("component", "migration").Logger(),
	}
}

// Run executes the full transfer: authenticate, optionally reset, migrate
// projects capturing the old-to-new id map, remap and migrate the gallery,
// then the remaining simple tables.
func (j *Job) Run(ctx context.Context) error {
	if err := j.target.Login(ctx, j.cfg.TargetEmail, j.cfg.TargetPassword); err != nil {
		return fmt.Errorf("authenticating against target: %w", err)
	}
	j.logger.Info().Msg("authenticated against target API")

	if j.cfg.Reset {
		if err := j.resetTarget(ctx); err != nil {
			return err
		}
	}

	idMap, err := j.migrateProjects(ctx)
	if err != nil {
		return err
	}

	if err := j.migrateGallery(ctx, idMap); err != nil {
		return err
	}

	for _, table := range simpleTables {
		if err := j.migrateSimpleTable(ctx, table.name, table.orderColumn); err != nil {
			return err
		}
	}

	j.logger.Info().Msg("migration completed")
	return nil
}

func (j *Job) resetTarget(ctx context.Context) error {
	for _, table := range resetOrder {
		if err := j.target.DeleteAll(ctx, table); err != nil {
			return fmt.Errorf("resetting %s: %w", table, err)
		}
		// Verify the wipe actually took before any insert begins.
		remaining, err := j.target.CountRemaining(ctx, table)
		if err != nil {
			return fmt.Errorf("verifying reset of %s: %w", table, err)
		}
		if remaining != 0 {
			return fmt.Errorf("reset of %s left %d rows behind", table, remaining)
		}
		j.logger.Info().Str("table", table).Msg("target table reset")
	}
	return nil
}

// migrateProjects inserts projects one at a time so each newly assigned id
// can be captured for the gallery remap.
func (j *Job) migrateProjects(ctx context.Context) (map[string]string, error) {
	idMap := make(map[string]string)

	err := j.forEachPage(ctx, "projetos", "created_at", func(rows []Row) error {
		for _, row := range rows {
			oldID := sourceID(row["id"])
			delete(row, "id")

			newID, err := j.target.InsertOne(ctx, "projetos", row)
			if err != nil {
				return fmt.Errorf("inserting project %s: %w", oldID, err)
			}
			idMap[oldID] = newID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	j.logger.Info().Int("count", len(idMap)).Msg("projects migrated")
	return idMap, nil
}

// migrateGallery remaps the parent reference of every gallery row through the
// project id map and bulk-inserts the remapped rows in fixed-size batches.
// Rows whose parent was not migrated are dropped.
func (j *Job) migrateGallery(ctx context.Context, idMap map[string]string) error {
	var remapped []Row
	var dropped int

	err := j.forEachPage(ctx, "projeto_galeria", "ordem", func(rows []Row) error {
		for _, row := range rows {
			oldParent := sourceID(row["project_id"])
			newParent, ok := idMap[oldParent]
			if !ok {
				dropped++
				j.logger.Warn().
					Str("project_id", oldParent).
					Msg("dropping gallery row with unmigrated parent")
				continue
			}
			delete(row, "id")
			row["project_id"] = newParent
			remapped = append(remapped, row)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for start := 0; start < len(remapped); start += j.cfg.BatchSize {
		end := min(start+j.cfg.BatchSize, len(remapped))
		if err := j.target.InsertBatch(ctx, "projeto_galeria", remapped[start:end]); err != nil {
			return fmt.Errorf("inserting gallery batch at %d: %w", start, err)
		}
	}

	j.logger.Info().
		Int("count", len(remapped)).
		Int("dropped", dropped).
		Msg("gallery migrated")
	return nil
}

// migrateSimpleTable pages the source and bulk-inserts each page, stripping
// the source identifier so the target assigns fresh ones.
func (j *Job) migrateSimpleTable(ctx context.Context, table, orderColumn string) error {
	var total int

	err := j.forEachPage(ctx, table, orderColumn, func(rows []Row) error {
		for _, row := range rows {
			delete(row, "id")
		}
		if err := j.target.InsertBatch(ctx, table, rows); err != nil {
			return fmt.Errorf("inserting %s batch: %w", table, err)
		}
		total += len(rows)
		return nil
	})
	if err != nil {
		return err
	}

	j.logger.Info().Str("table", table).Int("count", total).Msg("table migrated")
	return nil
}

// forEachPage pages through a source table in BatchSize chunks. A short page
// marks the end of the table.
func (j *Job) forEachPage(ctx context.Context, table, orderColumn string, fn func(rows []Row) error) error {
	for offset := 0; ; offset += j.cfg.BatchSize {
		rows, err := j.source.FetchPage(ctx, table, orderColumn, offset, j.cfg.BatchSize)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		if err := fn(rows); err != nil {
			return err
		}
		if len(rows) < j.cfg.BatchSize {
			return nil
		}
	}
}

// sourceID renders a source identifier column as a map key regardless of its
// database type.
func sourceID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case []byte:
		return string(id)
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}
