package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinel is the table whose presence means the schema is in place.
const sentinel = "public.audit_events"

var steps = []migrationStep{
	{
		Name: "create_table_audit_events",
		SQL: `CREATE TABLE IF NOT EXISTS audit_events (
  id          UUID        PRIMARY KEY,
  action      TEXT        NOT NULL,
  document_id BIGINT      NULL,
  detail      TEXT        NOT NULL DEFAULT '',
  outcome     TEXT        NOT NULL CHECK (outcome IN ('success', 'failure')),
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_audit_events_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_events_created_at ON audit_events (created_at DESC, id DESC);`,
	},
	{
		Name: "create_index_audit_events_document_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_events_document_id ON audit_events (document_id) WHERE document_id IS NOT NULL;`,
	},
}

// EnsureMigrated creates the audit schema unless the sentinel table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("status", "starting").Msg("db_migration_check")

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinel).Scan(&exists)
	if err != nil {
		log.Error().
			Str("status", "error").
			Err(err).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("db_migration_failed")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("db_migration_skip")
		return nil
	}

	log.Info().Str("status", "in_progress").Msg("db_migration_start")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().
				Str("status", "error").
				Str("migration_step", step.Name).
				Err(err).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("db_migration_failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info().
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("db_migration_step")
	}

	log.Info().
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("db_migration_success")
	return nil
}
