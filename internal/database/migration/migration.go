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

var steps = []migrationStep{
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id             BIGSERIAL   PRIMARY KEY,
  subject        TEXT        NOT NULL,
  teacher_name   TEXT        NOT NULL,
  phase          TEXT        NOT NULL,
  semester       TEXT        NOT NULL DEFAULT '',
  academic_year  TEXT        NOT NULL,
  assessment     TEXT        NOT NULL DEFAULT '',
  session_count  INTEGER     NOT NULL DEFAULT 12 CHECK (session_count > 0),
  attachment_url TEXT        NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_subject",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_subject ON documents (subject);`,
	},
	{
		Name: "create_index_documents_phase",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_phase ON documents (phase);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
	},
	{
		Name: "create_table_products",
		SQL: `CREATE TABLE IF NOT EXISTS products (
  id          BIGSERIAL      PRIMARY KEY,
  name        TEXT           NOT NULL,
  description TEXT           NOT NULL,
  price       NUMERIC(14, 2) NOT NULL CHECK (price > 0),
  category    TEXT           NOT NULL,
  photo_url   TEXT           NULL,
  created_at  TIMESTAMPTZ    NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ    NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_products_category",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_products_category ON products (category);`,
	},
}

const sentinelQuery = "SELECT to_regclass('public.documents') IS NOT NULL AND to_regclass('public.products') IS NOT NULL"

// EnsureMigrated creates the schema unless both sentinel tables already exist.
// Every step is idempotent, so a partially applied schema is completed on the next start.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger zerolog.Logger, dbHost string) error {
	start := time.Now()
	l := logger.With().Str("component", "database").Str("db_host", dbHost).Logger()

	l.Info().Str("event", "db_migration_check").Str("status", "starting").Send()

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		l.Error().
			Str("event", "db_migration_failed").
			Str("status", "error").
			Err(err).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel tables")
		return fmt.Errorf("failed to check sentinel tables: %w", err)
	}

	if exists {
		l.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	l.Info().Str("event", "db_migration_start").Str("status", "in_progress").Send()

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			l.Error().
				Str("event", "db_migration_failed").
				Str("status", "error").
				Str("migration_step", step.Name).
				Err(err).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Send()
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		l.Info().
			Str("event", "db_migration_step").
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Send()
	}

	l.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Send()

	return nil
}
