// Package store persists screening runs to Postgres so past results
// survive restarts and can be compared across days.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS screening_sessions (
	id              BIGSERIAL PRIMARY KEY,
	started_at      TIMESTAMPTZ NOT NULL,
	duration_ms     BIGINT NOT NULL,
	symbol_count    INTEGER NOT NULL,
	qualified_count INTEGER NOT NULL,
	failed_count    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS screening_results (
	id             BIGSERIAL PRIMARY KEY,
	session_id     BIGINT NOT NULL REFERENCES screening_sessions(id) ON DELETE CASCADE,
	rank           INTEGER NOT NULL,
	symbol         TEXT NOT NULL,
	name           TEXT NOT NULL,
	price          DOUBLE PRECISION NOT NULL,
	change_percent DOUBLE PRECISION NOT NULL,
	volume         BIGINT NOT NULL,
	sma50          DOUBLE PRECISION NOT NULL,
	sma100         DOUBLE PRECISION NOT NULL,
	sma200         DOUBLE PRECISION NOT NULL,
	score          DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_screening_results_session ON screening_results(session_id, rank);
CREATE INDEX IF NOT EXISTS idx_screening_results_symbol ON screening_results(symbol);
`

// Migrate applies the schema. Idempotent; runs at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
