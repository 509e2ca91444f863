package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/screener/internal/contracts"
)

// SessionRecord is a persisted screening session row
type SessionRecord struct {
	ID int64 `json:"id"`
	contracts.ScreeningSession
}

// SessionRepository stores screening session metadata.
// ⭐ SSOT: session rows are written here only
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Save inserts a session and returns its assigned id
func (r *SessionRepository) Save(ctx context.Context, session contracts.ScreeningSession) (int64, error) {
	query := `
		INSERT INTO screening_sessions (started_at, duration_ms, symbol_count, qualified_count, failed_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		session.StartedAt, session.Duration.Milliseconds(),
		session.SymbolCount, session.QualifiedCount, session.FailedCount,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetRecent retrieves the most recent sessions, newest first
func (r *SessionRepository) GetRecent(ctx context.Context, limit int) ([]SessionRecord, error) {
	query := `
		SELECT id, started_at, duration_ms, symbol_count, qualified_count, failed_count
		FROM screening_sessions
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []SessionRecord
	for rows.Next() {
		var s SessionRecord
		var durationMs int64
		if err := rows.Scan(&s.ID, &s.StartedAt, &durationMs, &s.SymbolCount, &s.QualifiedCount, &s.FailedCount); err != nil {
			return nil, err
		}
		s.Duration = time.Duration(durationMs) * time.Millisecond
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
