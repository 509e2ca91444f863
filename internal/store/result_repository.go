package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/screener/internal/contracts"
)

// ResultRecord is one persisted ranked screening row
type ResultRecord struct {
	SessionID     int64   `json:"session_id"`
	Rank          int     `json:"rank"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	SMA50         float64 `json:"sma50"`
	SMA100        float64 `json:"sma100"`
	SMA200        float64 `json:"sma200"`
	Score         float64 `json:"score"`
}

// RecordFromStock flattens one ranked screening result into a row.
// rank is 1-based position in the ranked output.
func RecordFromStock(sessionID int64, rank int, stock *contracts.EnrichedStock) ResultRecord {
	rec := ResultRecord{
		SessionID:     sessionID,
		Rank:          rank,
		Symbol:        stock.Quote.Symbol,
		Name:          stock.Quote.Name,
		Price:         stock.Quote.Price,
		ChangePercent: stock.Quote.ChangePercent,
		Volume:        stock.Quote.Volume,
	}
	if s := stock.Screening; s != nil {
		rec.SMA50 = s.SMA50
		rec.SMA100 = s.SMA100
		rec.SMA200 = s.SMA200
		rec.Score = s.Score
	}
	return rec
}

// ResultRepository stores the ranked output of screening runs.
// ⭐ SSOT: result rows are written here only
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new result repository
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// SaveBatch inserts the ranked results of one session
func (r *ResultRepository) SaveBatch(ctx context.Context, results []ResultRecord) error {
	if len(results) == 0 {
		return nil
	}

	query := `
		INSERT INTO screening_results (session_id, rank, symbol, name, price, change_percent, volume, sma50, sma100, sma200, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, res := range results {
		_, err := r.pool.Exec(ctx, query,
			res.SessionID, res.Rank, res.Symbol, res.Name,
			res.Price, res.ChangePercent, res.Volume,
			res.SMA50, res.SMA100, res.SMA200, res.Score,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetBySession retrieves one session's results in rank order
func (r *ResultRepository) GetBySession(ctx context.Context, sessionID int64) ([]ResultRecord, error) {
	query := `
		SELECT session_id, rank, symbol, name, price, change_percent, volume, sma50, sma100, sma200, score
		FROM screening_results
		WHERE session_id = $1
		ORDER BY rank ASC
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ResultRecord
	for rows.Next() {
		var res ResultRecord
		if err := rows.Scan(
			&res.SessionID, &res.Rank, &res.Symbol, &res.Name,
			&res.Price, &res.ChangePercent, &res.Volume,
			&res.SMA50, &res.SMA100, &res.SMA200, &res.Score,
		); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// GetLatest retrieves the results of the most recent session
func (r *ResultRepository) GetLatest(ctx context.Context) ([]ResultRecord, error) {
	query := `
		SELECT r.session_id, r.rank, r.symbol, r.name, r.price, r.change_percent, r.volume, r.sma50, r.sma100, r.sma200, r.score
		FROM screening_results r
		JOIN screening_sessions s ON s.id = r.session_id
		WHERE s.id = (SELECT id FROM screening_sessions ORDER BY started_at DESC LIMIT 1)
		ORDER BY r.rank ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ResultRecord
	for rows.Next() {
		var res ResultRecord
		if err := rows.Scan(
			&res.SessionID, &res.Rank, &res.Symbol, &res.Name,
			&res.Price, &res.ChangePercent, &res.Volume,
			&res.SMA50, &res.SMA100, &res.SMA200, &res.Score,
		); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
