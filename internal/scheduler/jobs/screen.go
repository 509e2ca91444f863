// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/screener/internal/screen"
	"github.com/wonny/screener/internal/store"
	"github.com/wonny/screener/internal/universe"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/logger"
)

// runTimeout bounds one screening run; a full universe at the credit
// budget takes well under this
const runTimeout = 30 * time.Minute

// ScreenJob runs the full-universe screen on the configured schedule
// and persists the ranked output.
// ⭐ SSOT: scheduled screening goes through this Job only
type ScreenJob struct {
	universe     *universe.Provider
	orchestrator *screen.Orchestrator
	sessions     *store.SessionRepository
	results      *store.ResultRepository
	config       *config.Config
	logger       *logger.Logger
}

// NewScreenJob creates a new screening job. The repositories may be nil
// when no database is configured; the run then only warms the cache.
func NewScreenJob(
	provider *universe.Provider,
	orchestrator *screen.Orchestrator,
	sessions *store.SessionRepository,
	results *store.ResultRepository,
	cfg *config.Config,
	log *logger.Logger,
) *ScreenJob {
	return &ScreenJob{
		universe:     provider,
		orchestrator: orchestrator,
		sessions:     sessions,
		results:      results,
		config:       cfg,
		logger:       log,
	}
}

// Name returns the job name
func (j *ScreenJob) Name() string {
	return "screen_universe"
}

// Schedule returns the cron schedule from config (weekday mornings
// before the US open by default)
func (j *ScreenJob) Schedule() string {
	return j.config.Screening.Schedule
}

// Run executes one full screening pass
func (j *ScreenJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	symbols := j.universe.Symbols(ctx)

	report, err := j.orchestrator.ScreenUniverse(ctx, symbols)
	if err != nil {
		return fmt.Errorf("screen universe: %w", err)
	}

	if j.sessions == nil || j.results == nil {
		j.logger.Debug("No database configured, skipping result persistence")
		return nil
	}

	sessionID, err := j.sessions.Save(ctx, report.Session)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	records := make([]store.ResultRecord, len(report.Qualified))
	for i, stock := range report.Qualified {
		records[i] = store.RecordFromStock(sessionID, i+1, stock)
	}
	if err := j.results.SaveBatch(ctx, records); err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"session_id": sessionID,
		"qualified":  len(records),
	}).Info("Screening run persisted")

	return nil
}
