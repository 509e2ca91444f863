package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/screener/internal/aggregate"
	"github.com/wonny/screener/internal/cache"
	"github.com/wonny/screener/internal/external/twelvedata"
	"github.com/wonny/screener/internal/screen"
	"github.com/wonny/screener/internal/screening"
	"github.com/wonny/screener/internal/store"
	"github.com/wonny/screener/internal/universe"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/database"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
	"github.com/wonny/screener/pkg/redis"
)

// app wires the engine's components once for every command
// ⭐ SSOT: dependency wiring happens in buildApp only
type app struct {
	cfg *config.Config
	log *logger.Logger

	db    *database.DB  // nil when DATABASE_URL is unset
	redis *redis.Client // no-op client when REDIS_ENABLED=false

	gateway      *twelvedata.Client
	aggregator   *aggregate.Aggregator
	orchestrator *screen.Orchestrator
	universe     *universe.Provider

	sessions *store.SessionRepository // nil without a database
	results  *store.ResultRepository
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	var cacheStore cache.Store
	if redisClient.Enabled() {
		cacheStore = cache.NewRedis(redisClient, cfg.Screening.CacheTTL, log)
		log.Info("Using Redis result cache")
	} else {
		cacheStore = cache.NewMemory(cfg.Screening.CacheTTL, log)
		log.Info("Using in-process result cache")
	}

	httpClient := httputil.New(cfg, log)

	// The gateway gets its own client: with Redis enabled, multiple
	// instances share one sliding-window budget against the provider
	gatewayHTTP := httputil.New(cfg, log)
	if redisClient.Enabled() {
		gatewayHTTP = gatewayHTTP.WithRateLimiter(
			redis.NewRateLimiter(redisClient, "screener"),
			redis.RateLimitConfig{
				Key:    "twelvedata",
				Limit:  cfg.TwelveData.CreditsPerMinute,
				Window: time.Minute,
			},
		)
	}

	gateway := twelvedata.NewClient(cfg, gatewayHTTP, log)
	aggregator := aggregate.New(gateway, cacheStore, screening.DefaultConfig(), log)
	orchestrator := screen.New(aggregator, gateway, cacheStore, screen.Config{
		Workers: cfg.Screening.Workers,
		Limit:   cfg.Screening.Limit,
	}, log)
	provider := universe.New(httpClient, cacheStore, cfg.Screening.MaxSymbols, log)

	a := &app{
		cfg:          cfg,
		log:          log,
		redis:        redisClient,
		gateway:      gateway,
		aggregator:   aggregator,
		orchestrator: orchestrator,
		universe:     provider,
	}

	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := store.Migrate(ctx, db.Pool); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
		a.db = db
		a.sessions = store.NewSessionRepository(db.Pool)
		a.results = store.NewResultRepository(db.Pool)
		log.Info("Connected to database")
	} else {
		log.Info("No DATABASE_URL set, result persistence disabled")
	}

	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
