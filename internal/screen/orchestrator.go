// Package screen runs the batch screening pipeline over a symbol
// universe and serves the cache-backed market read paths.
package screen

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wonny/screener/internal/cache"
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/indicator"
	"github.com/wonny/screener/pkg/logger"
)

// chartBars is the history window served by ChartData
const chartBars = contracts.MinHistoryBars

// Fetcher aggregates one symbol. Satisfied by aggregate.Aggregator.
type Fetcher interface {
	FetchDetails(ctx context.Context, symbol string) (*contracts.EnrichedStock, error)
}

// Config bounds a screening run
type Config struct {
	Workers int // concurrent symbol aggregations
	Limit   int // ranked results returned
}

// Report is the outcome of one screening run
type Report struct {
	Qualified []*contracts.EnrichedStock
	Session   contracts.ScreeningSession
}

// Orchestrator fans the universe out over a bounded worker pool,
// settles every symbol, and ranks the passers.
type Orchestrator struct {
	fetcher Fetcher
	gateway contracts.MarketData
	cache   cache.Store
	logger  *logger.Logger
	cfg     Config
	now     func() time.Time
}

// New creates a new Orchestrator
func New(fetcher Fetcher, gateway contracts.MarketData, store cache.Store, cfg Config, log *logger.Logger) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Orchestrator{
		fetcher: fetcher,
		gateway: gateway,
		cache:   store,
		logger:  log.WithField("module", "screen"),
		cfg:     cfg,
		now:     time.Now,
	}
}

type outcome struct {
	idx   int
	stock *contracts.EnrichedStock
	err   error
}

// ScreenUniverse aggregates every symbol concurrently, waits for all of
// them to settle, and returns the passing symbols ranked by score
// descending. Ties keep the universe order. Individual failures only
// narrow the result; the run fails only when every symbol failed.
func (o *Orchestrator) ScreenUniverse(ctx context.Context, symbols []string) (*Report, error) {
	start := o.now()

	o.logger.WithFields(map[string]interface{}{
		"symbols": len(symbols),
		"workers": o.cfg.Workers,
	}).Info("Screening universe")

	outcomes := make([]outcome, len(symbols))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				stock, err := o.fetcher.FetchDetails(ctx, symbols[idx])
				outcomes[idx] = outcome{idx: idx, stock: stock, err: err}
			}
		}()
	}
	for idx := range symbols {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	var (
		qualified []*contracts.EnrichedStock
		failed    int
		lastErr   error
	)
	for _, out := range outcomes {
		if out.err != nil {
			failed++
			lastErr = out.err
			o.logger.WithError(out.err).WithField("symbol", symbols[out.idx]).Warn("Symbol failed to aggregate")
			continue
		}
		if out.stock.Screening != nil && out.stock.Screening.Passed {
			qualified = append(qualified, out.stock)
		}
	}

	if len(symbols) > 0 && failed == len(symbols) {
		return nil, fmt.Errorf("screening failed: all %d symbols failed, upstream may be unavailable (last error: %w)", len(symbols), lastErr)
	}

	// Stable sort on a universe-ordered slice makes equal scores rank
	// deterministically
	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].Screening.Score > qualified[j].Screening.Score
	})

	if o.cfg.Limit > 0 && len(qualified) > o.cfg.Limit {
		qualified = qualified[:o.cfg.Limit]
	}

	report := &Report{
		Qualified: qualified,
		Session: contracts.ScreeningSession{
			StartedAt:      start,
			Duration:       o.now().Sub(start),
			SymbolCount:    len(symbols),
			QualifiedCount: len(qualified),
			FailedCount:    failed,
		},
	}

	o.logger.WithFields(map[string]interface{}{
		"symbols":   len(symbols),
		"qualified": len(qualified),
		"failed":    failed,
		"duration":  report.Session.Duration.String(),
	}).Info("Screening complete")

	return report, nil
}

// MarketMovers serves the movers board through the result cache
func (o *Orchestrator) MarketMovers(ctx context.Context) ([]contracts.Mover, error) {
	var cached []contracts.Mover
	if o.cache.Get(ctx, cache.MoversKey, &cached) {
		return cached, nil
	}

	movers, err := o.gateway.Movers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch market movers: %w", err)
	}

	o.cache.Set(ctx, cache.MoversKey, movers)
	return movers, nil
}

// ChartData returns the chronological price series for one symbol with
// the three SMA overlays aligned to it. Overlay slots are nil while the
// leading history is still shorter than the overlay's window.
func (o *Orchestrator) ChartData(ctx context.Context, symbol string) (*contracts.ChartData, error) {
	bars, err := o.fetchHistory(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("chart data for %s: %w", symbol, err)
	}

	closes := indicator.Closes(bars)

	chart := &contracts.ChartData{
		Symbol: symbol,
		Dates:  make([]string, len(bars)),
		Prices: closes,
		SMA50:  alignOverlay(indicator.SMA(closes, 50), len(bars)),
		SMA100: alignOverlay(indicator.SMA(closes, 100), len(bars)),
		SMA200: alignOverlay(indicator.SMA(closes, 200), len(bars)),
	}
	for i, bar := range bars {
		chart.Dates[i] = bar.Date.Format("2006-01-02")
	}

	return chart, nil
}

func (o *Orchestrator) fetchHistory(ctx context.Context, symbol string) ([]contracts.Bar, error) {
	key := cache.TimeSeriesKey(symbol, chartBars)

	var cached []contracts.Bar
	if o.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	bars, err := o.gateway.TimeSeries(ctx, symbol, chartBars)
	if err != nil {
		return nil, err
	}

	o.cache.Set(ctx, key, bars)
	return bars, nil
}

// alignOverlay left-pads a trailing SMA series with nils up to the
// chart length, so every overlay index matches a price index
func alignOverlay(series []float64, length int) []*float64 {
	overlay := make([]*float64, length)
	offset := length - len(series)
	for i := range series {
		v := series[i]
		overlay[offset+i] = &v
	}
	return overlay
}
