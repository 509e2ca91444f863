// Package aggregate merges the independent upstream lookups for one
// symbol into a single enriched record.
package aggregate

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/screener/internal/cache"
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/indicator"
	"github.com/wonny/screener/internal/screening"
	"github.com/wonny/screener/pkg/logger"
)

// defaultHistorySize is how many daily bars a detail lookup requests;
// comfortably above the 200-bar screening minimum so holidays and
// halts do not starve the SMA200 window
const defaultHistorySize = 365

// Aggregator issues the quote, profile, time-series, and fundamentals
// sub-calls for a symbol concurrently and merges whatever succeeded.
// The quote is load-bearing: without symbol identity and a current
// price there is no meaningful partial result.
type Aggregator struct {
	gateway     contracts.MarketData
	cache       cache.Store
	scoring     screening.Config
	logger      *logger.Logger
	historySize int
}

// New creates a new Aggregator
func New(gateway contracts.MarketData, store cache.Store, scoring screening.Config, log *logger.Logger) *Aggregator {
	return &Aggregator{
		gateway:     gateway,
		cache:       store,
		scoring:     scoring,
		logger:      log.WithField("module", "aggregate"),
		historySize: defaultHistorySize,
	}
}

// FetchDetails aggregates everything known about one symbol. The four
// sub-calls run concurrently and complete in any order; failures of the
// optional calls narrow the result instead of failing it.
func (a *Aggregator) FetchDetails(ctx context.Context, symbol string) (*contracts.EnrichedStock, error) {
	var (
		quote    *contracts.Quote
		profile  *contracts.Profile
		bars     []contracts.Bar
		fund     *contracts.Fundamentals
		quoteErr, profileErr, barsErr, fundErr error
	)

	// Distinct result slots per goroutine; the WaitGroup is the only
	// synchronization needed.
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		quote, quoteErr = a.gateway.Quote(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		profile, profileErr = a.fetchProfile(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		bars, barsErr = a.fetchHistory(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		fund, fundErr = a.fetchFundamentals(ctx, symbol)
	}()

	wg.Wait()

	if quoteErr != nil {
		return nil, fmt.Errorf("aggregate %s: quote failed: %w", symbol, quoteErr)
	}

	for _, sub := range []struct {
		name string
		err  error
	}{
		{"profile", profileErr},
		{"time_series", barsErr},
		{"fundamentals", fundErr},
	} {
		if sub.err != nil {
			a.logger.WithError(sub.err).WithFields(map[string]interface{}{
				"symbol":   symbol,
				"sub_call": sub.name,
			}).Warn("Optional sub-call failed, continuing without it")
		}
	}

	stock := &contracts.EnrichedStock{
		Quote:        *quote,
		Fundamentals: fund,
		History:      bars,
	}

	// The quote endpoint sometimes omits the company name
	if stock.Quote.Name == symbol && profile != nil && profile.Name != "" {
		stock.Quote.Name = profile.Name
	}

	if len(bars) > 0 {
		stock.Indicators = indicator.Compute(indicator.Closes(bars))

		// Evaluate yields nil exactly when the history is shorter than
		// the SMA200 window, which leaves the stock unscreened
		if result := screening.Evaluate(stock.Quote.Price, stock.Indicators); result != nil {
			result.Score = screening.Score(a.scoring, stock)
			stock.Screening = result
		}
	}

	a.logger.WithFields(map[string]interface{}{
		"symbol":       symbol,
		"bars":         len(bars),
		"fundamentals": fund != nil,
		"screened":     stock.Screening != nil,
	}).Debug("Aggregated symbol")

	return stock, nil
}

// fetchHistory is a cacheable sub-call: entries are re-derivations of
// the same upstream truth, so a stale-window race is harmless
func (a *Aggregator) fetchHistory(ctx context.Context, symbol string) ([]contracts.Bar, error) {
	key := cache.TimeSeriesKey(symbol, a.historySize)

	var cached []contracts.Bar
	if a.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	bars, err := a.gateway.TimeSeries(ctx, symbol, a.historySize)
	if err != nil {
		return nil, err
	}

	a.cache.Set(ctx, key, bars)
	return bars, nil
}

func (a *Aggregator) fetchProfile(ctx context.Context, symbol string) (*contracts.Profile, error) {
	key := cache.ProfileKey(symbol)

	var cached contracts.Profile
	if a.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	profile, err := a.gateway.Profile(ctx, symbol)
	if err != nil {
		return nil, err
	}

	a.cache.Set(ctx, key, profile)
	return profile, nil
}

func (a *Aggregator) fetchFundamentals(ctx context.Context, symbol string) (*contracts.Fundamentals, error) {
	key := cache.FundamentalsKey(symbol)

	var cached contracts.Fundamentals
	if a.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	fund, err := a.gateway.Fundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}

	a.cache.Set(ctx, key, fund)
	return fund, nil
}
