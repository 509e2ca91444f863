package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/screener/internal/cache"
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/screening"
	"github.com/wonny/screener/pkg/logger"
)

// fakeGateway implements contracts.MarketData with per-call stubs and
// call counters.
type fakeGateway struct {
	quoteFn        func(ctx context.Context, symbol string) (*contracts.Quote, error)
	profileFn      func(ctx context.Context, symbol string) (*contracts.Profile, error)
	timeSeriesFn   func(ctx context.Context, symbol string, size int) ([]contracts.Bar, error)
	fundamentalsFn func(ctx context.Context, symbol string) (*contracts.Fundamentals, error)
	moversFn       func(ctx context.Context) ([]contracts.Mover, error)

	timeSeriesCalls atomic.Int32
}

func (f *fakeGateway) Quote(ctx context.Context, symbol string) (*contracts.Quote, error) {
	return f.quoteFn(ctx, symbol)
}

func (f *fakeGateway) Profile(ctx context.Context, symbol string) (*contracts.Profile, error) {
	return f.profileFn(ctx, symbol)
}

func (f *fakeGateway) TimeSeries(ctx context.Context, symbol string, size int) ([]contracts.Bar, error) {
	f.timeSeriesCalls.Add(1)
	return f.timeSeriesFn(ctx, symbol, size)
}

func (f *fakeGateway) Fundamentals(ctx context.Context, symbol string) (*contracts.Fundamentals, error) {
	return f.fundamentalsFn(ctx, symbol)
}

func (f *fakeGateway) Movers(ctx context.Context) ([]contracts.Mover, error) {
	return f.moversFn(ctx)
}

func healthyGateway() *fakeGateway {
	return &fakeGateway{
		quoteFn: func(_ context.Context, symbol string) (*contracts.Quote, error) {
			return &contracts.Quote{
				Symbol:        symbol,
				Name:          symbol,
				Price:         150,
				Change:        3,
				ChangePercent: 2,
				Volume:        2_000_000,
			}, nil
		},
		profileFn: func(_ context.Context, symbol string) (*contracts.Profile, error) {
			return &contracts.Profile{Symbol: symbol, Name: "Acme Corp", Sector: "Technology"}, nil
		},
		timeSeriesFn: func(_ context.Context, _ string, _ int) ([]contracts.Bar, error) {
			return risingBars(250), nil
		},
		fundamentalsFn: func(_ context.Context, _ string) (*contracts.Fundamentals, error) {
			pe := 18.0
			return &contracts.Fundamentals{PERatio: &pe}, nil
		},
	}
}

// risingBars builds n daily bars with strictly increasing closes, so
// every SMA ordering criterion holds at the latest bar.
func risingBars(n int) []contracts.Bar {
	bars := make([]contracts.Bar, n)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		c := 100 + float64(i)*0.2
		bars[i] = contracts.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c - 0.1,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return bars
}

func newTestAggregator(gw *fakeGateway) *Aggregator {
	log := logger.NewWithWriter(io.Discard, "error")
	store := cache.NewMemory(5*time.Minute, log)
	return New(gw, store, screening.DefaultConfig(), log)
}

func TestFetchDetailsMergesAllSources(t *testing.T) {
	gw := healthyGateway()
	agg := newTestAggregator(gw)

	stock, err := agg.FetchDetails(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", stock.Quote.Symbol)
	assert.Equal(t, "Acme Corp", stock.Quote.Name, "profile name should replace the symbol placeholder")
	require.NotNil(t, stock.Fundamentals)
	require.NotNil(t, stock.Indicators)
	assert.Len(t, stock.History, 250)

	require.NotNil(t, stock.Screening)
	assert.True(t, stock.Screening.Passed)
	assert.Greater(t, stock.Screening.Score, 0.0)
}

func TestFetchDetailsQuoteFailureIsFatal(t *testing.T) {
	gw := healthyGateway()
	gw.quoteFn = func(_ context.Context, _ string) (*contracts.Quote, error) {
		return nil, errors.New("upstream 500")
	}
	agg := newTestAggregator(gw)

	_, err := agg.FetchDetails(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quote failed")
}

func TestFetchDetailsFundamentalsFailureIsPartial(t *testing.T) {
	gw := healthyGateway()
	gw.fundamentalsFn = func(_ context.Context, _ string) (*contracts.Fundamentals, error) {
		return nil, errors.New("statistics unavailable")
	}
	agg := newTestAggregator(gw)

	stock, err := agg.FetchDetails(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Nil(t, stock.Fundamentals)
	require.NotNil(t, stock.Screening, "screening only needs price history")
	assert.True(t, stock.Screening.Passed)
}

func TestFetchDetailsShortHistoryIsUnscreened(t *testing.T) {
	gw := healthyGateway()
	gw.timeSeriesFn = func(_ context.Context, _ string, _ int) ([]contracts.Bar, error) {
		return risingBars(contracts.MinHistoryBars - 1), nil
	}
	agg := newTestAggregator(gw)

	stock, err := agg.FetchDetails(context.Background(), "IPO")
	require.NoError(t, err)

	assert.Nil(t, stock.Screening)
	require.NotNil(t, stock.Indicators)
	assert.NotEmpty(t, stock.Indicators.SMA50, "shorter windows still compute")
	assert.Empty(t, stock.Indicators.SMA200)
}

func TestFetchDetailsHistoryFailureIsPartial(t *testing.T) {
	gw := healthyGateway()
	gw.timeSeriesFn = func(_ context.Context, _ string, _ int) ([]contracts.Bar, error) {
		return nil, errors.New("timeout")
	}
	agg := newTestAggregator(gw)

	stock, err := agg.FetchDetails(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Empty(t, stock.History)
	assert.Nil(t, stock.Indicators)
	assert.Nil(t, stock.Screening)
	assert.NotNil(t, stock.Fundamentals)
}

func TestFetchDetailsUsesCacheOnSecondCall(t *testing.T) {
	gw := healthyGateway()
	agg := newTestAggregator(gw)

	_, err := agg.FetchDetails(context.Background(), "AAPL")
	require.NoError(t, err)
	_, err = agg.FetchDetails(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, int32(1), gw.timeSeriesCalls.Load(), "second lookup should hit the cache")
}

func TestFetchDetailsConcurrentSymbols(t *testing.T) {
	gw := healthyGateway()
	agg := newTestAggregator(gw)

	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func(i int) {
			_, err := agg.FetchDetails(context.Background(), fmt.Sprintf("SYM%d", i))
			errs <- err
		}(i)
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-errs)
	}
}
