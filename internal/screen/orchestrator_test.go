package screen

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/screener/internal/cache"
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

type fakeFetcher struct {
	stocks map[string]*contracts.EnrichedStock
	errs   map[string]error
}

func (f *fakeFetcher) FetchDetails(_ context.Context, symbol string) (*contracts.EnrichedStock, error) {
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	return f.stocks[symbol], nil
}

type fakeGateway struct {
	moversCalls     atomic.Int32
	timeSeriesCalls atomic.Int32
	bars            []contracts.Bar
}

func (f *fakeGateway) Quote(context.Context, string) (*contracts.Quote, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) Profile(context.Context, string) (*contracts.Profile, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) TimeSeries(context.Context, string, int) ([]contracts.Bar, error) {
	f.timeSeriesCalls.Add(1)
	if f.bars == nil {
		return nil, errors.New("no history")
	}
	return f.bars, nil
}

func (f *fakeGateway) Fundamentals(context.Context, string) (*contracts.Fundamentals, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) Movers(context.Context) ([]contracts.Mover, error) {
	f.moversCalls.Add(1)
	return []contracts.Mover{{Symbol: "NVDA", Price: 900, ChangePercent: 5}}, nil
}

func passer(symbol string, score float64) *contracts.EnrichedStock {
	return &contracts.EnrichedStock{
		Quote:     contracts.Quote{Symbol: symbol, Name: symbol, Price: 100},
		Screening: &contracts.ScreeningResult{Score: score, Passed: true},
	}
}

func failer(symbol string) *contracts.EnrichedStock {
	return &contracts.EnrichedStock{
		Quote:     contracts.Quote{Symbol: symbol, Name: symbol, Price: 100},
		Screening: &contracts.ScreeningResult{Score: 50, Passed: false},
	}
}

func newTestOrchestrator(fetcher Fetcher, gw contracts.MarketData, cfg Config) *Orchestrator {
	log := logger.NewWithWriter(io.Discard, "error")
	return New(fetcher, gw, cache.NewMemory(5*time.Minute, log), cfg, log)
}

func TestScreenUniverseRanksByScoreDescending(t *testing.T) {
	fetcher := &fakeFetcher{stocks: map[string]*contracts.EnrichedStock{
		"LOW":  passer("LOW", 10),
		"HIGH": passer("HIGH", 90),
		"MID":  passer("MID", 50),
		"OUT":  failer("OUT"),
	}}
	o := newTestOrchestrator(fetcher, &fakeGateway{}, Config{Workers: 3})

	report, err := o.ScreenUniverse(context.Background(), []string{"LOW", "HIGH", "MID", "OUT"})
	require.NoError(t, err)

	require.Len(t, report.Qualified, 3)
	assert.Equal(t, "HIGH", report.Qualified[0].Quote.Symbol)
	assert.Equal(t, "MID", report.Qualified[1].Quote.Symbol)
	assert.Equal(t, "LOW", report.Qualified[2].Quote.Symbol)

	assert.Equal(t, 4, report.Session.SymbolCount)
	assert.Equal(t, 3, report.Session.QualifiedCount)
	assert.Equal(t, 0, report.Session.FailedCount)
}

func TestScreenUniverseTieKeepsUniverseOrder(t *testing.T) {
	fetcher := &fakeFetcher{stocks: map[string]*contracts.EnrichedStock{
		"AAA": passer("AAA", 42),
		"BBB": passer("BBB", 42),
		"CCC": passer("CCC", 42),
	}}
	// One worker makes outcome collection order equal universe order;
	// the stable sort must keep it that way for more workers too.
	for _, workers := range []int{1, 3} {
		o := newTestOrchestrator(fetcher, &fakeGateway{}, Config{Workers: workers})

		report, err := o.ScreenUniverse(context.Background(), []string{"CCC", "AAA", "BBB"})
		require.NoError(t, err)

		require.Len(t, report.Qualified, 3)
		assert.Equal(t, "CCC", report.Qualified[0].Quote.Symbol)
		assert.Equal(t, "AAA", report.Qualified[1].Quote.Symbol)
		assert.Equal(t, "BBB", report.Qualified[2].Quote.Symbol)
	}
}

func TestScreenUniverseAppliesLimit(t *testing.T) {
	fetcher := &fakeFetcher{stocks: map[string]*contracts.EnrichedStock{
		"A": passer("A", 30),
		"B": passer("B", 20),
		"C": passer("C", 10),
	}}
	o := newTestOrchestrator(fetcher, &fakeGateway{}, Config{Workers: 2, Limit: 2})

	report, err := o.ScreenUniverse(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)

	require.Len(t, report.Qualified, 2)
	assert.Equal(t, "A", report.Qualified[0].Quote.Symbol)
	assert.Equal(t, "B", report.Qualified[1].Quote.Symbol)
	assert.Equal(t, 2, report.Session.QualifiedCount)
}

func TestScreenUniversePartialFailuresNarrowResult(t *testing.T) {
	fetcher := &fakeFetcher{
		stocks: map[string]*contracts.EnrichedStock{"OK": passer("OK", 60)},
		errs:   map[string]error{"BAD": errors.New("upstream 500")},
	}
	o := newTestOrchestrator(fetcher, &fakeGateway{}, Config{Workers: 2})

	report, err := o.ScreenUniverse(context.Background(), []string{"OK", "BAD"})
	require.NoError(t, err)

	require.Len(t, report.Qualified, 1)
	assert.Equal(t, "OK", report.Qualified[0].Quote.Symbol)
	assert.Equal(t, 1, report.Session.FailedCount)
}

func TestScreenUniverseAllFailedIsAnError(t *testing.T) {
	fetcher := &fakeFetcher{errs: map[string]error{
		"A": errors.New("timeout"),
		"B": errors.New("timeout"),
	}}
	o := newTestOrchestrator(fetcher, &fakeGateway{}, Config{Workers: 2})

	_, err := o.ScreenUniverse(context.Background(), []string{"A", "B"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 symbols failed")
}

func TestScreenUniverseSkipsUnscreenedSymbols(t *testing.T) {
	fetcher := &fakeFetcher{stocks: map[string]*contracts.EnrichedStock{
		"IPO": {Quote: contracts.Quote{Symbol: "IPO", Price: 20}}, // no Screening attached
		"OK":  passer("OK", 10),
	}}
	o := newTestOrchestrator(fetcher, &fakeGateway{}, Config{Workers: 2})

	report, err := o.ScreenUniverse(context.Background(), []string{"IPO", "OK"})
	require.NoError(t, err)

	require.Len(t, report.Qualified, 1)
	assert.Equal(t, "OK", report.Qualified[0].Quote.Symbol)
}

func TestMarketMoversServedFromCache(t *testing.T) {
	gw := &fakeGateway{}
	o := newTestOrchestrator(&fakeFetcher{}, gw, Config{Workers: 1})

	first, err := o.MarketMovers(context.Background())
	require.NoError(t, err)
	second, err := o.MarketMovers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), gw.moversCalls.Load())
}

func TestChartDataAlignsOverlays(t *testing.T) {
	bars := make([]contracts.Bar, 120)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = contracts.Bar{Date: start.AddDate(0, 0, i), Close: 100 + float64(i)}
	}
	gw := &fakeGateway{bars: bars}
	o := newTestOrchestrator(&fakeFetcher{}, gw, Config{Workers: 1})

	chart, err := o.ChartData(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", chart.Symbol)
	require.Len(t, chart.Dates, 120)
	require.Len(t, chart.Prices, 120)
	require.Len(t, chart.SMA50, 120)
	require.Len(t, chart.SMA100, 120)
	require.Len(t, chart.SMA200, 120)

	assert.Equal(t, "2025-01-01", chart.Dates[0])

	// 50-day overlay starts at index 49
	assert.Nil(t, chart.SMA50[48])
	require.NotNil(t, chart.SMA50[49])
	require.NotNil(t, chart.SMA50[119])

	// 120 bars cannot fill a 200-day window
	for _, v := range chart.SMA200 {
		assert.Nil(t, v)
	}
}

func TestChartDataUpstreamFailure(t *testing.T) {
	o := newTestOrchestrator(&fakeFetcher{}, &fakeGateway{}, Config{Workers: 1})

	_, err := o.ChartData(context.Background(), "AAPL")
	require.Error(t, err)
}
