package twelvedata

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/httputil"
	"github.com/wonny/screener/pkg/logger"
)

// newTestClient points a client at an httptest server
func newTestClient(t *testing.T, handler http.Handler) (*Client, func()) {
	t.Helper()

	server := httptest.NewServer(handler)

	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
		TwelveData: config.TwelveDataConfig{
			APIKey:           "test-key",
			BaseURL:          server.URL,
			CreditsPerMinute: 6000, // effectively unthrottled in tests
			CallTimeout:      5 * time.Second,
		},
	}

	log := logger.NewWithWriter(io.Discard, "error")
	httpClient := httputil.New(cfg, log).DisableRetry()

	return NewClient(cfg, httpClient, log), server.Close
}

func TestQuote(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		w.Write([]byte(`{
			"symbol": "AAPL",
			"name": "Apple Inc",
			"close": "187.25",
			"change": "1.25",
			"percent_change": "0.67",
			"volume": "54321000",
			"fifty_two_week": {"high": "199.62", "low": "143.90"}
		}`))
	}))
	defer done()

	quote, err := client.Quote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "Apple Inc", quote.Name)
	assert.Equal(t, 187.25, quote.Price)
	assert.Equal(t, 0.67, quote.ChangePercent)
	assert.Equal(t, int64(54321000), quote.Volume)
	assert.Equal(t, 199.62, quote.FiftyTwoWeekHigh)
}

func TestQuoteInvalidPrice(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol": "AAPL", "close": "not-a-number"}`))
	}))
	defer done()

	_, err := client.Quote(context.Background(), "AAPL")
	assert.Error(t, err, "an unparseable price must fail the quote, not become zero")
}

func TestUpstreamError(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 429, "message": "You have run out of API credits", "status": "error"}`))
	}))
	defer done()

	_, err := client.Quote(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestTimeSeriesReversesToAscending(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/time_series", r.URL.Path)
		assert.Equal(t, "1day", r.URL.Query().Get("interval"))

		// Upstream order: most recent first
		w.Write([]byte(`{
			"values": [
				{"datetime": "2026-03-04", "open": "102", "high": "104", "low": "101", "close": "103", "volume": "1200"},
				{"datetime": "2026-03-03", "open": "101", "high": "103", "low": "100", "close": "102", "volume": "1100"},
				{"datetime": "2026-03-02", "open": "100", "high": "102", "low": "99", "close": "101", "volume": "1000"}
			],
			"status": "ok"
		}`))
	}))
	defer done()

	bars, err := client.TimeSeries(context.Background(), "MSFT", 200)
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), bars[2].Date)
	assert.Equal(t, 103.0, bars[2].Close)
}

func TestTimeSeriesSkipsCorruptBars(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"values": [
				{"datetime": "2026-03-03", "open": "101", "high": "103", "low": "100", "close": "garbage", "volume": "1100"},
				{"datetime": "2026-03-02", "open": "100", "high": "102", "low": "99", "close": "101", "volume": "1000"}
			],
			"status": "ok"
		}`))
	}))
	defer done()

	bars, err := client.TimeSeries(context.Background(), "MSFT", 200)
	require.NoError(t, err)
	require.Len(t, bars, 1, "the bar with an unparseable close is dropped")
	assert.Equal(t, 101.0, bars[0].Close)
}

func TestFundamentalsMergesSources(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/earnings":
			w.Write([]byte(`{"earnings": [
				{"date": "2026-01-30", "revenue": "120000", "eps": "2.40"},
				{"date": "2025-10-30", "revenue": "100000", "eps": "2.00"}
			]}`))
		case "/statistics":
			w.Write([]byte(`{
				"market_capitalization": "2900000000000",
				"trailing_pe": "31.5",
				"beta": "1.2",
				"eps_estimate_next_year": "7.5",
				"eps_actual_previous_year": "6.0"
			}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer done()

	fund, err := client.Fundamentals(context.Background(), "AAPL")
	require.NoError(t, err)

	require.NotNil(t, fund.QuarterlyRevenueGrowth)
	assert.InDelta(t, 20.0, *fund.QuarterlyRevenueGrowth, 1e-9)

	require.NotNil(t, fund.QuarterlyEPSGrowth)
	assert.InDelta(t, 20.0, *fund.QuarterlyEPSGrowth, 1e-9)

	require.NotNil(t, fund.MarketCap)
	assert.Equal(t, 2.9e12, *fund.MarketCap)

	require.NotNil(t, fund.EstimatedEPSGrowth)
	assert.InDelta(t, 25.0, *fund.EstimatedEPSGrowth, 1e-9)

	assert.Nil(t, fund.EstimatedRevenueGrowth, "field absent upstream stays nil")
}

func TestFundamentalsPartialSourceFailure(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/earnings":
			w.WriteHeader(http.StatusNotFound)
		case "/statistics":
			w.Write([]byte(`{"trailing_pe": "18.0"}`))
		}
	}))
	defer done()

	fund, err := client.Fundamentals(context.Background(), "AAPL")
	require.NoError(t, err, "one surviving source is enough")

	require.NotNil(t, fund.PERatio)
	assert.Equal(t, 18.0, *fund.PERatio)
	assert.Nil(t, fund.QuarterlyRevenueGrowth)
}

func TestFundamentalsAllSourcesFail(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer done()

	_, err := client.Fundamentals(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestMovers(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/market_movers/stocks", r.URL.Path)
		w.Write([]byte(`{"values": [
			{"symbol": "NVDA", "name": "NVIDIA", "last": "902.50", "change": "45.10", "percent_change": "5.26", "volume": "61000000"},
			{"symbol": "TSLA", "name": "Tesla", "last": "244.30", "change": "-12.20", "percent_change": "-4.75", "volume": "98000000"}
		]}`))
	}))
	defer done()

	movers, err := client.Movers(context.Background())
	require.NoError(t, err)
	require.Len(t, movers, 2)

	assert.Equal(t, "NVDA", movers[0].Symbol)
	assert.Equal(t, 902.50, movers[0].Price)
	assert.Equal(t, -4.75, movers[1].ChangePercent)
}
