package contracts

import "time"

// Quote is a point-in-time snapshot of a symbol.
// Immutable once constructed; built fresh per request.
type Quote struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"change_percent"`
	Volume           int64   `json:"volume"`
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`
}

// Bar is one daily OHLCV observation
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Profile describes the company behind a symbol
type Profile struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// Fundamentals is a sparse set of optional numeric fields. A nil pointer
// means the upstream did not report the field (or reported garbage);
// absence never collapses to zero.
type Fundamentals struct {
	MarketCap              *float64 `json:"market_cap,omitempty"`
	PERatio                *float64 `json:"pe_ratio,omitempty"`
	Beta                   *float64 `json:"beta,omitempty"`
	QuarterlyRevenueGrowth *float64 `json:"quarterly_revenue_growth,omitempty"`
	QuarterlyEPSGrowth     *float64 `json:"quarterly_eps_growth,omitempty"`
	EstimatedRevenueGrowth *float64 `json:"estimated_revenue_growth,omitempty"`
	EstimatedEPSGrowth     *float64 `json:"estimated_eps_growth,omitempty"`
	AnalystTargetPrice     *float64 `json:"analyst_target_price,omitempty"`
	AnalystRatingCount     *int     `json:"analyst_rating_count,omitempty"`
}

// IndicatorSet holds the trailing SMA series aligned to the tail of the
// price history. A series is empty when the history is shorter than its
// period.
type IndicatorSet struct {
	SMA50  []float64 `json:"sma50"`
	SMA100 []float64 `json:"sma100"`
	SMA200 []float64 `json:"sma200"`
}

// Latest returns the most recent value of a series
func Latest(series []float64) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	return series[len(series)-1], true
}

// ScreeningResult is the pass/fail criteria vector plus the metrics it
// was evaluated on. Attached to an EnrichedStock only when the price
// history covers at least MinHistoryBars bars.
type ScreeningResult struct {
	// Criteria vector
	PriceAboveSMA200  bool `json:"price_above_sma200"`
	SMA50AboveSMA200  bool `json:"sma50_above_sma200"`
	SMA100AboveSMA200 bool `json:"sma100_above_sma200"`

	// Metrics behind the criteria
	CurrentPrice float64  `json:"current_price"`
	SMA50        float64  `json:"sma50"`
	SMA100       float64  `json:"sma100"`
	SMA200       float64  `json:"sma200"`
	SMA200Slope  *float64 `json:"sma200_slope,omitempty"` // informational, not gating

	Score  float64 `json:"score"`
	Passed bool    `json:"passed"`
}

// MinHistoryBars is the minimum price history length required for a
// symbol to be screened (the SMA200 window)
const MinHistoryBars = 200

// EnrichedStock is the aggregation of everything known about one symbol.
// Quote is always present; the rest may be absent when the corresponding
// sub-call failed or the history was too short.
type EnrichedStock struct {
	Quote        Quote            `json:"quote"`
	Fundamentals *Fundamentals    `json:"fundamentals,omitempty"`
	History      []Bar            `json:"history,omitempty"`
	Indicators   *IndicatorSet    `json:"indicators,omitempty"`
	Screening    *ScreeningResult `json:"screening,omitempty"`
}

// Mover is one row of the market movers board
type Mover struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
}

// ChartData is the chronological 200-day price series with SMA overlays.
// All five slices have equal length; overlay entries are nil where the
// leading history is too short for the overlay's window.
type ChartData struct {
	Symbol string     `json:"symbol"`
	Dates  []string   `json:"dates"`
	Prices []float64  `json:"prices"`
	SMA50  []*float64 `json:"sma50"`
	SMA100 []*float64 `json:"sma100"`
	SMA200 []*float64 `json:"sma200"`
}

// ScreeningSession records one batch screening run for observability
type ScreeningSession struct {
	StartedAt      time.Time     `json:"started_at"`
	Duration       time.Duration `json:"duration"`
	SymbolCount    int           `json:"symbol_count"`
	QualifiedCount int           `json:"qualified_count"`
	FailedCount    int           `json:"failed_count"`
}
