package screening

import (
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/indicator"
)

// slopeWindow is the lookback for the informational SMA200 slope metric
const slopeWindow = 14

// Evaluate builds the criteria vector for a stock from its most recent
// indicator values. It returns nil when any SMA series is empty, which
// happens exactly when the history is shorter than the longest window.
// The overall pass flag is the conjunction of the three criteria.
func Evaluate(price float64, ind *contracts.IndicatorSet) *contracts.ScreeningResult {
	if ind == nil {
		return nil
	}

	sma50, ok50 := contracts.Latest(ind.SMA50)
	sma100, ok100 := contracts.Latest(ind.SMA100)
	sma200, ok200 := contracts.Latest(ind.SMA200)
	if !ok50 || !ok100 || !ok200 {
		return nil
	}

	result := &contracts.ScreeningResult{
		PriceAboveSMA200:  price > sma200,
		SMA50AboveSMA200:  sma50 > sma200,
		SMA100AboveSMA200: sma100 > sma200,
		CurrentPrice:      price,
		SMA50:             sma50,
		SMA100:            sma100,
		SMA200:            sma200,
	}

	if slope, ok := indicator.Slope(ind.SMA200, slopeWindow); ok {
		result.SMA200Slope = &slope
	}

	result.Passed = result.PriceAboveSMA200 &&
		result.SMA50AboveSMA200 &&
		result.SMA100AboveSMA200

	return result
}
