// Package indicator computes trailing technical indicators over ordered
// price series. All functions are pure and total: short or empty input
// yields an empty result, never an error.
package indicator

import "github.com/wonny/screener/internal/contracts"

// SMA computes the trailing simple moving average of series for the given
// period. The result has length len(series)-period+1; the last element
// covers the most recent period observations. Input shorter than the
// period yields an empty result.
func SMA(series []float64, period int) []float64 {
	if period <= 0 || len(series) < period {
		return nil
	}

	out := make([]float64, 0, len(series)-period+1)

	// Rolling window sum: subtract the element leaving the window,
	// add the one entering it.
	var sum float64
	for i := 0; i < period; i++ {
		sum += series[i]
	}
	out = append(out, sum/float64(period))

	for i := period; i < len(series); i++ {
		sum += series[i] - series[i-period]
		out = append(out, sum/float64(period))
	}

	return out
}

// Slope returns the average first difference over the last window steps
// of series (the mean day-over-day change). The second return value is
// false when the series is too short to cover the window.
func Slope(series []float64, window int) (float64, bool) {
	if window <= 0 || len(series) < window+1 {
		return 0, false
	}

	recent := series[len(series)-window-1:]

	var sum float64
	for i := 1; i < len(recent); i++ {
		sum += recent[i] - recent[i-1]
	}

	return sum / float64(window), true
}

// Closes extracts the close column from a bar series
func Closes(bars []contracts.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Compute builds the full IndicatorSet over a close series. Series whose
// period exceeds the history length come back empty.
func Compute(closes []float64) *contracts.IndicatorSet {
	return &contracts.IndicatorSet{
		SMA50:  SMA(closes, 50),
		SMA100: SMA(closes, 100),
		SMA200: SMA(closes, 200),
	}
}
