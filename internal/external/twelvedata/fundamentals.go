package twelvedata

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wonny/screener/internal/contracts"
)

// Fundamentals fetches earnings and growth-estimate data for a symbol
// and merges them into one sparse record. The two underlying endpoints
// fail independently; a record is returned as long as either produced
// data. Fields that the upstream omits or garbles stay nil.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (*contracts.Fundamentals, error) {
	fund := &contracts.Fundamentals{}
	var gotEarnings, gotStats bool

	if err := c.mergeEarnings(ctx, symbol, fund); err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Earnings lookup failed")
	} else {
		gotEarnings = true
	}

	if err := c.mergeStatistics(ctx, symbol, fund); err != nil {
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Statistics lookup failed")
	} else {
		gotStats = true
	}

	if !gotEarnings && !gotStats {
		return nil, fmt.Errorf("fundamentals %s: all sources failed", symbol)
	}

	return fund, nil
}

// mergeEarnings derives quarterly growth rates from the two most recent
// reported quarters
func (c *Client) mergeEarnings(ctx context.Context, symbol string, fund *contracts.Fundamentals) error {
	params := url.Values{}
	params.Set("symbol", symbol)

	var raw earningsResponse
	if err := c.getJSON(ctx, "/earnings", params, &raw); err != nil {
		return err
	}

	if len(raw.Earnings) < 2 {
		// One quarter is not enough to compute growth; not an error
		return nil
	}

	current, previous := raw.Earnings[0], raw.Earnings[1]

	fund.QuarterlyRevenueGrowth = quarterlyGrowth(
		c.optionalFloat(symbol, "revenue", current.Revenue),
		c.optionalFloat(symbol, "revenue", previous.Revenue),
	)
	fund.QuarterlyEPSGrowth = quarterlyGrowth(
		c.optionalFloat(symbol, "eps", current.EPS),
		c.optionalFloat(symbol, "eps", previous.EPS),
	)

	return nil
}

// mergeStatistics fills valuation, scale, and estimate fields
func (c *Client) mergeStatistics(ctx context.Context, symbol string, fund *contracts.Fundamentals) error {
	params := url.Values{}
	params.Set("symbol", symbol)

	var raw statisticsResponse
	if err := c.getJSON(ctx, "/statistics", params, &raw); err != nil {
		return err
	}

	fund.MarketCap = c.optionalFloat(symbol, "market_capitalization", raw.MarketCapitalization)
	fund.PERatio = c.optionalFloat(symbol, "trailing_pe", raw.TrailingPE)
	fund.Beta = c.optionalFloat(symbol, "beta", raw.Beta)
	fund.EstimatedRevenueGrowth = c.optionalFloat(symbol, "revenue_growth_estimate", raw.RevenueGrowthEstimate)
	fund.AnalystTargetPrice = c.optionalFloat(symbol, "analyst_target_price", raw.AnalystTargetPrice)
	fund.AnalystRatingCount = c.optionalInt(symbol, "analyst_rating_count", raw.AnalystRatingCount)

	// Estimated EPS growth comes from next-year estimate over last
	// year's actual
	fund.EstimatedEPSGrowth = quarterlyGrowth(
		c.optionalFloat(symbol, "eps_estimate_next_year", raw.EPSEstimateNextYear),
		c.optionalFloat(symbol, "eps_actual_previous_year", raw.EPSActualPreviousYear),
	)

	return nil
}
