package twelvedata

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wonny/screener/internal/contracts"
)

// Quote fetches the current quote for a symbol. The quote is the
// load-bearing sub-call of an aggregation: a missing or unparseable
// price fails the whole lookup.
func (c *Client) Quote(ctx context.Context, symbol string) (*contracts.Quote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var raw quoteResponse
	if err := c.getJSON(ctx, "/quote", params, &raw); err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}

	price := c.optionalFloat(symbol, "close", raw.Close)
	if price == nil {
		return nil, fmt.Errorf("quote %s: no valid price in response", symbol)
	}

	name := raw.Name
	if name == "" {
		name = symbol
	}

	quote := &contracts.Quote{
		Symbol:           symbol,
		Name:             name,
		Price:            *price,
		Change:           c.displayFloat(symbol, "change", raw.Change),
		ChangePercent:    c.displayFloat(symbol, "percent_change", raw.PercentChange),
		Volume:           c.displayInt64(symbol, "volume", raw.Volume),
		FiftyTwoWeekHigh: c.displayFloat(symbol, "fifty_two_week.high", raw.FiftyTwoWeek.High),
		FiftyTwoWeekLow:  c.displayFloat(symbol, "fifty_two_week.low", raw.FiftyTwoWeek.Low),
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"price":  quote.Price,
	}).Debug("Fetched quote")

	return quote, nil
}
