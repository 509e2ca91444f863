package twelvedata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/wonny/screener/internal/contracts"
)

// TimeSeries fetches up to size daily bars for a symbol, returned
// chronologically ascending
func (c *Client) TimeSeries(ctx context.Context, symbol string, size int) ([]contracts.Bar, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", "1day")
	params.Set("outputsize", strconv.Itoa(size))

	var raw timeSeriesResponse
	if err := c.getJSON(ctx, "/time_series", params, &raw); err != nil {
		return nil, fmt.Errorf("time series %s: %w", symbol, err)
	}

	if len(raw.Values) == 0 {
		return nil, fmt.Errorf("time series %s: empty response", symbol)
	}

	bars := c.normalizeBars(symbol, raw.Values)

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched time series")

	return bars, nil
}
