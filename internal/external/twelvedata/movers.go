package twelvedata

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wonny/screener/internal/contracts"
)

// Movers fetches the market movers board
func (c *Client) Movers(ctx context.Context) ([]contracts.Mover, error) {
	params := url.Values{}
	params.Set("outputsize", "20")

	var raw moversResponse
	if err := c.getJSON(ctx, "/market_movers/stocks", params, &raw); err != nil {
		return nil, fmt.Errorf("market movers: %w", err)
	}

	movers := make([]contracts.Mover, 0, len(raw.Values))
	for _, v := range raw.Values {
		if v.Symbol == "" {
			continue
		}

		movers = append(movers, contracts.Mover{
			Symbol:        v.Symbol,
			Name:          v.Name,
			Price:         c.displayFloat(v.Symbol, "last", v.Last),
			Change:        c.displayFloat(v.Symbol, "change", v.Change),
			ChangePercent: c.displayFloat(v.Symbol, "percent_change", v.PercentChange),
			Volume:        c.displayInt64(v.Symbol, "volume", v.Volume),
		})
	}

	c.logger.WithField("count", len(movers)).Debug("Fetched market movers")

	return movers, nil
}
