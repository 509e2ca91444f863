package twelvedata

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wonny/screener/internal/contracts"
)

// Profile fetches the company profile for a symbol
func (c *Client) Profile(ctx context.Context, symbol string) (*contracts.Profile, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var raw profileResponse
	if err := c.getJSON(ctx, "/profile", params, &raw); err != nil {
		return nil, fmt.Errorf("profile %s: %w", symbol, err)
	}

	if raw.Name == "" {
		return nil, fmt.Errorf("profile %s: empty response", symbol)
	}

	return &contracts.Profile{
		Symbol:   symbol,
		Name:     raw.Name,
		Exchange: raw.Exchange,
		Sector:   raw.Sector,
		Industry: raw.Industry,
	}, nil
}
