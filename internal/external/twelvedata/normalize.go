package twelvedata

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/screener/internal/contracts"
)

// Upstream numeric fields land here exactly once. Each field is
// classified as present-valid, present-invalid, or absent; the latter
// two stay nil so an unparseable value never masquerades as zero.

// optionalFloat classifies one raw field. Invalid values are logged.
func (c *Client) optionalFloat(symbol, field, raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "N/A" || raw == "null" {
		return nil // absent
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"field":  field,
			"value":  raw,
		}).Warn("Invalid numeric field from upstream")
		return nil // present-invalid
	}

	return &v
}

// optionalInt classifies one raw integer field
func (c *Client) optionalInt(symbol, field, raw string) *int {
	f := c.optionalFloat(symbol, field, raw)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

// displayFloat is for non-optional quote display fields: an absent or
// invalid value is logged and rendered as zero rather than dropped.
func (c *Client) displayFloat(symbol, field, raw string) float64 {
	if v := c.optionalFloat(symbol, field, raw); v != nil {
		return *v
	}
	return 0
}

func (c *Client) displayInt64(symbol, field, raw string) int64 {
	return int64(c.displayFloat(symbol, field, raw))
}

// parseBarDate accepts both date-only and timestamped bar datetimes
func parseBarDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", raw)
}

// normalizeBars converts raw bar values into chronologically ascending
// bars. The upstream returns most-recent-first; the engine reverses into
// a fresh slice so no caller ever observes descending order.
func (c *Client) normalizeBars(symbol string, values []barValue) []contracts.Bar {
	bars := make([]contracts.Bar, 0, len(values))

	for _, v := range values {
		date, err := parseBarDate(v.Datetime)
		if err != nil {
			c.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"value":  v.Datetime,
			}).Warn("Skipping bar with unparseable date")
			continue
		}

		closePrice := c.optionalFloat(symbol, "close", v.Close)
		if closePrice == nil {
			// A bar without a valid close is useless for indicators
			continue
		}

		bars = append(bars, contracts.Bar{
			Date:   date,
			Open:   c.displayFloat(symbol, "open", v.Open),
			High:   c.displayFloat(symbol, "high", v.High),
			Low:    c.displayFloat(symbol, "low", v.Low),
			Close:  *closePrice,
			Volume: c.displayInt64(symbol, "volume", v.Volume),
		})
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})

	return bars
}

// quarterlyGrowth computes ((current/previous)-1)*100 when both values
// are present-valid and the base is nonzero
func quarterlyGrowth(current, previous *float64) *float64 {
	if current == nil || previous == nil || *previous == 0 {
		return nil
	}
	g := (*current / *previous * 100) - 100
	return &g
}
