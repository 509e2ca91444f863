// Package screening holds the pure pass/fail and scoring rules applied
// to aggregated stock records.
package screening

import "github.com/wonny/screener/internal/contracts"

// Config holds the scoring weights and thresholds. The values are
// business tuning choices, so they live in configuration rather than as
// literals in the rule.
type Config struct {
	// Price momentum: positive percent change contributes
	// ChangePercent * MomentumWeight
	MomentumWeight float64

	// Liquidity: volume above VolumeThreshold contributes a flat bonus
	VolumeThreshold int64
	VolumeBonus     float64

	// Valuation: P/E inside (0, PEWindowMax) contributes
	// (PEWindowMax - PE) * PEWeight
	PEWindowMax float64
	PEWeight    float64

	// Growth: positive quarterly revenue/EPS growth each contribute
	// growth * GrowthWeight
	GrowthWeight float64

	// Scale preference: market cap tiers
	LargeCapThreshold float64
	LargeCapBonus     float64
	MidCapThreshold   float64
	MidCapBonus       float64
}

// DefaultConfig returns the reference weights
func DefaultConfig() Config {
	return Config{
		MomentumWeight:    0.2,
		VolumeThreshold:   1_000_000,
		VolumeBonus:       10,
		PEWindowMax:       25,
		PEWeight:          2,
		GrowthWeight:      0.3,
		LargeCapThreshold: 10_000_000_000,
		LargeCapBonus:     20,
		MidCapThreshold:   2_000_000_000,
		MidCapBonus:       10,
	}
}

// Score computes the composite ranking score for a stock. Each term is
// conditionally applied; a missing optional field skips its term. The
// result is clamped to a minimum of zero.
func Score(cfg Config, stock *contracts.EnrichedStock) float64 {
	var score float64

	// Price momentum
	if stock.Quote.ChangePercent > 0 {
		score += stock.Quote.ChangePercent * cfg.MomentumWeight
	}

	// Liquidity
	if stock.Quote.Volume > cfg.VolumeThreshold {
		score += cfg.VolumeBonus
	}

	if f := stock.Fundamentals; f != nil {
		// Valuation: reward low P/E inside the window
		if f.PERatio != nil {
			pe := *f.PERatio
			if pe > 0 && pe < cfg.PEWindowMax {
				score += (cfg.PEWindowMax - pe) * cfg.PEWeight
			}
		}

		// Growth terms are independent of each other
		if f.QuarterlyRevenueGrowth != nil && *f.QuarterlyRevenueGrowth > 0 {
			score += *f.QuarterlyRevenueGrowth * cfg.GrowthWeight
		}
		if f.QuarterlyEPSGrowth != nil && *f.QuarterlyEPSGrowth > 0 {
			score += *f.QuarterlyEPSGrowth * cfg.GrowthWeight
		}

		// Scale preference
		if f.MarketCap != nil {
			switch {
			case *f.MarketCap > cfg.LargeCapThreshold:
				score += cfg.LargeCapBonus
			case *f.MarketCap > cfg.MidCapThreshold:
				score += cfg.MidCapBonus
			}
		}
	}

	if score < 0 {
		score = 0
	}

	return score
}
