package contracts

import "context"

// MarketData is the gateway contract consumed by the engine. Every method
// either returns a payload or a single failure; callers never branch on
// an error taxonomy beyond success/failure.
// ⭐ SSOT: the engine talks to the upstream provider only through this interface
type MarketData interface {
	// Quote fetches the current quote for a symbol
	Quote(ctx context.Context, symbol string) (*Quote, error)

	// Profile fetches the company profile for a symbol
	Profile(ctx context.Context, symbol string) (*Profile, error)

	// TimeSeries fetches up to size daily bars, chronologically ascending
	TimeSeries(ctx context.Context, symbol string, size int) ([]Bar, error)

	// Fundamentals fetches earnings and growth-estimate data for a symbol
	Fundamentals(ctx context.Context, symbol string) (*Fundamentals, error)

	// Movers fetches the market movers board
	Movers(ctx context.Context) ([]Mover, error)
}
