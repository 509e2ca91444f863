package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/screener/internal/contracts"
)

func TestRecordFromStock(t *testing.T) {
	stock := &contracts.EnrichedStock{
		Quote: contracts.Quote{
			Symbol:        "AAPL",
			Name:          "Apple Inc.",
			Price:         150,
			ChangePercent: 1.5,
			Volume:        80_000_000,
		},
		Screening: &contracts.ScreeningResult{
			SMA50:  145,
			SMA100: 142,
			SMA200: 140,
			Score:  72.5,
			Passed: true,
		},
	}

	rec := RecordFromStock(7, 1, stock)

	assert.Equal(t, int64(7), rec.SessionID)
	assert.Equal(t, 1, rec.Rank)
	assert.Equal(t, "AAPL", rec.Symbol)
	assert.Equal(t, 150.0, rec.Price)
	assert.Equal(t, 140.0, rec.SMA200)
	assert.Equal(t, 72.5, rec.Score)
}

func TestRecordFromStockWithoutScreening(t *testing.T) {
	stock := &contracts.EnrichedStock{
		Quote: contracts.Quote{Symbol: "IPO", Price: 20},
	}

	rec := RecordFromStock(1, 3, stock)

	assert.Equal(t, "IPO", rec.Symbol)
	assert.Zero(t, rec.Score)
	assert.Zero(t, rec.SMA200)
}
