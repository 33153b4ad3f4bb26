package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func buy(asset string, qty, price float64, d time.Time) ledger.Trade {
	return ledger.Trade{Asset: asset, Account: "main", Kind: "buy", Quantity: qty, Price: price, Date: d}
}

func sell(asset string, qty, price float64, d time.Time) ledger.Trade {
	return ledger.Trade{Asset: asset, Account: "main", Kind: "sell", Quantity: qty, Price: price, Date: d}
}

// TestLedger_FIFOOrder tests that sales consume the oldest lots first.
//
// WHY: Cost basis and realized gains depend on which lot a sale is matched
// against. Selling exactly the first lot must remove it and leave the later
// lots untouched.
func TestLedger_FIFOOrder(t *testing.T) {
	t.Run("selling the first lot removes it entirely", func(t *testing.T) {
		l := ledger.New()
		l.Apply([]ledger.Trade{
			buy("INFY", 10, 100, day(0)),
			buy("INFY", 5, 120, day(10)),
			buy("INFY", 8, 130, day(20)),
			sell("INFY", 10, 150, day(30)),
		})

		lots := l.Lots("INFY", "main")
		require.Len(t, lots, 2)
		assert.Equal(t, 5.0, lots[0].Quantity)
		assert.Equal(t, 120.0, lots[0].UnitCost)
		assert.Equal(t, day(10), lots[0].Date)
		assert.Equal(t, 8.0, lots[1].Quantity)
		assert.Equal(t, 130.0, lots[1].UnitCost)
		assert.InDelta(t, 500.0, l.RealizedGain(), 1e-9)
	})

	t.Run("partial sale spans lots oldest first", func(t *testing.T) {
		l := ledger.New()
		l.Apply([]ledger.Trade{
			buy("TCS", 10, 100, day(0)),
			buy("TCS", 10, 200, day(1)),
			sell("TCS", 15, 300, day(2)),
		})

		lots := l.Lots("TCS", "main")
		require.Len(t, lots, 1)
		assert.InDelta(t, 5.0, lots[0].Quantity, 1e-9)
		assert.Equal(t, 200.0, lots[0].UnitCost)
		// 10 x (300-100) + 5 x (300-200)
		assert.InDelta(t, 2500.0, l.RealizedGain(), 1e-9)
	})

	t.Run("input order is re-sorted by date", func(t *testing.T) {
		l := ledger.New()
		l.Apply([]ledger.Trade{
			sell("HDFC", 4, 90, day(5)),
			buy("HDFC", 4, 80, day(1)),
		})

		assert.Empty(t, l.Lots("HDFC", "main"))
		assert.Empty(t, l.Anomalies())
		assert.InDelta(t, 40.0, l.RealizedGain(), 1e-9)
	})

	t.Run("same-day lots keep ingestion order", func(t *testing.T) {
		l := ledger.New()
		l.Apply([]ledger.Trade{
			buy("ITC", 3, 10, day(0)),
			buy("ITC", 3, 20, day(0)),
			sell("ITC", 3, 30, day(0)),
		})

		lots := l.Lots("ITC", "main")
		require.Len(t, lots, 1)
		assert.Equal(t, 20.0, lots[0].UnitCost)
	})
}

// TestLedger_Conservation tests that open quantity equals bought minus sold.
//
// WHY: The ledger must never invent or lose units. Oversold quantity is the
// one exception and it has to surface as an anomaly instead.
func TestLedger_Conservation(t *testing.T) {
	tests := []struct {
		name          string
		trades        []ledger.Trade
		wantOpen      float64
		wantAnomaly   bool
		wantUnmatched float64
	}{
		{
			name: "buys only",
			trades: []ledger.Trade{
				buy("A", 1.5, 10, day(0)),
				buy("A", 2.25, 11, day(1)),
			},
			wantOpen: 3.75,
		},
		{
			name: "interleaved buys and sells",
			trades: []ledger.Trade{
				buy("A", 10, 10, day(0)),
				sell("A", 3, 12, day(1)),
				buy("A", 7, 11, day(2)),
				sell("A", 9, 13, day(3)),
			},
			wantOpen: 5,
		},
		{
			name: "negative quantity is a sale regardless of kind",
			trades: []ledger.Trade{
				buy("A", 10, 10, day(0)),
				{Asset: "A", Account: "main", Kind: "adjustment", Quantity: -4, Price: 10, Date: day(1)},
			},
			wantOpen: 6,
		},
		{
			name: "oversold sale is clamped",
			trades: []ledger.Trade{
				buy("A", 5, 10, day(0)),
				sell("A", 8, 10, day(1)),
			},
			wantOpen:      0,
			wantAnomaly:   true,
			wantUnmatched: 3,
		},
		{
			name: "sale with no open lots",
			trades: []ledger.Trade{
				sell("A", 2, 10, day(0)),
			},
			wantOpen:      0,
			wantAnomaly:   true,
			wantUnmatched: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ledger.New()
			l.Apply(tt.trades)

			open := l.OpenQuantity("A", "main")
			assert.InDelta(t, tt.wantOpen, open, 1e-9)
			assert.GreaterOrEqual(t, open, 0.0)

			anomalies := l.Anomalies()
			if !tt.wantAnomaly {
				assert.Empty(t, anomalies)
				return
			}
			require.Len(t, anomalies, 1)
			assert.InDelta(t, tt.wantUnmatched, anomalies[0].Unmatched, 1e-9)
		})
	}
}

func TestIsSaleKind(t *testing.T) {
	for _, kind := range []string{"sell", "SELL", "redeem", "Redemption", "switch_out", "Switch Out", "withdrawal", "exit", "partial-withdraw"} {
		assert.True(t, ledger.IsSaleKind(kind), kind)
	}
	for _, kind := range []string{"buy", "sip", "contribution", "switch-in", "purchase", ""} {
		assert.False(t, ledger.IsSaleKind(kind), kind)
	}
}

// TestApply_Positions tests position valuation.
//
// WHY: The dashboard reads market value and cost basis straight from the
// positions; missing prices must value a holding at zero rather than fail.
func TestApply_Positions(t *testing.T) {
	trades := []ledger.Trade{
		buy("AAA", 10, 100, day(0)),
		buy("BBB", 4, 50, day(1)),
		sell("BBB", 4, 60, day(2)),
		buy("CCC", 2, 10, day(3)),
		{Asset: "AAA", Account: "other", Kind: "buy", Quantity: 1, Price: 90, Date: day(4)},
	}
	prices := model.PriceMap{"AAA": 110}

	result := ledger.Apply(trades, prices)

	require.Len(t, result.Positions, 3)

	aaa := result.Positions[0]
	assert.Equal(t, "AAA", aaa.Asset)
	assert.Equal(t, "main", aaa.Account)
	assert.InDelta(t, 1000.0, aaa.CostBasis, 1e-9)
	assert.InDelta(t, 100.0, aaa.AverageCost, 1e-9)
	assert.InDelta(t, 1100.0, aaa.MarketValue, 1e-9)
	assert.InDelta(t, 100.0, aaa.UnrealizedGain, 1e-9)

	// BBB is closed and omitted; its gain still counts.
	ccc := result.Positions[1]
	assert.Equal(t, "CCC", ccc.Asset)
	assert.Zero(t, ccc.Price)
	assert.Zero(t, ccc.MarketValue)

	other := result.Positions[2]
	assert.Equal(t, "AAA", other.Asset)
	assert.Equal(t, "other", other.Account)
	assert.InDelta(t, 110.0, other.MarketValue, 1e-9)

	assert.InDelta(t, 40.0, result.RealizedGain, 1e-9)
	assert.Empty(t, result.Anomalies)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	trades := []ledger.Trade{
		sell("A", 1, 10, day(2)),
		buy("A", 1, 10, day(1)),
	}
	original := append([]ledger.Trade(nil), trades...)

	ledger.Apply(trades, nil)

	assert.Equal(t, original, trades)
}

// TestApply_MatchedQuantity tests the per-trade quantity the ledger took.
//
// WHY: Sale proceeds feed the XIRR cashflows. An oversold sale must only bring
// in the units that were actually held, and the matched slice has to line up
// with the caller's input order even though trades are re-sorted by date.
func TestApply_MatchedQuantity(t *testing.T) {
	trades := []ledger.Trade{
		sell("A", 20, 110, day(5)),
		buy("A", 10, 100, day(1)),
		buy("A", 0, 100, day(2)),
	}

	result := ledger.Apply(trades, nil)

	require.Len(t, result.Matched, len(trades))
	assert.InDelta(t, 10.0, result.Matched[0], 1e-9)
	assert.InDelta(t, 10.0, result.Matched[1], 1e-9)
	assert.Zero(t, result.Matched[2])
	require.Len(t, result.Anomalies, 1)
	assert.InDelta(t, 10.0, result.Anomalies[0].Unmatched, 1e-9)
}
