package aggregator

import (
	"slices"
	"time"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/xirr"
)

type holdingKey struct {
	asset   string
	account string
}

// tradeCashflow converts the matched quantity of a trade to its cash effect:
// buys are outflows, sales inflows. Units sold beyond the open quantity never
// existed and bring in nothing.
func tradeCashflow(t ledger.Trade, matched float64) xirr.Cashflow {
	amount := matched * t.Price
	if !t.IsSale() {
		amount = -amount
	}
	return xirr.Cashflow{Date: t.Date, Amount: amount}
}

// aggregateTrades runs trades through the FIFO ledger and shapes the result.
// trades must already be in ingestion order.
func aggregateTrades(class model.AssetClass, trades []ledger.Trade, prices PriceLookup, asOf time.Time) Result {
	result := Empty(class)
	ledgerResult := ledger.Apply(trades, prices)

	flowsByHolding := make(map[holdingKey][]xirr.Cashflow)
	for i, t := range trades {
		flow := tradeCashflow(t, ledgerResult.Matched[i])
		k := holdingKey{asset: t.Asset, account: t.Account}
		flowsByHolding[k] = append(flowsByHolding[k], flow)
		result.Cashflows = append(result.Cashflows, flow)
	}

	for _, p := range ledgerResult.Positions {
		k := holdingKey{asset: p.Asset, account: p.Account}
		flows := append(slices.Clone(flowsByHolding[k]), xirr.Cashflow{Date: asOf, Amount: p.MarketValue})

		result.Holdings = append(result.Holdings, model.Holding{
			Name:           p.Asset,
			Account:        p.Account,
			Quantity:       p.Quantity,
			AverageCost:    p.AverageCost,
			Price:          p.Price,
			InvestedValue:  p.CostBasis,
			MarketValue:    p.MarketValue,
			UnrealizedGain: p.UnrealizedGain,
			RealizedGain:   p.RealizedGain,
			XIRR:           xirr.Solve(flows),
		})
		result.Invested += p.CostBasis
		result.MarketValue += p.MarketValue
	}

	result.Cashflows = append(result.Cashflows, xirr.Cashflow{Date: asOf, Amount: result.MarketValue})
	result.RealizedGain = ledgerResult.RealizedGain
	result.Anomalies = len(ledgerResult.Anomalies)
	return result
}
