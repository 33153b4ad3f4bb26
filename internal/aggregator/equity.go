package aggregator

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
)

// EquityAggregator values stock or ETF trades. Both live in the same table
// and differ only in category.
type EquityAggregator struct {
	category model.AssetClass
}

// NewEquityAggregator returns the aggregator for model.ClassStock or model.ClassETF.
func NewEquityAggregator(category model.AssetClass) EquityAggregator {
	return EquityAggregator{category: category}
}

func (a EquityAggregator) Class() model.AssetClass { return a.category }

func (a EquityAggregator) Aggregate(ctx context.Context, src DataSource, prices PriceLookup, asOf time.Time) (Result, error) {
	txs, err := src.EquityTransactions(ctx, a.category)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load %s transactions: %w", a.category, err)
	}
	return AggregateEquities(a.category, txs, prices, asOf), nil
}

// AggregateEquities groups trades by symbol and account and values the open
// lots at the current price.
func AggregateEquities(class model.AssetClass, txs []model.EquityTransaction, prices PriceLookup, asOf time.Time) Result {
	ordered := slices.Clone(txs)
	slices.SortStableFunc(ordered, func(a, b model.EquityTransaction) int {
		return compareSeq(a.Seq, b.Seq)
	})

	trades := make([]ledger.Trade, 0, len(ordered))
	for _, tx := range ordered {
		trades = append(trades, ledger.Trade{
			Asset:    tx.Symbol,
			Account:  tx.Account,
			Kind:     tx.Type,
			Quantity: tx.Quantity,
			Price:    tx.Price,
			Date:     tx.Date,
		})
	}
	return aggregateTrades(class, trades, prices, asOf)
}

func compareSeq(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
