package aggregator

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
)

// MutualFundAggregator values mutual-fund units per scheme and folio.
type MutualFundAggregator struct{}

func (MutualFundAggregator) Class() model.AssetClass { return model.ClassMutualFund }

func (a MutualFundAggregator) Aggregate(ctx context.Context, src DataSource, prices PriceLookup, asOf time.Time) (Result, error) {
	txs, err := src.MutualFundTransactions(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load mutual fund transactions: %w", err)
	}
	return AggregateFunds(a.Class(), txs, prices, asOf), nil
}

// RetirementSchemeAggregator values NPS-style scheme units. Contributions buy
// units at the day's NAV, so the holdings go through the FIFO ledger rather
// than the cash accumulator.
type RetirementSchemeAggregator struct{}

func (RetirementSchemeAggregator) Class() model.AssetClass { return model.ClassRetirementScheme }

func (a RetirementSchemeAggregator) Aggregate(ctx context.Context, src DataSource, prices PriceLookup, asOf time.Time) (Result, error) {
	txs, err := src.RetirementSchemeTransactions(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load retirement scheme transactions: %w", err)
	}
	return AggregateFunds(a.Class(), txs, prices, asOf), nil
}

// AggregateFunds groups unit transactions by scheme and account. The price
// lookup is keyed by scheme name.
func AggregateFunds(class model.AssetClass, txs []model.FundTransaction, prices PriceLookup, asOf time.Time) Result {
	ordered := slices.Clone(txs)
	slices.SortStableFunc(ordered, func(a, b model.FundTransaction) int {
		return compareSeq(a.Seq, b.Seq)
	})

	trades := make([]ledger.Trade, 0, len(ordered))
	for _, tx := range ordered {
		trades = append(trades, ledger.Trade{
			Asset:    tx.Scheme,
			Account:  tx.Account,
			Kind:     tx.Type,
			Quantity: tx.Units,
			Price:    tx.UnitCost(),
			Date:     tx.Date,
		})
	}
	return aggregateTrades(class, trades, prices, asOf)
}
