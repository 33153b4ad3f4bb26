package aggregator

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/accumulator"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/xirr"
)

// ProvidentFundAggregator values cash-only, interest-credited accounts of the
// given account types. Provident and pension funds use the same rules.
type ProvidentFundAggregator struct {
	class        model.AssetClass
	accountTypes []string
}

// NewProvidentFundAggregator returns an aggregator for class reading rows with
// one of accountTypes.
func NewProvidentFundAggregator(class model.AssetClass, accountTypes ...string) ProvidentFundAggregator {
	return ProvidentFundAggregator{class: class, accountTypes: accountTypes}
}

func (a ProvidentFundAggregator) Class() model.AssetClass { return a.class }

func (a ProvidentFundAggregator) Aggregate(ctx context.Context, src DataSource, _ PriceLookup, asOf time.Time) (Result, error) {
	txs, err := src.ProvidentFundTransactions(ctx, a.accountTypes)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load %s transactions: %w", a.class, err)
	}
	return AggregateProvidentFunds(a.class, txs, asOf), nil
}

// AggregateProvidentFunds runs each account through the accumulator. Invested
// is the remaining principal, market value principal plus interest.
func AggregateProvidentFunds(class model.AssetClass, txs []model.ProvidentFundTransaction, asOf time.Time) Result {
	result := Empty(class)

	ordered := slices.Clone(txs)
	slices.SortStableFunc(ordered, func(a, b model.ProvidentFundTransaction) int {
		return compareSeq(a.Seq, b.Seq)
	})

	var accounts []string
	entriesByAccount := make(map[string][]accumulator.Entry)
	flowsByAccount := make(map[string][]xirr.Cashflow)
	accountType := make(map[string]string)

	for _, tx := range ordered {
		if _, seen := entriesByAccount[tx.Account]; !seen {
			accounts = append(accounts, tx.Account)
			accountType[tx.Account] = tx.AccountType
		}
		kind := accumulator.ClassifyKind(tx.Type, tx.Amount)
		entriesByAccount[tx.Account] = append(entriesByAccount[tx.Account], accumulator.Entry{
			Date:   tx.Date,
			Kind:   kind,
			Amount: tx.Amount,
		})

		// Interest is internal growth, not money moving in or out.
		switch kind {
		case accumulator.Contribution:
			flowsByAccount[tx.Account] = append(flowsByAccount[tx.Account], xirr.Cashflow{Date: tx.Date, Amount: -math.Abs(tx.Amount)})
		case accumulator.Withdrawal:
			flowsByAccount[tx.Account] = append(flowsByAccount[tx.Account], xirr.Cashflow{Date: tx.Date, Amount: math.Abs(tx.Amount)})
		}
	}

	for _, account := range accounts {
		state := accumulator.Apply(entriesByAccount[account])
		balance := state.Balance()
		flows := append(slices.Clone(flowsByAccount[account]), xirr.Cashflow{Date: asOf, Amount: balance})

		result.Holdings = append(result.Holdings, model.Holding{
			Name:           account,
			Account:        account,
			AccountType:    accountType[account],
			InvestedValue:  state.Invested,
			MarketValue:    balance,
			UnrealizedGain: state.Interest,
			Interest:       state.Interest,
			XIRR:           xirr.Solve(flows),
		})
		result.Invested += state.Invested
		result.MarketValue += balance
		result.Cashflows = append(result.Cashflows, flowsByAccount[account]...)
	}

	result.Cashflows = append(result.Cashflows, xirr.Cashflow{Date: asOf, Amount: result.MarketValue})
	return result
}
