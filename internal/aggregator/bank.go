package aggregator

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
)

// BankAggregator reports savings and demat cash balances.
type BankAggregator struct{}

func (BankAggregator) Class() model.AssetClass { return model.ClassBank }

func (a BankAggregator) Aggregate(ctx context.Context, src DataSource, _ PriceLookup, _ time.Time) (Result, error) {
	balances, err := src.BankBalances(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load bank balances: %w", err)
	}
	return AggregateBankBalances(a.Class(), balances), nil
}

type bankKey struct {
	account     string
	bank        string
	accountType string
}

// AggregateBankBalances takes a snapshot of the latest calendar month present
// in balances. That month is shared by every account group: each group sums
// only its rows dated in it, so a group with no row in the latest month drops
// out of the snapshot. Older months are not a running balance. Cash is valued
// at face value, so invested equals market value.
func AggregateBankBalances(class model.AssetClass, balances []model.BankBalance) Result {
	result := Empty(class)
	if len(balances) == 0 {
		return result
	}

	ordered := slices.Clone(balances)
	slices.SortStableFunc(ordered, func(a, b model.BankBalance) int {
		return compareSeq(a.Seq, b.Seq)
	})

	latest := monthOf(ordered[0].Date)
	for _, b := range ordered[1:] {
		if m := monthOf(b.Date); m.After(latest) {
			latest = m
		}
	}

	var order []bankKey
	totals := make(map[bankKey]float64)
	for _, b := range ordered {
		if !monthOf(b.Date).Equal(latest) {
			continue
		}
		k := bankKey{account: b.Account, bank: b.Bank, accountType: b.AccountType}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += b.Amount
	}

	for _, k := range order {
		amount := totals[k]
		name := k.account
		if k.bank != "" {
			name = k.bank + " " + k.account
		}
		result.Holdings = append(result.Holdings, model.Holding{
			Name:          name,
			Account:       k.account,
			AccountType:   k.accountType,
			InvestedValue: amount,
			MarketValue:   amount,
		})
		result.Invested += amount
		result.MarketValue += amount
	}
	return result
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
