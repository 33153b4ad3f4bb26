package aggregator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/aggregator"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/xirr"
)

type fakeSource struct {
	equities  map[model.AssetClass][]model.EquityTransaction
	funds     []model.FundTransaction
	schemes   []model.FundTransaction
	provident []model.ProvidentFundTransaction
	balances  []model.BankBalance
	err       error
}

func (f *fakeSource) EquityTransactions(_ context.Context, category model.AssetClass) ([]model.EquityTransaction, error) {
	return f.equities[category], f.err
}

func (f *fakeSource) MutualFundTransactions(context.Context) ([]model.FundTransaction, error) {
	return f.funds, f.err
}

func (f *fakeSource) RetirementSchemeTransactions(context.Context) ([]model.FundTransaction, error) {
	return f.schemes, f.err
}

func (f *fakeSource) ProvidentFundTransactions(_ context.Context, accountTypes []string) ([]model.ProvidentFundTransaction, error) {
	var out []model.ProvidentFundTransaction
	for _, tx := range f.provident {
		for _, t := range accountTypes {
			if tx.AccountType == t {
				out = append(out, tx)
			}
		}
	}
	return out, f.err
}

func (f *fakeSource) BankBalances(context.Context) ([]model.BankBalance, error) {
	return f.balances, f.err
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestDefaultRegistry verifies the registry covers the roster in order.
//
// WHY: the dashboard emits exactly one row per roster entry; a missing or
// reordered aggregator would silently drop or shuffle a row.
func TestDefaultRegistry(t *testing.T) {
	reg := aggregator.DefaultRegistry()
	all := reg.All()
	require.Len(t, all, len(model.Roster))
	for i, class := range model.Roster {
		assert.Equal(t, class, all[i].Class())
		got, ok := reg.Get(class)
		require.True(t, ok)
		assert.Equal(t, class, got.Class())
	}

	_, ok := reg.Get(model.AssetClass("crypto"))
	assert.False(t, ok)
}

func TestNewRegistry_ReplaceKeepsPosition(t *testing.T) {
	reg := aggregator.NewRegistry(
		aggregator.NewEquityAggregator(model.ClassStock),
		aggregator.BankAggregator{},
		aggregator.PlaceholderAggregator{AssetClass: model.ClassStock},
	)
	all := reg.All()
	require.Len(t, all, 2)
	assert.IsType(t, aggregator.PlaceholderAggregator{}, all[0])
	assert.Equal(t, model.ClassBank, all[1].Class())
}

// TestAggregateEquities checks FIFO cost basis flows into the class result.
//
// WHY: invested value must be the cost of the lots still open, not the sum of
// all purchases, or profit is understated after every partial sale.
func TestAggregateEquities(t *testing.T) {
	asOf := day(2024, time.January, 1)
	txs := []model.EquityTransaction{
		{Symbol: "INFY", Account: "zerodha", Type: "buy", Quantity: 10, Price: 100, Date: day(2023, time.January, 1), Seq: 1},
		{Symbol: "INFY", Account: "zerodha", Type: "buy", Quantity: 10, Price: 200, Date: day(2023, time.February, 1), Seq: 2},
		{Symbol: "INFY", Account: "zerodha", Type: "sell", Quantity: 15, Price: 250, Date: day(2023, time.March, 1), Seq: 3},
		{Symbol: "TCS", Account: "zerodha", Type: "buy", Quantity: 2, Price: 3000, Date: day(2023, time.June, 1), Seq: 4},
	}
	prices := model.PriceMap{"INFY": 300, "TCS": 3500}

	res := aggregator.AggregateEquities(model.ClassStock, txs, prices, asOf)

	assert.Equal(t, model.ClassStock, res.Class)
	require.Len(t, res.Holdings, 2)

	infy := res.Holdings[0]
	assert.Equal(t, "INFY", infy.Name)
	assert.InDelta(t, 5, infy.Quantity, 1e-9)
	assert.InDelta(t, 1000, infy.InvestedValue, 1e-9)
	assert.InDelta(t, 1500, infy.MarketValue, 1e-9)
	// 10*(250-100) + 5*(250-200)
	assert.InDelta(t, 1750, infy.RealizedGain, 1e-9)

	assert.InDelta(t, 7000, res.Invested, 1e-9)
	assert.InDelta(t, 8500, res.MarketValue, 1e-9)
	assert.InDelta(t, 1750, res.RealizedGain, 1e-9)
	assert.Zero(t, res.Anomalies)
	assert.Len(t, res.Cashflows, len(txs)+1)
	assert.Greater(t, res.Holdings[1].XIRR, 0.0)
}

func TestAggregateEquities_OversoldCounted(t *testing.T) {
	txs := []model.EquityTransaction{
		{Symbol: "X", Account: "a", Type: "buy", Quantity: 1, Price: 10, Date: day(2023, time.January, 1), Seq: 1},
		{Symbol: "X", Account: "a", Type: "sell", Quantity: 3, Price: 12, Date: day(2023, time.January, 2), Seq: 2},
	}

	res := aggregator.AggregateEquities(model.ClassETF, txs, model.PriceMap{"X": 11}, day(2024, time.January, 1))

	assert.Equal(t, 1, res.Anomalies)
	assert.Empty(t, res.Holdings)
	assert.NotNil(t, res.Holdings)
	assert.Zero(t, res.MarketValue)
}

func TestAggregateFunds_DerivesUnitCost(t *testing.T) {
	txs := []model.FundTransaction{
		{Scheme: "Index Fund", Account: "folio-1", Type: "purchase", Units: 50, Amount: 1000, Date: day(2023, time.January, 1), Seq: 1},
		{Scheme: "Index Fund", Account: "folio-1", Type: "redemption", Units: 10, NAV: 25, Date: day(2023, time.June, 1), Seq: 2},
	}

	res := aggregator.AggregateFunds(model.ClassMutualFund, txs, model.PriceMap{"Index Fund": 30}, day(2024, time.January, 1))

	require.Len(t, res.Holdings, 1)
	h := res.Holdings[0]
	assert.InDelta(t, 40, h.Quantity, 1e-9)
	assert.InDelta(t, 20, h.AverageCost, 1e-9)
	assert.InDelta(t, 800, h.InvestedValue, 1e-9)
	assert.InDelta(t, 1200, h.MarketValue, 1e-9)
	assert.InDelta(t, 50, res.RealizedGain, 1e-9)
}

func TestAggregateFunds_MissingPriceIsZero(t *testing.T) {
	txs := []model.FundTransaction{
		{Scheme: "Tier I", Account: "pran", Type: "contribution", Units: 10, NAV: 30, Date: day(2023, time.January, 1), Seq: 1},
	}

	res := aggregator.AggregateFunds(model.ClassRetirementScheme, txs, model.PriceMap{}, day(2024, time.January, 1))

	require.Len(t, res.Holdings, 1)
	assert.InDelta(t, 300, res.Invested, 1e-9)
	assert.Zero(t, res.MarketValue)
}

// TestAggregateProvidentFunds checks the interest-first withdrawal rule per
// account.
//
// WHY: withdrawals consume accrued interest before principal; getting the
// order wrong misstates invested capital for the whole class.
func TestAggregateProvidentFunds(t *testing.T) {
	txs := []model.ProvidentFundTransaction{
		{Account: "EPF-1", AccountType: "epf", Type: "contribution", Amount: 1000, Date: day(2022, time.January, 1), Seq: 1},
		{Account: "PPF-1", AccountType: "ppf", Type: "deposit", Amount: 500, Date: day(2022, time.February, 1), Seq: 2},
		{Account: "EPF-1", AccountType: "epf", Type: "interest", Amount: 200, Date: day(2022, time.March, 31), Seq: 3},
		{Account: "EPF-1", AccountType: "epf", Type: "withdrawal", Amount: 300, Date: day(2022, time.June, 1), Seq: 4},
	}

	res := aggregator.AggregateProvidentFunds(model.ClassProvidentFund, txs, day(2023, time.January, 1))

	require.Len(t, res.Holdings, 2)
	epf := res.Holdings[0]
	assert.Equal(t, "EPF-1", epf.Name)
	assert.Equal(t, "EPF-1", epf.Account)
	assert.Equal(t, "epf", epf.AccountType)
	assert.InDelta(t, 900, epf.InvestedValue, 1e-9)
	assert.InDelta(t, 0, epf.Interest, 1e-9)
	assert.InDelta(t, 900, epf.MarketValue, 1e-9)

	assert.InDelta(t, 1400, res.Invested, 1e-9)
	assert.InDelta(t, 1400, res.MarketValue, 1e-9)
	// contribution, deposit, withdrawal, terminal
	assert.Len(t, res.Cashflows, 4)
}

func TestProvidentFundAggregator_FiltersAccountTypes(t *testing.T) {
	src := &fakeSource{provident: []model.ProvidentFundTransaction{
		{Account: "EPF-1", AccountType: "epf", Type: "contribution", Amount: 1000, Date: day(2022, time.January, 1), Seq: 1},
		{Account: "NPS-EPS", AccountType: "eps", Type: "contribution", Amount: 700, Date: day(2022, time.January, 1), Seq: 2},
	}}
	reg := aggregator.DefaultRegistry()

	pf, ok := reg.Get(model.ClassProvidentFund)
	require.True(t, ok)
	res, err := pf.Aggregate(context.Background(), src, nil, day(2023, time.January, 1))
	require.NoError(t, err)
	assert.InDelta(t, 1000, res.MarketValue, 1e-9)

	pension, ok := reg.Get(model.ClassPensionFund)
	require.True(t, ok)
	res, err = pension.Aggregate(context.Background(), src, nil, day(2023, time.January, 1))
	require.NoError(t, err)
	assert.InDelta(t, 700, res.MarketValue, 1e-9)
}

// TestAggregateEquities_OversoldSaleBooksMatchedProceeds tests the cashflows
// of a sale larger than the open position.
//
// WHY: The ledger drops the excess units. Booking proceeds for them would make
// XIRR report 120% on a position that returned 10%.
func TestAggregateEquities_OversoldSaleBooksMatchedProceeds(t *testing.T) {
	txs := []model.EquityTransaction{
		{Symbol: "X", Account: "a", Type: "buy", Quantity: 10, Price: 100, Date: day(2023, time.January, 1), Seq: 1},
		{Symbol: "X", Account: "a", Type: "sell", Quantity: 20, Price: 110, Date: day(2024, time.January, 1), Seq: 2},
	}

	res := aggregator.AggregateEquities(model.ClassStock, txs, model.PriceMap{"X": 110}, day(2024, time.January, 1))

	assert.Equal(t, 1, res.Anomalies)
	assert.InDelta(t, 100, res.RealizedGain, 1e-9)
	require.Len(t, res.Cashflows, 3)
	assert.InDelta(t, -1000, res.Cashflows[0].Amount, 1e-9)
	assert.InDelta(t, 1100, res.Cashflows[1].Amount, 1e-9)
	assert.InDelta(t, 10, xirr.Solve(res.Cashflows), 0.01)
}

// TestAggregateBankBalances_LatestMonthSnapshot verifies the bank class
// reports only the latest calendar month.
//
// WHY: balances are monthly snapshots, not deltas; summing every month would
// count the same cash many times.
func TestAggregateBankBalances_LatestMonthSnapshot(t *testing.T) {
	balances := []model.BankBalance{
		{Account: "1234", Bank: "HDFC", AccountType: "savings", Amount: 50000, Date: day(2024, time.February, 28), Seq: 1},
		{Account: "1234", Bank: "HDFC", AccountType: "savings", Amount: 60000, Date: day(2024, time.March, 31), Seq: 2},
		{Account: "DP-9", Bank: "Zerodha", AccountType: "demat", Amount: 2500, Date: day(2024, time.March, 15), Seq: 3},
		{Account: "DP-9", Bank: "Zerodha", AccountType: "demat", Amount: 500, Date: day(2024, time.March, 30), Seq: 4},
		{Account: "old", Bank: "SBI", AccountType: "savings", Amount: 9999, Date: day(2024, time.January, 31), Seq: 5},
	}

	res := aggregator.AggregateBankBalances(model.ClassBank, balances)

	require.Len(t, res.Holdings, 2)
	assert.Equal(t, "HDFC 1234", res.Holdings[0].Name)
	assert.Equal(t, "1234", res.Holdings[0].Account)
	assert.Equal(t, "savings", res.Holdings[0].AccountType)
	assert.InDelta(t, 60000, res.Holdings[0].MarketValue, 1e-9)
	assert.Equal(t, "Zerodha DP-9", res.Holdings[1].Name)
	assert.InDelta(t, 3000, res.Holdings[1].MarketValue, 1e-9)
	assert.InDelta(t, 63000, res.MarketValue, 1e-9)
	assert.InDelta(t, res.MarketValue, res.Invested, 1e-9)
	assert.Empty(t, res.Cashflows)
}

// TestAggregateBankBalances_StaleGroupDropsOut pins the shared snapshot month.
//
// WHY: The snapshot month is the latest month across every group, not per
// group. An account last updated in February contributes nothing once another
// account has a March row.
func TestAggregateBankBalances_StaleGroupDropsOut(t *testing.T) {
	balances := []model.BankBalance{
		{Account: "1234", Bank: "HDFC", AccountType: "savings", Amount: 50000, Date: day(2024, time.February, 28), Seq: 1},
		{Account: "DP-9", Bank: "Zerodha", AccountType: "demat", Amount: 2500, Date: day(2024, time.February, 15), Seq: 2},
		{Account: "1234", Bank: "HDFC", AccountType: "savings", Amount: 60000, Date: day(2024, time.March, 31), Seq: 3},
	}

	res := aggregator.AggregateBankBalances(model.ClassBank, balances)

	require.Len(t, res.Holdings, 1)
	assert.Equal(t, "1234", res.Holdings[0].Account)
	assert.InDelta(t, 60000, res.MarketValue, 1e-9)
}

func TestAggregateBankBalances_YearBoundary(t *testing.T) {
	balances := []model.BankBalance{
		{Account: "1", AccountType: "savings", Amount: 10, Date: day(2023, time.December, 31), Seq: 1},
		{Account: "1", AccountType: "savings", Amount: 20, Date: day(2024, time.January, 1), Seq: 2},
	}

	res := aggregator.AggregateBankBalances(model.ClassBank, balances)

	assert.InDelta(t, 20, res.MarketValue, 1e-9)
}

func TestAggregateBankBalances_Empty(t *testing.T) {
	res := aggregator.AggregateBankBalances(model.ClassBank, nil)
	assert.NotNil(t, res.Holdings)
	assert.Zero(t, res.MarketValue)
}

func TestAggregate_SourceErrorWrapped(t *testing.T) {
	sentinel := errors.New("disk on fire")
	src := &fakeSource{err: sentinel}

	for _, agg := range aggregator.DefaultRegistry().All() {
		t.Run(string(agg.Class()), func(t *testing.T) {
			_, err := agg.Aggregate(context.Background(), src, model.PriceMap{}, day(2024, time.January, 1))
			if agg.Class() == model.ClassFixedDeposit {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, sentinel)
		})
	}
}
