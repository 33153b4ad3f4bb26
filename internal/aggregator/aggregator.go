// Package aggregator turns the raw transaction rows of one asset class into
// invested capital, market value and holdings.
//
// Each asset class has one AssetAggregator. The aggregators are selected
// through a static Registry; they share no mutable state and may run
// concurrently.
package aggregator

import (
	"context"
	"time"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/xirr"
)

// DataSource is the read-only transaction store.
type DataSource interface {
	EquityTransactions(ctx context.Context, category model.AssetClass) ([]model.EquityTransaction, error)
	MutualFundTransactions(ctx context.Context) ([]model.FundTransaction, error)
	RetirementSchemeTransactions(ctx context.Context) ([]model.FundTransaction, error)
	ProvidentFundTransactions(ctx context.Context, accountTypes []string) ([]model.ProvidentFundTransaction, error)
	BankBalances(ctx context.Context) ([]model.BankBalance, error)
}

// PriceLookup resolves current prices; unknown assets price at 0.
type PriceLookup = ledger.PriceLookup

// Result is the normalized output of one aggregator.
type Result struct {
	Class        model.AssetClass
	Invested     float64
	MarketValue  float64
	RealizedGain float64
	Holdings     []model.Holding
	Cashflows    []xirr.Cashflow
	Anomalies    int
}

// Empty returns the zero result of class. Holdings is never nil.
func Empty(class model.AssetClass) Result {
	return Result{Class: class, Holdings: []model.Holding{}}
}

// AssetAggregator computes the Result of a single asset class.
//
// asOf dates the terminal valuation cashflow used for the annualized return.
type AssetAggregator interface {
	Class() model.AssetClass
	Aggregate(ctx context.Context, src DataSource, prices PriceLookup, asOf time.Time) (Result, error)
}
