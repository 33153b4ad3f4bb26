package model

import (
	"math"
	"time"
)

// EquityTransaction is one row of the stock_transaction table. Stocks and ETFs
// share the table and are told apart by Category.
type EquityTransaction struct {
	ID       string
	Symbol   string
	Account  string
	Category AssetClass
	Type     string
	Quantity float64 // negative quantities are sales regardless of Type
	Price    float64 // buy_price: unit cost for buys, unit proceeds for sales
	Date     time.Time
	Seq      int64 // ingestion order, tie-break for same-day rows
}

// FundTransaction is one unit-priced fund movement. Used for both
// mutual_fund_transaction and nps_transaction rows.
type FundTransaction struct {
	ID      string
	Scheme  string
	Account string // folio for mutual funds, PRAN for NPS
	Type    string
	Units   float64
	NAV     float64
	Amount  float64
	Date    time.Time
	Seq     int64
}

// UnitCost returns the NAV of the transaction, falling back to amount/units
// for rows where only the cash amount was recorded.
func (t FundTransaction) UnitCost() float64 {
	if t.NAV != 0 {
		return t.NAV
	}
	if t.Units != 0 && t.Amount != 0 {
		return math.Abs(t.Amount / t.Units)
	}
	return 0
}

// ProvidentFundTransaction is a cash-only movement on an EPF/PPF/pension account.
type ProvidentFundTransaction struct {
	ID          string
	Account     string
	AccountType string // epf, ppf, vpf, pension, eps
	Type        string // contribution, interest, withdrawal
	Amount      float64
	Date        time.Time
	Seq         int64
}

// BankBalance is a monthly balance snapshot of a savings or demat cash account.
type BankBalance struct {
	ID          string
	Account     string
	Bank        string
	AccountType string // savings, demat
	Amount      float64
	Date        time.Time
	Seq         int64
}
