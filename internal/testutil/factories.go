package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
)

const dateLayout = "2006-01-02"

// StockTransactionBuilder provides a fluent interface for creating
// stock_transaction rows.
//
// Example usage:
//
//	// Buy 10 INFY at 100 on the default date
//	tx := testutil.NewStockTransaction("INFY").Build(t, db)
//
//	// ETF sale
//	tx := testutil.NewStockTransaction("NIFTYBEES").
//	    WithCategory(model.ClassETF).
//	    Sell(5, 250).
//	    WithDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type StockTransactionBuilder struct {
	ID       string
	Symbol   string
	Account  string
	Category model.AssetClass
	Type     string
	Quantity any
	Price    any
	Date     string
}

// NewStockTransaction creates a StockTransactionBuilder for a 10 unit buy at 100.
func NewStockTransaction(symbol string) *StockTransactionBuilder {
	return &StockTransactionBuilder{
		ID:       MakeID(),
		Symbol:   symbol,
		Account:  "demat-1",
		Category: model.ClassStock,
		Type:     "buy",
		Quantity: 10.0,
		Price:    100.0,
		Date:     "2024-01-15",
	}
}

// WithCategory sets stock or etf.
func (b *StockTransactionBuilder) WithCategory(category model.AssetClass) *StockTransactionBuilder {
	b.Category = category
	return b
}

// WithAccount sets the holding account.
func (b *StockTransactionBuilder) WithAccount(account string) *StockTransactionBuilder {
	b.Account = account
	return b
}

// Buy sets a purchase of quantity at price.
func (b *StockTransactionBuilder) Buy(quantity, price float64) *StockTransactionBuilder {
	b.Type = "buy"
	b.Quantity = quantity
	b.Price = price
	return b
}

// Sell sets a sale of quantity at price.
func (b *StockTransactionBuilder) Sell(quantity, price float64) *StockTransactionBuilder {
	b.Type = "sell"
	b.Quantity = quantity
	b.Price = price
	return b
}

// WithRawQuantity stores quantity verbatim, e.g. a malformed string.
func (b *StockTransactionBuilder) WithRawQuantity(quantity any) *StockTransactionBuilder {
	b.Quantity = quantity
	return b
}

// WithDate sets the trade date.
func (b *StockTransactionBuilder) WithDate(date time.Time) *StockTransactionBuilder {
	b.Date = date.Format(dateLayout)
	return b
}

// WithRawDate stores the trade date verbatim.
func (b *StockTransactionBuilder) WithRawDate(date string) *StockTransactionBuilder {
	b.Date = date
	return b
}

// Build creates the row in the database.
func (b *StockTransactionBuilder) Build(t *testing.T, db *sql.DB) {
	t.Helper()

	query := `
		INSERT INTO stock_transaction (id, symbol, account, category, transaction_type, quantity, buy_price, trade_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Symbol, b.Account, string(b.Category), b.Type, b.Quantity, b.Price, b.Date)
	if err != nil {
		t.Fatalf("Failed to create test stock transaction: %v", err)
	}
}

// FundTransactionBuilder creates mutual_fund_transaction or nps_transaction rows.
type FundTransactionBuilder struct {
	table         string
	accountColumn string

	ID      string
	Scheme  string
	Account string
	Type    string
	Units   float64
	NAV     float64
	Amount  float64
	Date    string
}

// NewMutualFundTransaction creates a builder for a 100 unit purchase at NAV 10.
func NewMutualFundTransaction(scheme string) *FundTransactionBuilder {
	return &FundTransactionBuilder{
		table:         "mutual_fund_transaction",
		accountColumn: "folio",
		ID:            MakeID(),
		Scheme:        scheme,
		Account:       "folio-1",
		Type:          "purchase",
		Units:         100,
		NAV:           10,
		Amount:        1000,
		Date:          "2024-01-15",
	}
}

// NewNPSTransaction creates a builder for a 100 unit contribution at NAV 10.
func NewNPSTransaction(scheme string) *FundTransactionBuilder {
	b := NewMutualFundTransaction(scheme)
	b.table = "nps_transaction"
	b.accountColumn = "pran"
	b.Account = "pran-1"
	b.Type = "contribution"
	return b
}

// WithAccount sets the folio or PRAN.
func (b *FundTransactionBuilder) WithAccount(account string) *FundTransactionBuilder {
	b.Account = account
	return b
}

// WithType sets the transaction type.
func (b *FundTransactionBuilder) WithType(txType string) *FundTransactionBuilder {
	b.Type = txType
	return b
}

// WithUnits sets units, NAV and amount = units*nav.
func (b *FundTransactionBuilder) WithUnits(units, nav float64) *FundTransactionBuilder {
	b.Units = units
	b.NAV = nav
	b.Amount = units * nav
	return b
}

// WithDate sets the transaction date.
func (b *FundTransactionBuilder) WithDate(date time.Time) *FundTransactionBuilder {
	b.Date = date.Format(dateLayout)
	return b
}

// Build creates the row in the database.
func (b *FundTransactionBuilder) Build(t *testing.T, db *sql.DB) {
	t.Helper()

	//#nosec G202 -- Safe: table and column are fixed by the constructors
	query := `
		INSERT INTO ` + b.table + ` (id, scheme, ` + b.accountColumn + `, transaction_type, units, nav, amount, transaction_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Scheme, b.Account, b.Type, b.Units, b.NAV, b.Amount, b.Date)
	if err != nil {
		t.Fatalf("Failed to create test %s row: %v", b.table, err)
	}
}

// ProvidentFundTransactionBuilder creates provident_fund_transaction rows.
type ProvidentFundTransactionBuilder struct {
	ID          string
	Account     string
	AccountType string
	Type        string
	Amount      float64
	Date        string
}

// NewProvidentFundTransaction creates a builder for a 1000 contribution.
func NewProvidentFundTransaction(account, accountType string) *ProvidentFundTransactionBuilder {
	return &ProvidentFundTransactionBuilder{
		ID:          MakeID(),
		Account:     account,
		AccountType: accountType,
		Type:        "contribution",
		Amount:      1000,
		Date:        "2024-01-15",
	}
}

// Contribution sets a contribution of amount.
func (b *ProvidentFundTransactionBuilder) Contribution(amount float64) *ProvidentFundTransactionBuilder {
	b.Type = "contribution"
	b.Amount = amount
	return b
}

// Interest sets an interest credit of amount.
func (b *ProvidentFundTransactionBuilder) Interest(amount float64) *ProvidentFundTransactionBuilder {
	b.Type = "interest"
	b.Amount = amount
	return b
}

// Withdrawal sets a withdrawal of amount.
func (b *ProvidentFundTransactionBuilder) Withdrawal(amount float64) *ProvidentFundTransactionBuilder {
	b.Type = "withdrawal"
	b.Amount = amount
	return b
}

// WithDate sets the transaction date.
func (b *ProvidentFundTransactionBuilder) WithDate(date time.Time) *ProvidentFundTransactionBuilder {
	b.Date = date.Format(dateLayout)
	return b
}

// Build creates the row in the database.
func (b *ProvidentFundTransactionBuilder) Build(t *testing.T, db *sql.DB) {
	t.Helper()

	query := `
		INSERT INTO provident_fund_transaction (id, account, account_type, transaction_type, amount, transaction_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Account, b.AccountType, b.Type, b.Amount, b.Date)
	if err != nil {
		t.Fatalf("Failed to create test provident fund transaction: %v", err)
	}
}

// BankBalanceBuilder creates bank_balance rows.
type BankBalanceBuilder struct {
	ID          string
	Account     string
	Bank        string
	AccountType string
	Amount      any
	Date        string
}

// NewBankBalance creates a builder for a savings balance of 10000.
func NewBankBalance(account string) *BankBalanceBuilder {
	return &BankBalanceBuilder{
		ID:          MakeID(),
		Account:     account,
		Bank:        "HDFC",
		AccountType: "savings",
		Amount:      10000.0,
		Date:        "2024-01-31",
	}
}

// Demat marks the balance as demat cash.
func (b *BankBalanceBuilder) Demat() *BankBalanceBuilder {
	b.AccountType = "demat"
	return b
}

// WithAmount sets the balance.
func (b *BankBalanceBuilder) WithAmount(amount float64) *BankBalanceBuilder {
	b.Amount = amount
	return b
}

// WithRawAmount stores the balance verbatim, e.g. a malformed string.
func (b *BankBalanceBuilder) WithRawAmount(amount any) *BankBalanceBuilder {
	b.Amount = amount
	return b
}

// WithDate sets the balance date.
func (b *BankBalanceBuilder) WithDate(date time.Time) *BankBalanceBuilder {
	b.Date = date.Format(dateLayout)
	return b
}

// Build creates the row in the database.
func (b *BankBalanceBuilder) Build(t *testing.T, db *sql.DB) {
	t.Helper()

	query := `
		INSERT INTO bank_balance (id, account, bank, account_type, amount, balance_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Account, b.Bank, b.AccountType, b.Amount, b.Date)
	if err != nil {
		t.Fatalf("Failed to create test bank balance: %v", err)
	}
}

// CreateAssetPrice stores the current price of asset.
func CreateAssetPrice(t *testing.T, db *sql.DB, asset string, price float64) {
	t.Helper()

	_, err := db.Exec(`INSERT OR REPLACE INTO asset_price (asset, price) VALUES (?, ?)`, asset, price)
	if err != nil {
		t.Fatalf("Failed to create test asset price: %v", err)
	}
}
