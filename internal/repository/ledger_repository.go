package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
)

// LedgerRepository reads the transaction tables. It never writes.
//
// Numeric columns are parsed leniently (see ParseAmount). Rows whose date
// cannot be parsed are skipped with a warning since they cannot be ordered.
type LedgerRepository struct {
	db  *sql.DB
	log *logrus.Entry
}

// NewLedgerRepository creates a new LedgerRepository with the provided database connection.
func NewLedgerRepository(db *sql.DB, log *logrus.Logger) *LedgerRepository {
	return &LedgerRepository{
		db:  db,
		log: log.WithField("component", "ledger_repository"),
	}
}

// Ping verifies the store is reachable.
func (r *LedgerRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *LedgerRepository) parseDate(table string, id string, raw sql.NullString) (time.Time, bool) {
	if raw.Valid {
		if d, err := ParseTime(raw.String); err == nil && !d.IsZero() {
			return d, true
		}
	}
	r.log.WithFields(logrus.Fields{
		"table": table,
		"id":    id,
		"date":  raw.String,
	}).Warn("skipping row with invalid date")
	return time.Time{}, false
}

// EquityTransactions returns stock_transaction rows of the given category
// (stock or etf) in ingestion order.
func (r *LedgerRepository) EquityTransactions(ctx context.Context, category model.AssetClass) ([]model.EquityTransaction, error) {
	query := `
		SELECT rowid, id, symbol, account, transaction_type, quantity, buy_price, trade_date
		FROM stock_transaction
		WHERE LOWER(category) = ?
		ORDER BY rowid ASC
	`

	rows, err := r.db.QueryContext(ctx, query, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_transaction table: %w", err)
	}
	defer rows.Close()

	txs := []model.EquityTransaction{}
	for rows.Next() {
		var tx model.EquityTransaction
		var quantity, price, date sql.NullString

		err := rows.Scan(
			&tx.Seq,
			&tx.ID,
			&tx.Symbol,
			&tx.Account,
			&tx.Type,
			&quantity,
			&price,
			&date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock_transaction results: %w", err)
		}

		var ok bool
		if tx.Date, ok = r.parseDate("stock_transaction", tx.ID, date); !ok {
			continue
		}
		tx.Category = category
		tx.Quantity = ParseAmount(quantity)
		tx.Price = ParseAmount(price)
		txs = append(txs, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_transaction table: %w", err)
	}

	return txs, nil
}

// MutualFundTransactions returns mutual_fund_transaction rows keyed by scheme and folio.
func (r *LedgerRepository) MutualFundTransactions(ctx context.Context) ([]model.FundTransaction, error) {
	return r.fundTransactions(ctx, "mutual_fund_transaction", "folio")
}

// RetirementSchemeTransactions returns nps_transaction rows keyed by scheme and PRAN.
func (r *LedgerRepository) RetirementSchemeTransactions(ctx context.Context) ([]model.FundTransaction, error) {
	return r.fundTransactions(ctx, "nps_transaction", "pran")
}

func (r *LedgerRepository) fundTransactions(ctx context.Context, table, accountColumn string) ([]model.FundTransaction, error) {
	//#nosec G202 -- Safe: table and column names are constants from this package
	query := `
		SELECT rowid, id, scheme, ` + accountColumn + `, transaction_type, units, nav, amount, transaction_date
		FROM ` + table + `
		ORDER BY rowid ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s table: %w", table, err)
	}
	defer rows.Close()

	txs := []model.FundTransaction{}
	for rows.Next() {
		var tx model.FundTransaction
		var units, nav, amount, date sql.NullString

		err := rows.Scan(
			&tx.Seq,
			&tx.ID,
			&tx.Scheme,
			&tx.Account,
			&tx.Type,
			&units,
			&nav,
			&amount,
			&date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s results: %w", table, err)
		}

		var ok bool
		if tx.Date, ok = r.parseDate(table, tx.ID, date); !ok {
			continue
		}
		tx.Units = ParseAmount(units)
		tx.NAV = ParseAmount(nav)
		tx.Amount = ParseAmount(amount)
		txs = append(txs, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s table: %w", table, err)
	}

	return txs, nil
}

// ProvidentFundTransactions returns provident_fund_transaction rows whose
// account_type is one of accountTypes. An empty filter returns every row.
func (r *LedgerRepository) ProvidentFundTransactions(ctx context.Context, accountTypes []string) ([]model.ProvidentFundTransaction, error) {
	query := `
		SELECT rowid, id, account, account_type, transaction_type, amount, transaction_date
		FROM provident_fund_transaction
	`

	args := make([]any, 0, len(accountTypes))
	if len(accountTypes) > 0 {
		placeholders := make([]string, len(accountTypes))
		for i, t := range accountTypes {
			placeholders[i] = "?"
			args = append(args, strings.ToLower(t))
		}
		//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
		query += ` WHERE LOWER(account_type) IN (` + strings.Join(placeholders, ",") + `)`
	}
	query += ` ORDER BY rowid ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query provident_fund_transaction table: %w", err)
	}
	defer rows.Close()

	txs := []model.ProvidentFundTransaction{}
	for rows.Next() {
		var tx model.ProvidentFundTransaction
		var amount, date sql.NullString

		err := rows.Scan(
			&tx.Seq,
			&tx.ID,
			&tx.Account,
			&tx.AccountType,
			&tx.Type,
			&amount,
			&date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provident_fund_transaction results: %w", err)
		}

		var ok bool
		if tx.Date, ok = r.parseDate("provident_fund_transaction", tx.ID, date); !ok {
			continue
		}
		tx.AccountType = strings.ToLower(tx.AccountType)
		tx.Amount = ParseAmount(amount)
		txs = append(txs, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating provident_fund_transaction table: %w", err)
	}

	return txs, nil
}

// BankBalances returns every bank_balance row in ingestion order.
func (r *LedgerRepository) BankBalances(ctx context.Context) ([]model.BankBalance, error) {
	query := `
		SELECT rowid, id, account, bank, account_type, amount, balance_date
		FROM bank_balance
		ORDER BY rowid ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank_balance table: %w", err)
	}
	defer rows.Close()

	balances := []model.BankBalance{}
	for rows.Next() {
		var b model.BankBalance
		var amount, date sql.NullString

		err := rows.Scan(
			&b.Seq,
			&b.ID,
			&b.Account,
			&b.Bank,
			&b.AccountType,
			&amount,
			&date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank_balance results: %w", err)
		}

		var ok bool
		if b.Date, ok = r.parseDate("bank_balance", b.ID, date); !ok {
			continue
		}
		b.Amount = ParseAmount(amount)
		balances = append(balances, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank_balance table: %w", err)
	}

	return balances, nil
}
