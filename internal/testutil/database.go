package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/database"
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The schema is created by the production migrations and the database is
// closed when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		t.Fatalf("Failed to set pragma: %v", err)
	}

	if _, err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// ledgerTables lists the tables CleanDatabase empties.
var ledgerTables = []string{
	"stock_transaction",
	"mutual_fund_transaction",
	"nps_transaction",
	"provident_fund_transaction",
	"bank_balance",
	"asset_price",
}

// CleanDatabase removes all rows from every ledger table.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	for _, table := range ledgerTables {
		//#nosec G202 -- Safe: table names are constants
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	//#nosec G202 -- Safe: only called from tests with constant table names
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return count
}
