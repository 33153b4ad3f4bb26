package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/database"
)

// TestMigrate verifies the embedded migrations build the ledger schema.
//
// WHY: the repositories assume every ledger table exists; a migration that
// silently fails would surface only as query errors at request time.
func TestMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	version, err := database.Migrate(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	t.Run("reports schema version", func(t *testing.T) {
		got, err := database.SchemaVersion(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, version, got)
	})

	t.Run("is idempotent", func(t *testing.T) {
		again, err := database.Migrate(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, version, again)
	})

	t.Run("creates ledger tables", func(t *testing.T) {
		for _, table := range []string{
			"stock_transaction",
			"mutual_fund_transaction",
			"nps_transaction",
			"provident_fund_transaction",
			"bank_balance",
			"asset_price",
		} {
			var name string
			err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
			assert.NoError(t, err, table)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)

	assert.NoError(t, database.HealthCheck(context.Background(), db))

	db.Close()
	assert.Error(t, database.HealthCheck(context.Background(), db))
}
