package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/cache"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/service"
)

// FixedNow is the clock used by NewTestDashboardService.
var FixedNow = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

// NewTestDashboardService wires a DashboardService over db with a fresh
// cache, a 10 minute ttl, a silent logger and the FixedNow clock.
func NewTestDashboardService(t *testing.T, db *sql.DB, opts ...service.DashboardOption) *service.DashboardService {
	t.Helper()

	log := logger.Discard()
	opts = append([]service.DashboardOption{service.WithClock(func() time.Time { return FixedNow })}, opts...)
	return service.NewDashboardService(
		repository.NewLedgerRepository(db, log),
		repository.NewPriceRepository(db),
		cache.New(),
		10*time.Minute,
		log,
		opts...,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}
