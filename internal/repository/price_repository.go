package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
)

// PriceRepository reads the current price of each asset from asset_price.
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// Prices returns the price map keyed by symbol or scheme name.
func (r *PriceRepository) Prices(ctx context.Context) (model.PriceMap, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT asset, price FROM asset_price`)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset_price table: %w", err)
	}
	defer rows.Close()

	prices := model.PriceMap{}
	for rows.Next() {
		var asset string
		var price sql.NullString
		if err := rows.Scan(&asset, &price); err != nil {
			return nil, fmt.Errorf("failed to scan asset_price results: %w", err)
		}
		prices[asset] = ParseAmount(price)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset_price table: %w", err)
	}

	return prices, nil
}
