package aggregator

import (
	"context"
	"time"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
)

// PlaceholderAggregator reports a zero result for classes without a backing
// table, such as fixed deposits.
type PlaceholderAggregator struct {
	AssetClass model.AssetClass
}

func (a PlaceholderAggregator) Class() model.AssetClass { return a.AssetClass }

func (a PlaceholderAggregator) Aggregate(context.Context, DataSource, PriceLookup, time.Time) (Result, error) {
	return Empty(a.AssetClass), nil
}
