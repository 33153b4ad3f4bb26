package apperrors

import "errors"

// Lookup errors indicate that a requested resource does not exist.
var (
	// ErrUnknownAssetClass indicates an asset class outside the fixed roster.
	ErrUnknownAssetClass = errors.New("unknown asset class")
)

// Infrastructure errors are failures of collaborators the engine depends on.
var (
	// ErrDataSourceUnavailable indicates the transaction store or price table
	// could not be read. It fails the whole request; no partial dashboard is
	// produced or cached.
	ErrDataSourceUnavailable = errors.New("data source unavailable")

	// ErrDatabaseUnavailable indicates the database did not answer a ping.
	ErrDatabaseUnavailable = errors.New("database unavailable")
)

// Computation errors wrap failures inside the valuation pipeline.
var (
	// ErrFailedToComputeDashboard wraps any non-classified failure of a dashboard computation.
	ErrFailedToComputeDashboard = errors.New("failed to compute dashboard")

	// ErrAggregationFailed indicates one asset class could not be aggregated.
	ErrAggregationFailed = errors.New("aggregation failed")
)
