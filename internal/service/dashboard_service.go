package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/aggregator"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/cache"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard-Backend/internal/xirr"
)

const dashboardCacheKey = "dashboard"

func classCacheKey(class model.AssetClass) string {
	return dashboardCacheKey + ":" + string(class)
}

// DataSource is the transaction store read by the aggregators.
type DataSource interface {
	aggregator.DataSource
	Ping(ctx context.Context) error
}

// PriceSource loads the current price of every known asset.
type PriceSource interface {
	Prices(ctx context.Context) (model.PriceMap, error)
}

// DashboardService builds the portfolio dashboard by fanning out to one
// aggregator per asset class and merging their results.
type DashboardService struct {
	source   DataSource
	prices   PriceSource
	registry *aggregator.Registry
	cache    *cache.Cache
	ttl      time.Duration
	now      func() time.Time
	log      *logrus.Entry
}

// DashboardOption customizes a DashboardService.
type DashboardOption func(*DashboardService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) DashboardOption {
	return func(s *DashboardService) {
		s.now = now
	}
}

// WithRegistry replaces the default aggregator registry.
func WithRegistry(registry *aggregator.Registry) DashboardOption {
	return func(s *DashboardService) {
		s.registry = registry
	}
}

// NewDashboardService creates a DashboardService. Results are memoized in c
// for ttl; a ttl of zero or less disables caching.
func NewDashboardService(
	source DataSource,
	prices PriceSource,
	c *cache.Cache,
	ttl time.Duration,
	log *logrus.Logger,
	opts ...DashboardOption,
) *DashboardService {
	s := &DashboardService{
		source:   source,
		prices:   prices,
		registry: aggregator.DefaultRegistry(),
		cache:    c,
		ttl:      ttl,
		now:      time.Now,
		log:      log.WithField("component", "dashboard_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetDashboard returns the cached dashboard, computing it on a miss.
func (s *DashboardService) GetDashboard(ctx context.Context) (model.Dashboard, cache.Status, error) {
	return cache.Fetch(s.cache, dashboardCacheKey, s.ttl, func() (model.Dashboard, error) {
		return s.ComputeDashboard(ctx)
	})
}

// Refresh drops every cached result and recomputes the dashboard.
func (s *DashboardService) Refresh(ctx context.Context) (model.Dashboard, error) {
	s.cache.Clear()
	dashboard, _, err := s.GetDashboard(ctx)
	return dashboard, err
}

// ClearCache drops every cached result.
func (s *DashboardService) ClearCache() {
	s.cache.Clear()
	s.log.Info("dashboard cache cleared")
}

// ComputeDashboard aggregates every asset class and merges the results into
// one row per class of model.Roster plus a portfolio summary.
//
// A failing class is reported as a zero row and listed in FailedClasses. A
// data source that cannot be reached fails the whole computation.
func (s *DashboardService) ComputeDashboard(ctx context.Context) (model.Dashboard, error) {
	prices, err := s.loadPrices(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}

	asOf := s.asOf()
	aggregators := s.registry.All()
	results := make([]aggregator.Result, len(aggregators))
	errs := make([]error, len(aggregators))

	var g errgroup.Group
	g.SetLimit(len(aggregators))
	for i, agg := range aggregators {
		i, agg := i, agg
		g.Go(func() error {
			results[i], errs[i] = s.runAggregator(ctx, agg, prices, asOf)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return model.Dashboard{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeDashboard, err)
	}

	byClass := make(map[model.AssetClass]aggregator.Result, len(results))
	var failed []model.AssetClass
	for i, agg := range aggregators {
		if errs[i] != nil {
			s.log.WithError(errs[i]).WithField("asset_class", agg.Class()).Warn("asset class aggregation failed, reporting zero row")
			failed = append(failed, agg.Class())
			byClass[agg.Class()] = aggregator.Empty(agg.Class())
			continue
		}
		byClass[agg.Class()] = results[i]
	}

	dashboard := buildDashboard(byClass)
	dashboard.FailedClasses = failed
	dashboard.Timestamp = s.now().UTC().Format(time.RFC3339)
	return dashboard, nil
}

// GetClassHoldings returns the holdings of one asset class, cached per class.
func (s *DashboardService) GetClassHoldings(ctx context.Context, class model.AssetClass) (model.ClassHoldings, cache.Status, error) {
	if !isRosterClass(class) {
		return model.ClassHoldings{}, cache.Miss, fmt.Errorf("%w: %s", apperrors.ErrUnknownAssetClass, class)
	}
	return cache.Fetch(s.cache, classCacheKey(class), s.ttl, func() (model.ClassHoldings, error) {
		return s.computeClassHoldings(ctx, class)
	})
}

func (s *DashboardService) computeClassHoldings(ctx context.Context, class model.AssetClass) (model.ClassHoldings, error) {
	prices, err := s.loadPrices(ctx)
	if err != nil {
		return model.ClassHoldings{}, err
	}

	asOf := s.asOf()
	result := aggregator.Empty(class)
	if agg, ok := s.registry.Get(class); ok {
		result, err = s.runAggregator(ctx, agg, prices, asOf)
		if err != nil {
			return model.ClassHoldings{}, err
		}
	}

	holdings := make([]model.Holding, 0, len(result.Holdings))
	for _, h := range result.Holdings {
		holdings = append(holdings, roundHolding(h))
	}

	return model.ClassHoldings{
		Class:         class,
		Label:         class.Label(),
		MarketValue:   round(result.MarketValue),
		InvestedValue: round(result.Invested),
		SimpleProfit:  round(result.MarketValue - result.Invested),
		RealizedGain:  round(result.RealizedGain),
		XIRR:          round(xirr.Solve(result.Cashflows)),
		Anomalies:     result.Anomalies,
		Holdings:      holdings,
		AsOf:          asOf.Format("2006-01-02"),
		Timestamp:     s.now().UTC().Format(time.RFC3339),
	}, nil
}

// loadPrices checks the store is reachable and loads the price map.
func (s *DashboardService) loadPrices(ctx context.Context) (model.PriceMap, error) {
	if err := s.source.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDataSourceUnavailable, err)
	}
	prices, err := s.prices.Prices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrDataSourceUnavailable, err)
	}
	return prices, nil
}

// asOf is today in UTC. Terminal valuation cashflows are dated here, so two
// computations on the same day over the same data give identical rates.
func (s *DashboardService) asOf() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

func (s *DashboardService) runAggregator(
	ctx context.Context,
	agg aggregator.AssetAggregator,
	prices model.PriceMap,
	asOf time.Time,
) (result aggregator.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", apperrors.ErrAggregationFailed, agg.Class(), r)
		}
	}()

	start := time.Now()
	result, err = agg.Aggregate(ctx, s.source, prices, asOf)
	if err != nil {
		return aggregator.Result{}, fmt.Errorf("%w: %s: %w", apperrors.ErrAggregationFailed, agg.Class(), err)
	}
	if result.Holdings == nil {
		result.Holdings = []model.Holding{}
	}
	result.Class = agg.Class()

	s.log.WithFields(logrus.Fields{
		"asset_class": agg.Class(),
		"holdings":    len(result.Holdings),
		"anomalies":   result.Anomalies,
		"duration":    time.Since(start).String(),
	}).Debug("asset class aggregated")
	if result.Anomalies > 0 {
		s.log.WithFields(logrus.Fields{
			"asset_class": agg.Class(),
			"anomalies":   result.Anomalies,
		}).Warn("sales exceeded open quantity; excess was dropped")
	}
	return result, nil
}

// buildDashboard merges per-class results into rows in roster order. Classes
// without a result get a zero row.
func buildDashboard(byClass map[model.AssetClass]aggregator.Result) model.Dashboard {
	var totalMarket, totalInvested, totalRealized float64
	var flows []xirr.Cashflow
	for _, class := range model.Roster {
		r, ok := byClass[class]
		if !ok {
			continue
		}
		totalMarket += r.MarketValue
		totalInvested += r.Invested
		totalRealized += r.RealizedGain
		flows = append(flows, r.Cashflows...)
	}

	rows := make([]model.DashboardRow, 0, len(model.Roster))
	for _, class := range model.Roster {
		r, ok := byClass[class]
		if !ok {
			r = aggregator.Empty(class)
		}
		profit := r.MarketValue - r.Invested
		rows = append(rows, model.DashboardRow{
			Class:               class,
			Label:               class.Label(),
			MarketValue:         round(r.MarketValue),
			InvestedValue:       round(r.Invested),
			SimpleProfit:        round(profit),
			SimpleProfitPercent: round(percentOf(profit, r.Invested)),
			MarketAllocation:    percentOf(r.MarketValue, totalMarket),
			InvestedAllocation:  percentOf(r.Invested, totalInvested),
			RealizedGain:        round(r.RealizedGain),
			XIRR:                round(xirr.Solve(r.Cashflows)),
			Holdings:            len(r.Holdings),
			Anomalies:           r.Anomalies,
		})
	}

	totalProfit := totalMarket - totalInvested
	return model.Dashboard{
		Rows: rows,
		Summary: model.DashboardSummary{
			TotalMarketValue:   round(totalMarket),
			TotalInvestedValue: round(totalInvested),
			TotalProfit:        round(totalProfit),
			ProfitPercent:      round(percentOf(totalProfit, totalInvested)),
			TotalRealizedGain:  round(totalRealized),
			XIRR:               round(xirr.Solve(flows)),
		},
	}
}

func roundHolding(h model.Holding) model.Holding {
	h.AverageCost = round(h.AverageCost)
	h.InvestedValue = round(h.InvestedValue)
	h.MarketValue = round(h.MarketValue)
	h.UnrealizedGain = round(h.UnrealizedGain)
	h.RealizedGain = round(h.RealizedGain)
	h.Interest = round(h.Interest)
	h.XIRR = round(h.XIRR)
	return h
}

func isRosterClass(class model.AssetClass) bool {
	for _, c := range model.Roster {
		if c == class {
			return true
		}
	}
	return false
}
