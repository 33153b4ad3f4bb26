package aggregator

import "github.com/ndewijer/Portfolio-Dashboard-Backend/internal/model"

// Registry holds one aggregator per asset class in a fixed order.
type Registry struct {
	aggregators []AssetAggregator
	byClass     map[model.AssetClass]AssetAggregator
}

// NewRegistry builds a registry. A later aggregator for an already registered
// class replaces the earlier one but keeps its position.
func NewRegistry(aggregators ...AssetAggregator) *Registry {
	r := &Registry{byClass: make(map[model.AssetClass]AssetAggregator, len(aggregators))}
	for _, a := range aggregators {
		if _, exists := r.byClass[a.Class()]; exists {
			for i, existing := range r.aggregators {
				if existing.Class() == a.Class() {
					r.aggregators[i] = a
				}
			}
		} else {
			r.aggregators = append(r.aggregators, a)
		}
		r.byClass[a.Class()] = a
	}
	return r
}

// DefaultRegistry returns the aggregators for every class of model.Roster.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewEquityAggregator(model.ClassStock),
		NewEquityAggregator(model.ClassETF),
		MutualFundAggregator{},
		RetirementSchemeAggregator{},
		NewProvidentFundAggregator(model.ClassProvidentFund, "epf", "ppf", "vpf"),
		NewProvidentFundAggregator(model.ClassPensionFund, "pension", "eps"),
		BankAggregator{},
		PlaceholderAggregator{AssetClass: model.ClassFixedDeposit},
	)
}

// All returns the registered aggregators in registration order.
func (r *Registry) All() []AssetAggregator {
	return append([]AssetAggregator(nil), r.aggregators...)
}

// Get returns the aggregator registered for class.
func (r *Registry) Get(class model.AssetClass) (AssetAggregator, bool) {
	a, ok := r.byClass[class]
	return a, ok
}
