package ledger

// Position aggregates the open lots of one (asset, account) pair at
// evaluation time.
type Position struct {
	Asset          string
	Account        string
	Quantity       float64
	CostBasis      float64
	AverageCost    float64
	Price          float64
	MarketValue    float64
	UnrealizedGain float64
	RealizedGain   float64
	Lots           []Lot
}

// Positions derives one Position per (asset, account) that still has open
// lots, in the order the pairs were first seen. Pairs without open lots are
// omitted. A missing price values the position at 0.
func (l *Ledger) Positions(prices PriceLookup) []Position {
	positions := make([]Position, 0, len(l.order))
	for _, k := range l.order {
		q := l.queues[k]
		if len(q.lots) == 0 {
			continue
		}

		var quantity, cost float64
		for _, lot := range q.lots {
			quantity += lot.Quantity
			cost += lot.Quantity * lot.UnitCost
		}
		if quantity <= Epsilon {
			continue
		}

		var price float64
		if prices != nil {
			price = prices.Price(k.asset)
		}
		value := quantity * price

		positions = append(positions, Position{
			Asset:          k.asset,
			Account:        k.account,
			Quantity:       quantity,
			CostBasis:      cost,
			AverageCost:    cost / quantity,
			Price:          price,
			MarketValue:    value,
			UnrealizedGain: value - cost,
			RealizedGain:   q.realized,
			Lots:           append([]Lot(nil), q.lots...),
		})
	}
	return positions
}

// Result is the outcome of a one-shot Apply.
type Result struct {
	Positions    []Position
	RealizedGain float64
	Anomalies    []Anomaly
	Matched      []float64 // per input trade, see Ledger.Apply
}

// Apply runs trades through a fresh ledger and values the open positions.
func Apply(trades []Trade, prices PriceLookup) Result {
	l := New()
	matched := l.Apply(trades)
	return Result{
		Matched:      matched,
		Positions:    l.Positions(prices),
		RealizedGain: l.RealizedGain(),
		Anomalies:    l.Anomalies(),
	}
}
