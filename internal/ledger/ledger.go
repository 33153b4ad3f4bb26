// Package ledger implements FIFO lot tracking for unit-priced holdings such as
// stocks, ETFs, mutual funds and retirement-scheme units.
//
// Trades are applied in date order. A buy opens a new lot; a sale consumes the
// oldest open lots first. The ledger never holds negative inventory: quantity
// sold beyond what is open is dropped and reported as an Anomaly.
package ledger

import (
	"math"
	"slices"
	"strings"
	"time"
)

// Epsilon is the quantity below which a lot is considered fully consumed.
const Epsilon = 1e-9

// PriceLookup resolves the current market price of an asset. Unknown assets
// must return 0.
type PriceLookup interface {
	Price(asset string) float64
}

// Trade is a single unit movement fed into the ledger.
type Trade struct {
	Asset    string
	Account  string
	Kind     string
	Quantity float64 // negative quantities are always sales
	Price    float64 // unit cost for buys, unit proceeds for sales
	Date     time.Time
}

var saleKinds = []string{"sell", "redeem", "redemption", "switch-out", "withdraw", "exit"}

// IsSaleKind reports whether a transaction type tag denotes a disposal.
// Matching is case-insensitive and treats '_' and ' ' like '-'.
func IsSaleKind(kind string) bool {
	k := strings.ToLower(strings.TrimSpace(kind))
	k = strings.NewReplacer("_", "-", " ", "-").Replace(k)
	for _, s := range saleKinds {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// IsSale reports whether the trade consumes lots.
func (t Trade) IsSale() bool {
	return t.Quantity < 0 || IsSaleKind(t.Kind)
}

// Lot is an open acquisition slice.
type Lot struct {
	Quantity float64
	UnitCost float64
	Date     time.Time
	Seq      int // insertion sequence, tie-break for same-day lots
}

// Anomaly records a sale that asked for more than the open quantity.
type Anomaly struct {
	Asset     string
	Account   string
	Date      time.Time
	Requested float64
	Unmatched float64
}

type key struct {
	asset   string
	account string
}

type queue struct {
	lots     []Lot
	bought   float64
	sold     float64 // matched sales only
	realized float64
}

// Ledger tracks open lots per (asset, account). A Ledger is not safe for
// concurrent use; each aggregation owns its own.
type Ledger struct {
	queues    map[key]*queue
	order     []key
	seq       int
	anomalies []Anomaly
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{queues: make(map[key]*queue)}
}

// Apply sorts trades by date, keeping the input order for trades on the same
// day, and applies them. The input slice is not modified.
//
// The returned slice holds, per input index, the quantity the ledger actually
// took: the full quantity for buys, the matched part for sales.
//
// Callers pass the complete history of an asset in one call; trades applied in
// a later call are never re-ordered before earlier ones.
func (l *Ledger) Apply(trades []Trade) []float64 {
	order := make([]int, len(trades))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return trades[a].Date.Compare(trades[b].Date)
	})

	matched := make([]float64, len(trades))
	for _, i := range order {
		matched[i] = l.apply(trades[i])
	}
	return matched
}

func (l *Ledger) queue(asset, account string) *queue {
	k := key{asset: asset, account: account}
	q, ok := l.queues[k]
	if !ok {
		q = &queue{}
		l.queues[k] = q
		l.order = append(l.order, k)
	}
	return q
}

func (l *Ledger) apply(t Trade) float64 {
	qty := math.Abs(t.Quantity)
	if qty <= Epsilon {
		return 0
	}
	q := l.queue(t.Asset, t.Account)

	if !t.IsSale() {
		l.seq++
		q.lots = append(q.lots, Lot{Quantity: qty, UnitCost: t.Price, Date: t.Date, Seq: l.seq})
		q.bought += qty
		return qty
	}

	remaining := qty
	for remaining > Epsilon && len(q.lots) > 0 {
		front := &q.lots[0]
		consumed := min(remaining, front.Quantity)
		q.realized += consumed * (t.Price - front.UnitCost)
		front.Quantity -= consumed
		remaining -= consumed
		if front.Quantity <= Epsilon {
			q.lots = q.lots[1:]
		}
	}
	q.sold += qty - remaining

	if remaining > Epsilon {
		l.anomalies = append(l.anomalies, Anomaly{
			Asset:     t.Asset,
			Account:   t.Account,
			Date:      t.Date,
			Requested: qty,
			Unmatched: remaining,
		})
	}
	return qty - remaining
}

// Lots returns a copy of the open lots of one (asset, account) pair, oldest first.
func (l *Ledger) Lots(asset, account string) []Lot {
	q, ok := l.queues[key{asset: asset, account: account}]
	if !ok {
		return nil
	}
	return slices.Clone(q.lots)
}

// OpenQuantity returns the total open quantity of one (asset, account) pair.
func (l *Ledger) OpenQuantity(asset, account string) float64 {
	var total float64
	for _, lot := range l.Lots(asset, account) {
		total += lot.Quantity
	}
	return total
}

// Anomalies returns the oversold sales seen so far.
func (l *Ledger) Anomalies() []Anomaly {
	return slices.Clone(l.anomalies)
}

// RealizedGain returns the realized gain across every position, including
// positions that have been closed entirely.
func (l *Ledger) RealizedGain() float64 {
	var total float64
	for _, k := range l.order {
		total += l.queues[k].realized
	}
	return total
}
