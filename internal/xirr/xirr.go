// Package xirr computes the annualized internal rate of return of a series of
// irregularly dated cashflows.
package xirr

import (
	"math"
	"slices"
	"time"
)

const (
	lowerBound = -0.9999
	upperBound = 100.0
	iterations = 100
	tolerance  = 1e-6
	daysInYear = 365.0
)

// Cashflow is a dated amount. Investments are negative, money coming back
// (sale proceeds, the current valuation) is positive.
type Cashflow struct {
	Date   time.Time
	Amount float64
}

// Solve returns the annualized rate of return of flows, in percent.
//
// It needs at least two nonzero flows with a valid date, spread over more than
// one instant; otherwise it returns 0. Flows that all share one date have no
// time to annualize over. The root is found by bisection over
// (-99.99%, 10000%) for a fixed 100 iterations, stopping early once
// |NPV| < 1e-6.
//
// Solve assumes the NPV decreases as the rate grows, which holds for a
// sequence that switches sign once (outflows followed by a positive terminal
// value). Sequences with several sign changes may have several roots or none;
// Solve then returns some point of the search interval. When the tolerance is
// not reached the last midpoint is returned as an approximation.
func Solve(flows []Cashflow) float64 {
	valid := make([]Cashflow, 0, len(flows))
	for _, f := range flows {
		if f.Amount == 0 || f.Date.IsZero() || math.IsNaN(f.Amount) || math.IsInf(f.Amount, 0) {
			continue
		}
		valid = append(valid, f)
	}
	if len(valid) < 2 {
		return 0
	}

	byDate := func(a, b Cashflow) int {
		return a.Date.Compare(b.Date)
	}
	first := slices.MinFunc(valid, byDate).Date
	if !slices.MaxFunc(valid, byDate).Date.After(first) {
		return 0
	}

	years := make([]float64, len(valid))
	for i, f := range valid {
		years[i] = f.Date.Sub(first).Hours() / 24 / daysInYear
	}

	npv := func(rate float64) float64 {
		var total float64
		for i, f := range valid {
			total += f.Amount / math.Pow(1+rate, years[i])
		}
		return total
	}

	lo, hi := lowerBound, upperBound
	var mid float64
	for n := 0; n < iterations; n++ {
		mid = (lo + hi) / 2
		value := npv(mid)
		if math.Abs(value) < tolerance {
			break
		}
		if value > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return mid * 100
}
