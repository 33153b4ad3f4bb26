// Package accumulator keeps the running principal/interest balance of
// cash-only, interest-credited accounts such as provident and pension funds.
//
// Unlike the lot ledger there is no unit price: contributions grow the
// principal, interest credits grow the interest bucket and withdrawals drain
// interest before principal.
package accumulator

import (
	"math"
	"slices"
	"strings"
	"time"
)

// Kind classifies an accumulator entry.
type Kind int

const (
	Contribution Kind = iota
	Interest
	Withdrawal
)

func (k Kind) String() string {
	switch k {
	case Interest:
		return "interest"
	case Withdrawal:
		return "withdrawal"
	default:
		return "contribution"
	}
}

// ClassifyKind maps a raw transaction_type tag to a Kind. A negative amount is
// always a withdrawal; unknown tags count as contributions.
func ClassifyKind(tag string, amount float64) Kind {
	if amount < 0 {
		return Withdrawal
	}
	t := strings.ToLower(strings.TrimSpace(tag))
	switch {
	case strings.Contains(t, "interest"):
		return Interest
	case strings.Contains(t, "withdraw"), strings.Contains(t, "exit"), strings.Contains(t, "transfer_out"), strings.Contains(t, "transfer-out"):
		return Withdrawal
	default:
		return Contribution
	}
}

// Entry is one cash movement on an account.
type Entry struct {
	Date   time.Time
	Kind   Kind
	Amount float64
}

// State is the running (invested, interest) pair of one account.
type State struct {
	Invested float64
	Interest float64
}

// Balance returns principal plus interest.
func (s State) Balance() float64 {
	return s.Invested + s.Interest
}

// Apply folds a single entry into the state. Withdrawals consume interest
// first and then principal; neither bucket goes below zero.
func (s *State) Apply(e Entry) {
	amount := math.Abs(e.Amount)
	switch e.Kind {
	case Contribution:
		s.Invested += amount
	case Interest:
		s.Interest += amount
	case Withdrawal:
		fromInterest := min(amount, s.Interest)
		s.Interest -= fromInterest
		s.Invested = max(0, s.Invested-(amount-fromInterest))
	}
}

// Apply folds entries into a zero state in date order. Entries on the same
// day keep their input order.
func Apply(entries []Entry) State {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return a.Date.Compare(b.Date)
	})

	var s State
	for _, e := range sorted {
		s.Apply(e)
	}
	return s
}
