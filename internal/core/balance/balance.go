// Package balance derives monetary positions from ledger transactions.
//
// Every function is pure. Settlement state is not consulted: a settled
// transaction keeps contributing its full amount.
//
// Amounts are summed in ascending order so the result does not depend on the
// order of the input slice.
package balance

import (
	"sort"

	"github.com/ledgerbook/debt-ledger/internal/core/domain"
)

// Direction describes who owes whom for a signed balance.
type Direction string

const (
	OwesYou   Direction = "owes_you"
	YouOwe    Direction = "you_owe"
	SettledUp Direction = "settled_up"
)

// Summary groups the figures computed over one set of transactions.
type Summary struct {
	Balance       float64   `json:"balance"`
	TotalLent     float64   `json:"totalLent"`
	TotalBorrowed float64   `json:"totalBorrowed"`
	Direction     Direction `json:"direction"`
	Count         int       `json:"count"`
}

// BalanceOf sums +amount for lent and -amount for borrowed transactions.
// A positive result means the counterparty owes the ledger owner.
func BalanceOf(txs []domain.Transaction) float64 {
	return TotalLent(txs) - TotalBorrowed(txs)
}

// TotalLent sums the amounts of lent transactions.
func TotalLent(txs []domain.Transaction) float64 {
	return sum(txs, func(t domain.Transaction) (float64, bool) {
		return t.Amount, t.Type == domain.TypeLent
	})
}

// TotalBorrowed sums the amounts of borrowed transactions.
func TotalBorrowed(txs []domain.Transaction) float64 {
	return sum(txs, func(t domain.Transaction) (float64, bool) {
		return t.Amount, t.Type == domain.TypeBorrowed
	})
}

// AggregateBalance is BalanceOf applied to the whole ledger rather than one
// person's transactions.
func AggregateBalance(txs []domain.Transaction) float64 {
	return BalanceOf(txs)
}

// DirectionOf labels a signed balance.
func DirectionOf(b float64) Direction {
	switch {
	case b > 0:
		return OwesYou
	case b < 0:
		return YouOwe
	default:
		return SettledUp
	}
}

// Summarize computes every figure for txs at once.
func Summarize(txs []domain.Transaction) Summary {
	lent, borrowed := TotalLent(txs), TotalBorrowed(txs)
	b := lent - borrowed
	return Summary{
		Balance:       b,
		TotalLent:     lent,
		TotalBorrowed: borrowed,
		Direction:     DirectionOf(b),
		Count:         len(txs),
	}
}

// ByPerson partitions txs by person id and summarizes each group.
// People without transactions are absent from the result.
func ByPerson(txs []domain.Transaction) map[string]Summary {
	groups := make(map[string][]domain.Transaction)
	for _, t := range txs {
		groups[t.PersonID] = append(groups[t.PersonID], t)
	}
	out := make(map[string]Summary, len(groups))
	for id, g := range groups {
		out[id] = Summarize(g)
	}
	return out
}

func sum(txs []domain.Transaction, pick func(domain.Transaction) (float64, bool)) float64 {
	vals := make([]float64, 0, len(txs))
	for _, t := range txs {
		if v, ok := pick(t); ok {
			vals = append(vals, v)
		}
	}
	sort.Float64s(vals)
	var total float64
	for _, v := range vals {
		total += v
	}
	return total
}
