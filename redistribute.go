package dca

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RedistributionEpsilon is added to the desired percentage in the priority key
// current/desired of Redistribute, so a 0% target does not divide by zero.
// It is not a tuning knob.
var RedistributionEpsilon = decimal.New(1, -2)

// priority ranks the most under-target assets first. The current percentage is
// compared at the precision it is displayed with.
func priority(a Allocation) decimal.Decimal {
	return a.CurrentPercentage.Round2().Decimal().Div(a.DesiredPercentage.Decimal().Add(RedistributionEpsilon))
}

// Redistribute spends leftover on extra whole shares and returns what remains,
// rounded to the cent.
//
// Assets are visited once, most under-target first; each asset already being
// bought takes as many extra shares as leftover still pays for. Assets with no
// purchase are skipped, however cheap. allocs keeps its order.
//
// This is a single pass greedy: leftover may still afford a share of an asset
// visited earlier.
func Redistribute(allocs []Allocation, leftover decimal.Decimal) decimal.Decimal {
	order := make([]int, len(allocs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return priority(allocs[order[i]]).LessThan(priority(allocs[order[j]]))
	})

	for _, i := range order {
		a := &allocs[i]
		if !a.BuyQuantity.IsPositive() {
			continue
		}
		extra := M(leftover, a.Price.Currency()).DivPrice(a.Price).Floor()
		if !extra.IsPositive() {
			continue
		}
		leftover = leftover.Sub(a.Price.Mul(extra).Decimal())
		a.BuyQuantity = a.BuyQuantity.Add(extra)
	}
	return leftover.Round(currencyPlaces)
}
