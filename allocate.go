package dca

import "github.com/shopspring/decimal"

// Allocation is the purchase decided for one asset.
type Allocation struct {
	PricedAsset
	CurrentPercentage Percent
	Delta             decimal.Decimal // cash delta from Rebalance, before fee
	BuyQuantity       Quantity        // whole shares, never negative
}

// Spent is the cash paid for the shares, fee excluded.
func (a Allocation) Spent() decimal.Decimal {
	return a.Price.Mul(a.BuyQuantity).Decimal()
}

// FeeCharged is the asset's fee if it is bought, 0 otherwise.
func (a Allocation) FeeCharged() decimal.Decimal {
	if a.BuyQuantity.IsPositive() {
		return a.Fee.Decimal()
	}
	return decimal.Zero
}

// CurrentPercentages returns each asset's share of the portfolio value, in percent.
// All zeros for an empty portfolio value.
func CurrentPercentages(assets []PricedAsset) []Percent {
	values := make([]decimal.Decimal, len(assets))
	for i, a := range assets {
		values[i] = a.Value().Decimal()
	}
	total := decimal.Sum(decimal.Zero, values...)
	res := make([]Percent, len(assets))
	for i, v := range values {
		res[i] = Percent{value: safeDiv(v.Mul(hundred), total)}
	}
	return res
}

// Allocate turns cash deltas into whole share purchases.
//
// The fee is taken from the delta of any asset with a non-zero delta, and the
// remaining cash buys floor(cash/price) shares, or none when that is not positive.
func Allocate(assets []PricedAsset, deltas []decimal.Decimal) []Allocation {
	current := CurrentPercentages(assets)
	res := make([]Allocation, len(assets))
	for i, a := range assets {
		net := decimal.Zero
		if !deltas[i].IsZero() {
			net = deltas[i].Sub(a.Fee.Decimal())
		}
		qty := M(net, a.Price.Currency()).DivPrice(a.Price).Floor()
		if qty.IsNegative() {
			qty = Quantity{}
		}
		res[i] = Allocation{
			PricedAsset:       a,
			CurrentPercentage: current[i],
			Delta:             deltas[i],
			BuyQuantity:       qty,
		}
	}
	return res
}

// Leftover is the cash not spent on shares by allocs: the increment plus what
// the sells release, minus the shares bought. Fees are reported apart and do not
// reduce it.
func Leftover(increment decimal.Decimal, allocs []Allocation) decimal.Decimal {
	left := increment
	for _, a := range allocs {
		if a.Delta.IsNegative() {
			left = left.Sub(a.Delta)
		}
		left = left.Sub(a.Spent())
	}
	return left
}
