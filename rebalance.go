package dca

import "github.com/shopspring/decimal"

// currencyPlaces is the precision deltas are reported with.
const currencyPlaces = 2

// safeDiv returns n/d, or 0 when d is 0.
func safeDiv(n, d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}
	return n.Div(d)
}

func round(values []decimal.Decimal) []decimal.Decimal {
	res := make([]decimal.Decimal, len(values))
	for i, v := range values {
		res[i] = v.Round(currencyPlaces)
	}
	return res
}

// targetDeltas is TargetDeltas without rounding.
func targetDeltas(values, percentages []decimal.Decimal, increment decimal.Decimal) []decimal.Decimal {
	total := decimal.Sum(increment, values...)
	deltas := make([]decimal.Decimal, len(values))
	for i, v := range values {
		deltas[i] = total.Mul(percentages[i]).Div(hundred).Sub(v)
	}
	return deltas
}

// buyOnly is BuyOnly without rounding.
func buyOnly(deltas []decimal.Decimal, increment decimal.Decimal) []decimal.Decimal {
	positive := make([]decimal.Decimal, len(deltas))
	total := decimal.Zero
	for i, d := range deltas {
		positive[i] = decimal.Max(d, decimal.Zero)
		total = total.Add(positive[i])
	}
	res := make([]decimal.Decimal, len(deltas))
	if total.IsZero() {
		// no asset is under target: nothing to allocate.
		for i := range res {
			res[i] = decimal.Zero
		}
		return res
	}
	for i, d := range positive {
		res[i] = safeDiv(d, total).Mul(increment)
	}
	return res
}

// TargetDeltas returns, for each asset, the cash it needs to receive (positive)
// or shed (negative) to sit exactly at its target share of the portfolio once
// increment has been added.
//
// Before rounding the deltas sum to increment.
func TargetDeltas(values, percentages []decimal.Decimal, increment decimal.Decimal) []decimal.Decimal {
	return round(targetDeltas(values, percentages, increment))
}

// BuyOnly drops the sells from deltas and scales the remaining buys so they sum
// to increment, keeping their relative weights.
//
// If no delta is positive, every returned delta is zero and the increment is
// left unallocated.
func BuyOnly(deltas []decimal.Decimal, increment decimal.Decimal) []decimal.Decimal {
	return round(buyOnly(deltas, increment))
}

// Rebalance validates the inputs and returns the per asset cash deltas rounded to
// the cent, restricted to buys when onlyBuy is set.
func Rebalance(onlyBuy bool, increment decimal.Decimal, values, percentages []decimal.Decimal) ([]decimal.Decimal, error) {
	if err := Validate(increment, values, percentages); err != nil {
		return nil, err
	}
	deltas := targetDeltas(values, percentages, increment)
	if onlyBuy {
		deltas = buyOnly(deltas, increment)
	}
	return round(deltas), nil
}
