package dca

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Validate checks the raw inputs of Rebalance.
//
// It fails with an *InvalidInputError when increment is negative, when values
// and percentages differ in length or are empty, when any of them is negative,
// or when percentages do not sum to 100 once rounded to 2 decimals.
//
// Non-numeric entries cannot reach this point in Go, they are rejected while
// decoding the input (see DecodeInput and ParseDecimal).
func Validate(increment decimal.Decimal, values, percentages []decimal.Decimal) error {
	if increment.IsNegative() {
		return invalid("increment", "must be a non-negative number, got %s", increment)
	}
	if len(values) != len(percentages) {
		return invalid("", "%d values for %d percentages", len(values), len(percentages))
	}
	if len(values) == 0 {
		return invalid("portfolio", "is empty")
	}
	total := decimal.Zero
	for i := range values {
		if values[i].IsNegative() {
			return invalid(fmt.Sprintf("values[%d]", i), "must be non-negative, got %s", values[i])
		}
		if percentages[i].IsNegative() {
			return invalid(fmt.Sprintf("percentages[%d]", i), "must be non-negative, got %s", percentages[i])
		}
		total = total.Add(percentages[i])
	}
	if !total.Round(2).Equal(hundred) {
		return invalid("percentages", "sum to %s, want 100", total)
	}
	return nil
}

// Validate checks everything Compute needs that does not depend on prices.
func (in Input) Validate() error {
	if in.Currency != "" && money.GetCurrency(in.Currency) == nil {
		return invalid("currency", "unknown currency %q", in.Currency)
	}
	if in.Increment.IsNegative() {
		return invalid("increment", "must be a non-negative number, got %s", in.Increment.Decimal())
	}
	if len(in.Portfolio) == 0 {
		return invalid("portfolio", "is empty")
	}
	seen := make(map[string]int)
	total := decimal.Zero
	for i, a := range in.Portfolio {
		field := fmt.Sprintf("portfolio[%d]", i)
		if a.Ticker == "" {
			return invalid(field+".ticker", "is required")
		}
		if j, exists := seen[a.Ticker]; exists {
			return invalid(field+".ticker", "%q already used by portfolio[%d]", a.Ticker, j)
		}
		seen[a.Ticker] = i
		if a.Shares.IsNegative() {
			return invalid(field+".shares", "must be non-negative, got %s", a.Shares)
		}
		if a.Fee.IsNegative() {
			return invalid(field+".fee", "must be non-negative, got %s", a.Fee.Decimal())
		}
		if a.DesiredPercentage.IsNegative() {
			return invalid(field+".desiredPercentage", "must be non-negative, got %s", a.DesiredPercentage)
		}
		if a.Price != nil && !a.Price.IsPositive() {
			return invalid(field+".price", "must be positive, got %s", a.Price.Decimal())
		}
		total = total.Add(a.DesiredPercentage.Decimal())
	}
	if !total.Round(2).Equal(hundred) {
		return invalid("portfolio", "desired percentages sum to %s, want 100", total)
	}
	return nil
}
