package dca

import (
	"context"

	"github.com/shopspring/decimal"
)

// Line is the plan for one asset.
type Line struct {
	Ticker            string
	CurrentPercentage Percent
	DesiredPercentage Percent
	Shares            Quantity
	RebalanceAmount   Money // cash delta, before fee
	Price             Money
	Fee               Money
	BuyQuantity       Quantity
}

// Result is the outcome of a plan computation.
type Result struct {
	Currency  string
	OnlyBuy   bool
	Lines     []Line // in portfolio order
	TotalFees Money  // fees of the assets actually bought
	Change    Money  // cash not spent on shares, fees are not deducted
}

// Plan resolves the portfolio prices with prices and computes the plan.
//
// Manual prices set in the input take precedence over prices. Prices are
// fetched concurrently, at most limit at a time.
func Plan(ctx context.Context, in Input, prices PriceProvider, limit int) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	found, err := FetchPrices(ctx, Chain{in.ManualPrices(), prices}, in.Tickers(), limit)
	if err != nil {
		return nil, err
	}
	cur := in.currency()
	resolved := make(map[string]Money, len(found))
	for ticker, p := range found {
		resolved[ticker] = M(p, cur)
	}
	return Compute(in, resolved)
}

func (in Input) currency() string {
	if in.Currency == "" {
		return DefaultCurrency
	}
	return in.Currency
}

// Compute builds the plan from already resolved prices. It is a pure function
// of its inputs.
func Compute(in Input, prices map[string]Money) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	assets, err := in.price(prices)
	if err != nil {
		return nil, err
	}

	values := make([]decimal.Decimal, len(assets))
	percentages := make([]decimal.Decimal, len(assets))
	for i, a := range assets {
		values[i] = a.Value().Decimal()
		percentages[i] = a.DesiredPercentage.Decimal()
	}
	increment := in.Increment.Decimal()
	deltas, err := Rebalance(in.OnlyBuy, increment, values, percentages)
	if err != nil {
		return nil, err
	}

	allocs := Allocate(assets, deltas)
	// rounding deltas to the cent may overshoot by a cent or two.
	leftover := decimal.Max(Leftover(increment, allocs), decimal.Zero)
	if in.OnlyBuy {
		leftover = Redistribute(allocs, leftover)
	}

	cur := in.currency()
	res := &Result{
		Currency:  cur,
		OnlyBuy:   in.OnlyBuy,
		Lines:     make([]Line, len(allocs)),
		TotalFees: M(0, cur),
		Change:    M(leftover.Round(currencyPlaces), cur),
	}
	for i, a := range allocs {
		res.TotalFees = res.TotalFees.Add(M(a.FeeCharged(), cur))
		res.Lines[i] = Line{
			Ticker:            a.Ticker,
			CurrentPercentage: a.CurrentPercentage.Round2(),
			DesiredPercentage: a.DesiredPercentage,
			Shares:            a.Shares,
			RebalanceAmount:   M(a.Delta, cur),
			Price:             M(a.Price.Decimal(), cur),
			Fee:               M(a.Fee.Decimal(), cur),
			BuyQuantity:       a.BuyQuantity,
		}
	}
	return res, nil
}
