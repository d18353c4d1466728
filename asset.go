package dca

import (
	"errors"
	"fmt"
)

// Asset is one line of the portfolio as the investor describes it.
type Asset struct {
	Ticker            string
	DesiredPercentage Percent
	Shares            Quantity
	// Fee is charged only when the asset is actually bought.
	Fee Money
	// Price overrides the price provider when set.
	Price *Money
}

// PricedAsset is an Asset with its current price.
type PricedAsset struct {
	Asset
	Price Money
}

// NewPricedAsset attaches price to a. The price must be positive.
func NewPricedAsset(a Asset, price Money) (PricedAsset, error) {
	if !price.IsPositive() {
		return PricedAsset{}, &MissingPriceError{Ticker: a.Ticker, Err: fmt.Errorf("non-positive price %s", price.Decimal())}
	}
	return PricedAsset{Asset: a, Price: price}, nil
}

// Value is the current market value of the holding.
func (a PricedAsset) Value() Money { return a.Price.Mul(a.Shares) }

// Input is a full request: the portfolio, the cash to invest and the mode.
type Input struct {
	OnlyBuy   bool
	Increment Money
	Currency  string
	Portfolio []Asset
}

// Tickers returns the portfolio tickers in order.
func (in Input) Tickers() []string {
	res := make([]string, len(in.Portfolio))
	for i, a := range in.Portfolio {
		res[i] = a.Ticker
	}
	return res
}

// ManualPrices returns the prices set directly in the input.
func (in Input) ManualPrices() StaticPrices {
	res := make(StaticPrices)
	for _, a := range in.Portfolio {
		if a.Price != nil {
			res[a.Ticker] = a.Price.Decimal()
		}
	}
	return res
}

// price applies prices to the portfolio.
func (in Input) price(prices map[string]Money) ([]PricedAsset, error) {
	res := make([]PricedAsset, 0, len(in.Portfolio))
	for _, a := range in.Portfolio {
		p, exists := prices[a.Ticker]
		if !exists && a.Price != nil {
			p, exists = *a.Price, true
		}
		if !exists {
			return nil, &MissingPriceError{Ticker: a.Ticker, Err: errors.New("no price")}
		}
		pa, err := NewPricedAsset(a, p)
		if err != nil {
			return nil, err
		}
		res = append(res, pa)
	}
	return res, nil
}
