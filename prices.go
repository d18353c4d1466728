package dca

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// PriceProvider returns the current price of a ticker.
type PriceProvider interface {
	Price(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// PriceFunc adapts a function to a PriceProvider.
type PriceFunc func(ctx context.Context, ticker string) (decimal.Decimal, error)

func (f PriceFunc) Price(ctx context.Context, ticker string) (decimal.Decimal, error) {
	return f(ctx, ticker)
}

// StaticPrices is a fixed set of prices.
type StaticPrices map[string]decimal.Decimal

func (s StaticPrices) Price(_ context.Context, ticker string) (decimal.Decimal, error) {
	p, exists := s[ticker]
	if !exists {
		return decimal.Zero, fmt.Errorf("%q: %w", ticker, ErrUnknownTicker)
	}
	return p, nil
}

// Chain asks each provider in turn and returns the first price found.
// Only ErrUnknownTicker moves on to the next provider, any other error is returned.
type Chain []PriceProvider

func (c Chain) Price(ctx context.Context, ticker string) (decimal.Decimal, error) {
	for _, p := range c {
		price, err := p.Price(ctx, ticker)
		if errors.Is(err, ErrUnknownTicker) {
			continue
		}
		return price, err
	}
	return decimal.Zero, fmt.Errorf("%q: %w", ticker, ErrUnknownTicker)
}

// CachedPrices memoizes successful answers of a provider.
// It is safe for concurrent use.
type CachedPrices struct {
	provider PriceProvider
	mu       sync.Mutex
	prices   map[string]decimal.Decimal
}

// NewCachedPrices wraps p.
func NewCachedPrices(p PriceProvider) *CachedPrices {
	return &CachedPrices{provider: p, prices: make(map[string]decimal.Decimal)}
}

func (c *CachedPrices) Price(ctx context.Context, ticker string) (decimal.Decimal, error) {
	c.mu.Lock()
	p, exists := c.prices[ticker]
	c.mu.Unlock()
	if exists {
		return p, nil
	}
	p, err := c.provider.Price(ctx, ticker)
	if err != nil {
		return p, err
	}
	c.mu.Lock()
	c.prices[ticker] = p
	c.mu.Unlock()
	return p, nil
}

// Reset forgets every cached price.
func (c *CachedPrices) Reset() {
	c.mu.Lock()
	clear(c.prices)
	c.mu.Unlock()
}

// FetchPrices gets the price of every ticker from p, at most limit at a time
// (no bound when limit <= 0).
//
// The first failure cancels the remaining calls and is returned as a
// *MissingPriceError. A zero or negative price is a failure too.
func FetchPrices(ctx context.Context, p PriceProvider, tickers []string, limit int) (map[string]decimal.Decimal, error) {
	prices := make([]decimal.Decimal, len(tickers))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, ticker := range tickers {
		g.Go(func() error {
			price, err := p.Price(ctx, ticker)
			if err != nil {
				return &MissingPriceError{Ticker: ticker, Err: err}
			}
			if !price.IsPositive() {
				return &MissingPriceError{Ticker: ticker, Err: fmt.Errorf("non-positive price %s", price)}
			}
			prices[i] = price
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res := make(map[string]decimal.Decimal, len(tickers))
	for i, ticker := range tickers {
		res[ticker] = prices[i]
	}
	return res, nil
}
