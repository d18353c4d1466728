package dca

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	boom := errors.New("boom")
	first := StaticPrices{"A": decimal.NewFromInt(1)}
	second := PriceFunc(func(_ context.Context, ticker string) (decimal.Decimal, error) {
		if ticker == "B" {
			return decimal.NewFromInt(2), nil
		}
		if ticker == "C" {
			return decimal.Zero, boom
		}
		return decimal.Zero, ErrUnknownTicker
	})
	chain := Chain{first, second}

	p, err := chain.Price(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "1", p.String())

	p, err = chain.Price(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, "2", p.String())

	_, err = chain.Price(context.Background(), "C")
	assert.ErrorIs(t, err, boom)

	_, err = chain.Price(context.Background(), "D")
	assert.ErrorIs(t, err, ErrUnknownTicker)
}

func TestCachedPrices(t *testing.T) {
	var calls atomic.Int32
	c := NewCachedPrices(PriceFunc(func(_ context.Context, ticker string) (decimal.Decimal, error) {
		calls.Add(1)
		if ticker == "X" {
			return decimal.Zero, ErrUnknownTicker
		}
		return decimal.NewFromInt(42), nil
	}))
	for range 3 {
		p, err := c.Price(context.Background(), "A")
		require.NoError(t, err)
		assert.Equal(t, "42", p.String())
	}
	assert.Equal(t, int32(1), calls.Load())

	// failures are not cached.
	_, _ = c.Price(context.Background(), "X")
	_, _ = c.Price(context.Background(), "X")
	assert.Equal(t, int32(3), calls.Load())

	c.Reset()
	_, _ = c.Price(context.Background(), "A")
	assert.Equal(t, int32(4), calls.Load())
}

func TestFetchPrices(t *testing.T) {
	var running, peak atomic.Int32
	p := PriceFunc(func(ctx context.Context, ticker string) (decimal.Decimal, error) {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		return decimal.NewFromInt(int64(len(ticker))), nil
	})
	got, err := FetchPrices(context.Background(), p, []string{"A", "BB", "CCC", "DDDD", "EEEEE"}, 2)
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, "3", got["CCC"].String())
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestFetchPrices_NonPositive(t *testing.T) {
	_, err := FetchPrices(context.Background(), StaticPrices{"A": decimal.NewFromInt(-3)}, []string{"A"}, 0)
	var missing *MissingPriceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "A", missing.Ticker)

	_, err = FetchPrices(context.Background(), StaticPrices{}, []string{"Z"}, 0)
	require.ErrorAs(t, err, &missing)
	assert.ErrorIs(t, err, ErrUnknownTicker)
}
