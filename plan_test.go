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

// fourAssets is the portfolio of the reference scenario: values 0, 40, 100, 100
// at a price of 10 for targets 60/20/10/10.
func fourAssets(onlyBuy bool) Input {
	return Input{
		OnlyBuy:   onlyBuy,
		Increment: M(100, "EUR"),
		Currency:  "EUR",
		Portfolio: []Asset{
			{Ticker: "A", DesiredPercentage: P(60), Shares: Q(0), Fee: M(0, "EUR")},
			{Ticker: "B", DesiredPercentage: P(20), Shares: Q(4), Fee: M(0, "EUR")},
			{Ticker: "C", DesiredPercentage: P(10), Shares: Q(10), Fee: M(0, "EUR")},
			{Ticker: "D", DesiredPercentage: P(10), Shares: Q(10), Fee: M(0, "EUR")},
		},
	}
}

func flatPrices(price float64, tickers ...string) map[string]Money {
	res := make(map[string]Money)
	for _, t := range tickers {
		res[t] = M(price, "EUR")
	}
	return res
}

func buys(r *Result) []int64 {
	res := make([]int64, len(r.Lines))
	for i, l := range r.Lines {
		res[i] = l.BuyQuantity.IntPart()
	}
	return res
}

func TestCompute(t *testing.T) {
	t.Run("with sells", func(t *testing.T) {
		r, err := Compute(fourAssets(false), flatPrices(10, "A", "B", "C", "D"))
		require.NoError(t, err)
		assert.Equal(t, []int64{20, 2, 0, 0}, buys(r))
		assert.Equal(t, "204", r.Lines[0].RebalanceAmount.Decimal().String())
		assert.Equal(t, "-66", r.Lines[3].RebalanceAmount.Decimal().String())
		// 100 invested plus 132 released by the sells, 220 spent.
		assert.Equal(t, "12", r.Change.Decimal().String())
	})

	t.Run("only buy", func(t *testing.T) {
		r, err := Compute(fourAssets(true), flatPrices(10, "A", "B", "C", "D"))
		require.NoError(t, err)
		// 8 and 1 shares, then the 10 left buy one more A, the most under target.
		assert.Equal(t, []int64{9, 1, 0, 0}, buys(r))
		assert.True(t, r.Change.IsZero())
		assert.Equal(t, "87.93", r.Lines[0].RebalanceAmount.Decimal().String())
		assert.Equal(t, "16.67", r.Lines[1].CurrentPercentage.Decimal().String())
	})
}

func TestCompute_Fees(t *testing.T) {
	in := Input{
		OnlyBuy:   true,
		Increment: M(1000, "EUR"),
		Portfolio: []Asset{
			{Ticker: "A", DesiredPercentage: P(50), Shares: Q(0), Fee: M(5, "EUR")},
			{Ticker: "B", DesiredPercentage: P(50), Shares: Q(10), Fee: M(1, "EUR")},
		},
	}
	r, err := Compute(in, map[string]Money{"A": M(90, "EUR"), "B": M(45, "EUR")})
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 6}, buys(r))
	assert.Equal(t, "6", r.TotalFees.Decimal().String())
	// 1000 minus 720 and 270 spent on shares; fees are reported apart.
	assert.Equal(t, "10", r.Change.Decimal().String())
	assert.Equal(t, DefaultCurrency, r.Currency)
}

func TestCompute_FeeMoneyBuysExtraShare(t *testing.T) {
	in := Input{
		OnlyBuy:   true,
		Increment: M(100, "EUR"),
		Portfolio: []Asset{
			{Ticker: "A", DesiredPercentage: P(100), Fee: M(5, "EUR")},
		},
	}
	r, err := Compute(in, map[string]Money{"A": M(10, "EUR")})
	require.NoError(t, err)
	// 95 net of fee buys 9 shares, the 10 left over buy one more.
	assert.Equal(t, []int64{10}, buys(r))
	assert.True(t, r.Change.IsZero(), "change %s", r.Change)
	assert.Equal(t, "5", r.TotalFees.Decimal().String())
}

func TestCompute_ChangeBelowPrices(t *testing.T) {
	in := Input{
		OnlyBuy:   true,
		Increment: M(1000, "EUR"),
		Portfolio: []Asset{
			{Ticker: "VWCE.DE", DesiredPercentage: P(60)},
			{Ticker: "VAGF.DE", DesiredPercentage: P(40)},
		},
	}
	r, err := Compute(in, map[string]Money{"VWCE.DE": M(118.42, "EUR"), "VAGF.DE": M(24.87, "EUR")})
	require.NoError(t, err)
	require.False(t, r.Change.IsNegative())
	for _, l := range r.Lines {
		if l.BuyQuantity.IsPositive() {
			assert.True(t, r.Change.LessThan(l.Price), "change %s should not afford %s at %s", r.Change, l.Ticker, l.Price)
		}
	}
}

func TestCompute_Errors(t *testing.T) {
	in := fourAssets(true)
	_, err := Compute(in, flatPrices(10, "A", "B", "C"))
	var missing *MissingPriceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "D", missing.Ticker)

	_, err = Compute(in, map[string]Money{"A": M(10, "EUR"), "B": M(10, "EUR"), "C": M(0, "EUR"), "D": M(10, "EUR")})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "C", missing.Ticker)

	in.Portfolio[0].DesiredPercentage = P(59)
	_, err = Compute(in, flatPrices(10, "A", "B", "C", "D"))
	var invalidErr *InvalidInputError
	require.ErrorAs(t, err, &invalidErr)
}

func TestInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(in *Input)
		field  string
	}{
		{"negative increment", func(in *Input) { in.Increment = M(-1, "EUR") }, "increment"},
		{"empty portfolio", func(in *Input) { in.Portfolio = nil }, "portfolio"},
		{"duplicate ticker", func(in *Input) { in.Portfolio[1].Ticker = "A" }, "portfolio[1].ticker"},
		{"missing ticker", func(in *Input) { in.Portfolio[2].Ticker = "" }, "portfolio[2].ticker"},
		{"negative shares", func(in *Input) { in.Portfolio[0].Shares = Q(-1) }, "portfolio[0].shares"},
		{"negative fee", func(in *Input) { in.Portfolio[0].Fee = M(-1, "EUR") }, "portfolio[0].fee"},
		{"unknown currency", func(in *Input) { in.Currency = "XYZ" }, "currency"},
		{"sum is 101", func(in *Input) { in.Portfolio[0].DesiredPercentage = P(61) }, "portfolio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fourAssets(true)
			tt.modify(&in)
			var invalidErr *InvalidInputError
			require.ErrorAs(t, in.Validate(), &invalidErr)
			assert.Equal(t, tt.field, invalidErr.Field)
		})
	}
	assert.NoError(t, fourAssets(true).Validate())
}

func TestPlan(t *testing.T) {
	var calls atomic.Int32
	provider := PriceFunc(func(_ context.Context, ticker string) (decimal.Decimal, error) {
		calls.Add(1)
		return decimal.NewFromInt(10), nil
	})
	in := fourAssets(true)
	manual := M(10, "EUR")
	in.Portfolio[0].Price = &manual

	r, err := Plan(context.Background(), in, provider, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 1, 0, 0}, buys(r))
	assert.Equal(t, int32(3), calls.Load(), "manual price must not be fetched")
}

func TestPlan_ProviderFailure(t *testing.T) {
	boom := errors.New("boom")
	provider := PriceFunc(func(_ context.Context, ticker string) (decimal.Decimal, error) {
		if ticker == "C" {
			return decimal.Zero, boom
		}
		return decimal.NewFromInt(10), nil
	})
	_, err := Plan(context.Background(), fourAssets(false), provider, 0)
	var missing *MissingPriceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "C", missing.Ticker)
	assert.ErrorIs(t, err, boom)
}
