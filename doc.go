// Package dca computes how to invest a fixed amount of cash into a portfolio
// so that holdings move towards target percentages, buying whole shares only.
//
// The computation runs in four stages:
//   - Validation: inconsistent inputs are rejected with an *InvalidInputError
//     before anything is computed.
//   - Rebalancing: the signed cash delta that puts each asset at its target
//     share of the portfolio once the cash is added. In buy-only mode the sells
//     are dropped and the buys scaled to the cash available.
//   - Allocation: each delta, net of the asset's fee, buys as many whole shares
//     as it pays for.
//   - Redistribution: in buy-only mode the cash left by rounding buys extra
//     shares of the assets furthest below target.
//
// The engine is stateless: Compute is a pure function of the input and the
// prices. Plan resolves the prices first, through a PriceProvider, see the
// eodhd and quote packages for remote ones.
//
// This package serves as the foundational logic for the `dcaopt`
// command-line tool and its HTTP API.
package dca
