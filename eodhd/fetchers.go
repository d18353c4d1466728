package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// This file contains functions to access the EODHD API.

// errNotAvailable is returned when the API answers without a usable price.
var errNotAvailable = errors.New("price not available")

// fetchRealTime returns the delayed real time price of ticker.
func (c *Client) fetchRealTime(ctx context.Context, ticker string) (decimal.Decimal, error) {
	// https://eodhd.com/api/real-time/AAPL.US?api_token=demo&fmt=json
	// {
	// 	"code": "AAPL.US",
	// 	"timestamp": 1708027200,
	// 	"gmtoffset": 0,
	// 	"open": 183.55,
	// 	"high": 184.49,
	// 	"low": 181.35,
	// 	"close": 183.86,
	// 	"volume": 65434496,
	// 	"previousClose": 184.15,
	// 	"change": -0.29,
	// 	"change_p": -0.1575
	// }
	// close is "NA" when the exchange has no real time feed.
	addr := fmt.Sprintf("%s/real-time/%s?fmt=json&api_token=%s", c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.apiKey))

	var content struct {
		Code  string `json:"code"`
		Close any    `json:"close"`
	}
	if err := c.get(ctx, addr, &content); err != nil {
		return decimal.Zero, err
	}
	return parsePrice(content.Close)
}

// fetchLastClose returns the most recent daily close of ticker over the last two weeks.
func (c *Client) fetchLastClose(ctx context.Context, ticker string) (decimal.Decimal, error) {
	// https://eodhd.com/api/eod/NVD.F?api_token=demo&fmt=json
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	// bounds are included in the response, sorted by ascending date.
	to := c.now()
	from := to.AddDate(0, 0, -14)
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s&from=%s&to=%s", c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.apiKey), from.Format(time.DateOnly), to.Format(time.DateOnly))

	type Info struct {
		Date  string `json:"date"`
		Close any    `json:"close"`
	}
	content := make([]Info, 0)
	if err := c.get(ctx, addr, &content); err != nil {
		return decimal.Zero, err
	}
	if len(content) == 0 {
		return decimal.Zero, errNotAvailable
	}
	return parsePrice(content[len(content)-1].Close)
}

// parsePrice reads a price that EODHD may send as a number or a string.
func parsePrice(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		if x <= 0 {
			return decimal.Zero, errNotAvailable
		}
		return decimal.NewFromFloat(x), nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil || f <= 0 {
			return decimal.Zero, errNotAvailable
		}
		return decimal.NewFromFloat(f), nil
	}
	return decimal.Zero, errNotAvailable
}
