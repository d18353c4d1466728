package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/etnz/dca"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planBody = `{
    "onlyBuy": true,
    "increment": 100,
    "portfolio": [
        {"ticker": "A", "desiredPercentage": 60, "shares": 0, "fee": 0},
        {"ticker": "B", "desiredPercentage": 20, "shares": 4, "fee": 0},
        {"ticker": "C", "desiredPercentage": 10, "shares": 10, "fee": 0},
        {"ticker": "D", "desiredPercentage": 10, "shares": 10, "fee": 0, "price": 10}
    ]
}`

func newTestServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	prices := dca.PriceFunc(func(_ context.Context, ticker string) (decimal.Decimal, error) {
		calls.Add(1)
		switch ticker {
		case "A", "B", "C":
			return decimal.NewFromInt(10), nil
		case "DOWN":
			return decimal.Zero, errors.New("upstream is down")
		}
		return decimal.Zero, dca.ErrUnknownTicker
	})
	s := New(Config{Log: zerolog.Nop(), Prices: prices, Concurrency: 2})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	var calls atomic.Int32
	ts := newTestServer(t, &calls)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode(t, resp)["status"])
}

func TestPlan(t *testing.T) {
	var calls atomic.Int32
	ts := newTestServer(t, &calls)

	resp, err := http.Post(ts.URL+"/v1/plan?onlyBuy=true", "application/json", strings.NewReader(planBody))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)

	assert.Equal(t, "EUR", body["currency"])
	assert.Equal(t, true, body["onlyBuy"])
	results := body["results"].([]any)
	require.Len(t, results, 2)
	assert.Equal(t, "A", results[0].(map[string]any)["ticker"])
	assert.EqualValues(t, 9, results[0].(map[string]any)["buyQuantity"])
	assert.EqualValues(t, 1, results[1].(map[string]any)["buyQuantity"])
	assert.EqualValues(t, 0, body["change"])
	assert.Equal(t, int32(3), calls.Load(), "manual price of D is not fetched")

	// prices are cached between requests.
	resp, err = http.Post(ts.URL+"/v1/plan", "application/json", strings.NewReader(planBody))
	require.NoError(t, err)
	assert.Len(t, decode(t, resp)["results"], 4)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPlan_YAML(t *testing.T) {
	var calls atomic.Int32
	ts := newTestServer(t, &calls)
	doc := `
increment: 50
portfolio:
  - ticker: A
    desiredPercentage: 100
`
	resp, err := http.Post(ts.URL+"/v1/plan", "application/yaml", strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	results := decode(t, resp)["results"].([]any)
	assert.EqualValues(t, 5, results[0].(map[string]any)["buyQuantity"])
}

func TestPlan_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"bad sum", "/v1/plan", `{"increment": 10, "portfolio": [{"ticker": "A", "desiredPercentage": 50}]}`, http.StatusBadRequest},
		{"not a number", "/v1/plan", `{"increment": "ten", "portfolio": []}`, http.StatusBadRequest},
		{"syntax", "/v1/plan", `{`, http.StatusBadRequest},
		{"unknown column", "/v1/plan?sort=id", planBody, http.StatusBadRequest},
		{"unknown ticker", "/v1/plan", `{"increment": 10, "portfolio": [{"ticker": "X", "desiredPercentage": 100}]}`, http.StatusBadGateway},
		{"upstream down", "/v1/plan", `{"increment": 10, "portfolio": [{"ticker": "DOWN", "desiredPercentage": 100}]}`, http.StatusBadGateway},
	}
	var calls atomic.Int32
	ts := newTestServer(t, &calls)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tt.path, "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, decode(t, resp)["error"])
		})
	}
}

func TestPrice(t *testing.T) {
	var calls atomic.Int32
	ts := newTestServer(t, &calls)

	resp, err := http.Get(ts.URL + "/v1/prices/A")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "A", body["ticker"])
	assert.EqualValues(t, 10, body["price"])

	resp, err = http.Get(ts.URL + "/v1/prices/X")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/v1/prices/DOWN")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	resp.Body.Close()
}

func TestMetrics(t *testing.T) {
	var calls atomic.Int32
	ts := newTestServer(t, &calls)
	resp, err := http.Post(ts.URL+"/v1/plan", "application/json", strings.NewReader(planBody))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "dca_plan_requests_total")
	assert.Contains(t, string(b), "dca_price_fetches_total")
}
