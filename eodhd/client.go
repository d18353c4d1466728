// Package eodhd implements a dca.PriceProvider on top of the EODHD API.
//
// See https://eodhd.com/financial-apis/live-realtime-stocks-api for the
// ticker format, typically "SYMBOL.EXCHANGECODE" (e.g. "VWCE.XETRA").
package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/etnz/dca"
	"github.com/etnz/dca/httpcache"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// APIKeyEnv is the environment variable holding the API key.
const APIKeyEnv = "EODHD_API_KEY"

// DefaultBaseURL is the EODHD API root.
const DefaultBaseURL = "https://eodhd.com/api"

// ErrNoAPIKey is returned when the client has no API key.
var ErrNoAPIKey = errors.New("EODHD API key is not set. Use -eodhd-api-key flag or " + APIKeyEnv + " environment variable")

// Client fetches current prices from EODHD.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client to another API root, mostly for tests.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithHTTPClient replaces the default daily caching client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.client = h } }

// WithRateLimit bounds the request rate, the free plan allows a few calls per second.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(r, burst) }
}

// New returns a client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  httpcache.Daily(),
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Price returns the latest price of ticker: the real time quote when the
// exchange provides one, otherwise the last daily close.
func (c *Client) Price(ctx context.Context, ticker string) (decimal.Decimal, error) {
	if c.apiKey == "" {
		return decimal.Zero, ErrNoAPIKey
	}
	price, err := c.fetchRealTime(ctx, ticker)
	if errors.Is(err, errNotAvailable) {
		log.Debug().Str("ticker", ticker).Msg("no real time quote, falling back to last close")
		price, err = c.fetchLastClose(ctx, ticker)
	}
	if err != nil {
		return decimal.Zero, c.wrap(ticker, err)
	}
	return price, nil
}

func (c *Client) wrap(ticker string, err error) error {
	var statusErr *httpcache.StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		return fmt.Errorf("eodhd %q: %w", ticker, dca.ErrUnknownTicker)
	}
	return fmt.Errorf("eodhd %q: %w", ticker, err)
}

func (c *Client) get(ctx context.Context, addr string, data any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return httpcache.GetJSON(ctx, c.client, addr, data)
}
