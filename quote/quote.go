// Package quote implements price providers that scrape public JSON quote endpoints.
package quote

import (
	"context"
	"net/http"
	"time"

	"github.com/etnz/dca/httpcache"
	"golang.org/x/time/rate"
)

// fetcher is shared by the providers of this package.
type fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

func newFetcher() fetcher {
	return fetcher{
		// intraday quotes must not be cached for a day.
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(2), 2),
	}
}

func (f fetcher) get(ctx context.Context, addr string, data any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}
	return httpcache.GetJSON(ctx, f.client, addr, data)
}

// Option configures the providers of this package.
type Option func(*fetcher)

// WithHTTPClient replaces the default http client.
func WithHTTPClient(h *http.Client) Option { return func(f *fetcher) { f.client = h } }

// WithRateLimit bounds the request rate.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(f *fetcher) { f.limiter = rate.NewLimiter(r, burst) }
}
