package quote

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// TickerPlaceholder is replaced by the ticker in a JSONPath URL template.
const TickerPlaceholder = "{ticker}"

// JSONPath quotes tickers from any JSON endpoint: the URL template gets the
// ticker, the jsonpath expression extracts the price from the answer.
//
// For instance "https://www.ls-tc.de/_rpc/json/instrument/chart/dataForInstrument?instrumentId={ticker}&series=intraday&type=mini"
// with "$.series.intraday.data[-1:][1]".
type JSONPath struct {
	URL  string
	Path string
	fetcher
}

// NewJSONPath returns a JSONPath provider. The template must contain TickerPlaceholder.
func NewJSONPath(template, path string, opts ...Option) (*JSONPath, error) {
	if !strings.Contains(template, TickerPlaceholder) {
		return nil, fmt.Errorf("url template %q has no %s placeholder", template, TickerPlaceholder)
	}
	if _, err := jsonpath.New(path); err != nil {
		return nil, fmt.Errorf("invalid jsonpath %q: %w", path, err)
	}
	j := &JSONPath{URL: template, Path: path, fetcher: newFetcher()}
	for _, opt := range opts {
		opt(&j.fetcher)
	}
	return j, nil
}

func (j *JSONPath) Price(ctx context.Context, ticker string) (decimal.Decimal, error) {
	addr := strings.ReplaceAll(j.URL, TickerPlaceholder, url.PathEscape(ticker))
	var jobj any
	if err := j.get(ctx, addr, &jobj); err != nil {
		return decimal.Zero, fmt.Errorf("error in wget %q: %w", ticker, err)
	}
	jval, err := jsonpath.Get(j.Path, jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error parsing %q: %q %w", ticker, j.Path, err)
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, err := number(jval)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error parsing %q: %q %w", ticker, j.Path, err)
	}
	return val, nil
}
