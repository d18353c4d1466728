package quote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultTradegateURL is the Tradegate refresh endpoint, queried by ISIN.
const DefaultTradegateURL = "https://www.tradegate.de/refresh.php"

// Tradegate quotes securities from the latest value exchanged in Tradegate, in EUR.
// Tickers are ISINs.
type Tradegate struct {
	BaseURL string
	fetcher
}

// NewTradegate returns a Tradegate provider.
func NewTradegate(opts ...Option) *Tradegate {
	t := &Tradegate{BaseURL: DefaultTradegateURL, fetcher: newFetcher()}
	for _, opt := range opts {
		opt(&t.fetcher)
	}
	return t
}

// Price returns the last traded price of isin, or the bid when nothing was
// traded yet.
func (t *Tradegate) Price(ctx context.Context, isin string) (decimal.Decimal, error) {
	addr := t.BaseURL + "?isin=" + url.QueryEscape(isin)

	var jobj map[string]any
	if err := t.get(ctx, addr, &jobj); err != nil {
		return decimal.Zero, fmt.Errorf("error retrieving %q: %w", isin, err)
	}
	// last is the last transaction, moves slower than the bid, but the bid can be 0.
	jval, err := jsonpath.Get("$.last", jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot read value from %q: %w", isin, err)
	}
	if s, ok := jval.(string); ok && s == "./." {
		// trade gate show's empty last this way, use the bid instead
		log.Debug().Str("isin", isin).Msg("'last' is empty, falling back to 'bid'")
		jval = jobj["bid"]
	}
	val, err := number(jval)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot read value from %q: %w", isin, err)
	}
	if !val.IsPositive() {
		// sometimes the bid is empty and returns 0
		return decimal.Zero, fmt.Errorf("empty bid for %s no value to return: bidsize=%v", isin, jobj["bidsize"])
	}
	return val, nil
}

// number reads a float or a string, possibly with a decimal comma and spaces.
func number(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case string:
		s := strings.ReplaceAll(x, ",", ".")
		s = strings.ReplaceAll(s, " ", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid string %q: %w", x, err)
		}
		return decimal.NewFromFloat(f), nil
	case nil:
		return decimal.Zero, errors.New("no value")
	}
	return decimal.Zero, fmt.Errorf("neither a float or string: %v", v)
}
