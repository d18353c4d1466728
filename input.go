package dca

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Format of an input document.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf guesses the format from a file name, JSON by default.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// rawInput mirrors the input document. Numbers are kept untyped so that a
// non-numeric entry can be reported with its field path.
type rawInput struct {
	OnlyBuy   bool       `json:"onlyBuy" yaml:"onlyBuy"`
	Increment any        `json:"increment" yaml:"increment"`
	Currency  string     `json:"currency" yaml:"currency"`
	Portfolio []rawAsset `json:"portfolio" yaml:"portfolio"`
}

type rawAsset struct {
	Ticker            string `json:"ticker" yaml:"ticker"`
	DesiredPercentage any    `json:"desiredPercentage" yaml:"desiredPercentage"`
	Shares            any    `json:"shares" yaml:"shares"`
	Fee               any    `json:"fee" yaml:"fee"`
	Price             any    `json:"price,omitempty" yaml:"price,omitempty"`
}

// ParseDecimal reads a number out of a decoded JSON or YAML value.
// Numeric strings are accepted. Anything else is an *InvalidInputError on field.
func ParseDecimal(field string, v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, invalid(field, "is required")
	case json.Number:
		return parseDecimalString(field, x.String())
	case string:
		return parseDecimalString(field, x)
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case uint64:
		return decimal.NewFromUint64(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, invalid(field, "not a number: %v", v)
		}
		return decimal.NewFromFloat(x), nil
	default:
		return decimal.Zero, invalid(field, "not a number: %v", v)
	}
}

func parseDecimalString(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, invalid(field, "not a number: %q", s)
	}
	return d, nil
}

// optionalDecimal is ParseDecimal with a zero default.
func optionalDecimal(field string, v any) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}
	return ParseDecimal(field, v)
}

// DecodeInput reads an input document. The result still needs Validate.
func DecodeInput(r io.Reader, format Format) (Input, error) {
	var raw rawInput
	switch format {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
			return Input{}, &InvalidInputError{Reason: err.Error()}
		}
	default:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return Input{}, &InvalidInputError{Reason: err.Error()}
		}
	}
	return raw.input()
}

func (raw rawInput) input() (Input, error) {
	cur := raw.Currency
	if cur == "" {
		cur = DefaultCurrency
	}
	increment, err := ParseDecimal("increment", raw.Increment)
	if err != nil {
		return Input{}, err
	}
	in := Input{
		OnlyBuy:   raw.OnlyBuy,
		Increment: M(increment, cur),
		Currency:  cur,
		Portfolio: make([]Asset, 0, len(raw.Portfolio)),
	}
	for i, ra := range raw.Portfolio {
		field := fmt.Sprintf("portfolio[%d]", i)
		pct, err := ParseDecimal(field+".desiredPercentage", ra.DesiredPercentage)
		if err != nil {
			return Input{}, err
		}
		shares, err := optionalDecimal(field+".shares", ra.Shares)
		if err != nil {
			return Input{}, err
		}
		fee, err := optionalDecimal(field+".fee", ra.Fee)
		if err != nil {
			return Input{}, err
		}
		a := Asset{
			Ticker:            strings.TrimSpace(ra.Ticker),
			DesiredPercentage: P(pct),
			Shares:            Q(shares),
			Fee:               M(fee, cur),
		}
		if ra.Price != nil {
			price, err := ParseDecimal(field+".price", ra.Price)
			if err != nil {
				return Input{}, err
			}
			p := M(price, cur)
			a.Price = &p
		}
		in.Portfolio = append(in.Portfolio, a)
	}
	return in, nil
}

// LoadInput decodes the input file at path, JSON or YAML depending on its extension.
func LoadInput(path string) (Input, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Input{}, fmt.Errorf("cannot read input %q: %w", path, err)
	}
	return DecodeInput(bytes.NewReader(content), FormatOf(path))
}
