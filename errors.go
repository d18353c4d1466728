package dca

import (
	"errors"
	"fmt"
)

// ErrUnknownTicker is returned by a PriceProvider that does not quote a ticker.
// A Chain moves on to its next provider on this error.
var ErrUnknownTicker = errors.New("unknown ticker")

// InvalidInputError reports malformed or inconsistent portfolio inputs.
// It is fatal: nothing is computed.
type InvalidInputError struct {
	Field  string // path of the offending field, e.g. "portfolio[2].fee", may be empty
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// MissingPriceError reports a ticker without a usable price.
type MissingPriceError struct {
	Ticker string
	Err    error
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("missing price for %q: %v", e.Ticker, e.Err)
}

func (e *MissingPriceError) Unwrap() error { return e.Err }
