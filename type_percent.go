package dca

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percent is a percentage expressed in [0, 100].
type Percent struct {
	value decimal.Decimal
}

func P[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Percent {
	return Percent{value: newDecimal(value)}
}

func (p Percent) Decimal() decimal.Decimal { return p.value }
func (p Percent) IsNegative() bool         { return p.value.IsNegative() }

// Round2 rounds to two decimals, the precision percentages are compared and displayed with.
func (p Percent) Round2() Percent { return Percent{value: p.value.Round(2)} }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	precision := decimal.New(1, -4)
	return p.value.Sub(q.value).Abs().LessThan(precision)
}

func (p Percent) String() string {
	return p.value.StringFixed(2) + "%"
}

// MarshalJSON writes the percentage as a bare JSON number.
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.value.String()), nil
}
