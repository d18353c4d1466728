package dca

import (
	"encoding/json"
	"io"
)

// MarshalJSON writes the line with the output schema's key order.
func (l Line) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("ticker", l.Ticker)
	w.Append("currentPercentage", l.CurrentPercentage)
	w.Append("desiredPercentage", l.DesiredPercentage)
	w.Append("shares", l.Shares)
	w.Append("rebalanceAmount", l.RebalanceAmount)
	w.Append("price", l.Price)
	w.Append("fee", l.Fee)
	w.Append("buyQuantity", l.BuyQuantity)
	return w.MarshalJSON()
}

// MarshalJSON writes the result with the output schema's key order.
func (r Result) MarshalJSON() ([]byte, error) {
	lines := r.Lines
	if lines == nil {
		lines = []Line{}
	}
	var w jsonObjectWriter
	w.Optional("currency", r.Currency)
	w.Append("onlyBuy", r.OnlyBuy)
	w.Append("results", lines)
	w.Append("totalFees", r.TotalFees)
	w.Append("change", r.Change)
	return w.MarshalJSON()
}

// EncodeResult writes r as indented JSON.
func EncodeResult(out io.Writer, r *Result) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "    ")
	return enc.Encode(r)
}
