package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/etnz/dca"
)

// Columns lists the sortable columns of a plan, in output order.
var Columns = []string{
	"ticker",
	"currentPercentage",
	"desiredPercentage",
	"shares",
	"rebalanceAmount",
	"price",
	"fee",
	"buyQuantity",
}

// PlanRenderOptions holds configuration for presenting a plan.
type PlanRenderOptions struct {
	SortBy  string // Column to sort lines by. Empty keeps the portfolio order.
	Desc    bool   // Sort in descending order.
	OnlyBuy bool   // Only keep the lines with shares to buy.
}

// Validate checks that the sort column exists.
func (o PlanRenderOptions) Validate() error {
	if o.SortBy == "" {
		return nil
	}
	for _, c := range Columns {
		if c == o.SortBy {
			return nil
		}
	}
	return fmt.Errorf("unknown column %q, expected one of %s", o.SortBy, strings.Join(Columns, ", "))
}

// Arrange returns a copy of r with its lines filtered and sorted according to opts.
func Arrange(r *dca.Result, opts PlanRenderOptions) (*dca.Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	res := *r
	res.Lines = make([]dca.Line, 0, len(r.Lines))
	for _, l := range r.Lines {
		if opts.OnlyBuy && !l.BuyQuantity.IsPositive() {
			continue
		}
		res.Lines = append(res.Lines, l)
	}
	if opts.SortBy == "" {
		if opts.Desc {
			for i, j := 0, len(res.Lines)-1; i < j; i, j = i+1, j-1 {
				res.Lines[i], res.Lines[j] = res.Lines[j], res.Lines[i]
			}
		}
		return &res, nil
	}
	less := lessBy(opts.SortBy)
	sort.SliceStable(res.Lines, func(i, j int) bool {
		if opts.Desc {
			return less(res.Lines[j], res.Lines[i])
		}
		return less(res.Lines[i], res.Lines[j])
	})
	return &res, nil
}

func lessBy(column string) func(a, b dca.Line) bool {
	switch column {
	case "ticker":
		return func(a, b dca.Line) bool { return a.Ticker < b.Ticker }
	case "currentPercentage":
		return func(a, b dca.Line) bool { return a.CurrentPercentage.Decimal().LessThan(b.CurrentPercentage.Decimal()) }
	case "desiredPercentage":
		return func(a, b dca.Line) bool { return a.DesiredPercentage.Decimal().LessThan(b.DesiredPercentage.Decimal()) }
	case "shares":
		return func(a, b dca.Line) bool { return a.Shares.LessThan(b.Shares) }
	case "rebalanceAmount":
		return func(a, b dca.Line) bool { return a.RebalanceAmount.LessThan(b.RebalanceAmount) }
	case "price":
		return func(a, b dca.Line) bool { return a.Price.LessThan(b.Price) }
	case "fee":
		return func(a, b dca.Line) bool { return a.Fee.LessThan(b.Fee) }
	default: // buyQuantity
		return func(a, b dca.Line) bool { return a.BuyQuantity.LessThan(b.BuyQuantity) }
	}
}

// Plan is the view of a plan rendered by RenderPlan.
type Plan struct {
	*dca.Result
	Spent    dca.Money // cash spent on shares, fees excluded
	Buys     int       // number of lines with shares to buy
	Filtered bool      // lines without shares to buy are hidden
}

// RenderPlan renders the plan as a markdown string.
func RenderPlan(r *dca.Result, opts PlanRenderOptions) (string, error) {
	arranged, err := Arrange(r, opts)
	if err != nil {
		return "", err
	}
	view := &Plan{Result: arranged, Spent: dca.M(0, r.Currency), Filtered: opts.OnlyBuy}
	for _, l := range r.Lines {
		if l.BuyQuantity.IsPositive() {
			view.Buys++
			view.Spent = view.Spent.Add(l.Price.Mul(l.BuyQuantity))
		}
	}
	partials := map[string]string{
		"plan_title":   "plan_title.md",
		"plan_lines":   "plan_lines.md",
		"plan_summary": "plan_summary.md",
	}
	return renderTemplate("plan", "plan.md", partials, view), nil
}
