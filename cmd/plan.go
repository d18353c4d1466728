package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/dca"
	"github.com/etnz/dca/renderer"
	"github.com/google/subcommands"
)

// planCmd holds the flags for the 'plan' subcommand.
type planCmd struct {
	format string
	json   bool
	sortBy string
	desc   bool
	all    bool
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "compute the shares to buy with the next increment" }
func (*planCmd) Usage() string {
	return `dcaopt plan [-json] [-sort <column>] [-desc] [-all] <input file>

  Fetches the current prices of the portfolio and computes how many whole
  shares of each asset to buy (or the amount to sell) to move the portfolio
  towards its desired allocation. Use "-" to read the input from stdin.

  See 'dcaopt topic input' for the input format.
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "", "Input format, json or yaml. Guessed from the file extension by default")
	f.BoolVar(&c.json, "json", false, "Print the plan as JSON")
	f.StringVar(&c.sortBy, "sort", "price", "Sort lines by column: "+strings.Join(renderer.Columns, ", ")+". Empty keeps the portfolio order")
	f.BoolVar(&c.desc, "desc", true, "Sort in descending order")
	f.BoolVar(&c.all, "all", false, "In buy-only mode, also list the assets with no share to buy")
	f.BoolVar(&raw, "raw", false, "Print raw markdown")
}

func (c *planCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one input file is required.")
		return subcommands.ExitUsageError
	}

	in, err := loadInput(f.Arg(0), c.format)
	if err != nil {
		return fail("loading input", err)
	}
	provider, err := newPriceProvider()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	res, err := dca.Plan(ctx, in, provider, *concurrency)
	if err != nil {
		return fail("computing plan", err)
	}

	opts := renderer.PlanRenderOptions{
		SortBy:  c.sortBy,
		Desc:    c.desc,
		OnlyBuy: in.OnlyBuy && !c.all,
	}
	if c.json {
		arranged, err := renderer.Arrange(res, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err := dca.EncodeResult(stdout, arranged); err != nil {
			return fail("writing plan", err)
		}
		return subcommands.ExitSuccess
	}

	md, err := renderer.RenderPlan(res, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
