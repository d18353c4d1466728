package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dca"
	"github.com/google/subcommands"
)

type priceCmd struct{}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "print the current price of tickers" }
func (*priceCmd) Usage() string {
	return `dcaopt price <ticker>...

  Prints the price of each ticker as returned by the selected -provider.
`
}

func (*priceCmd) SetFlags(f *flag.FlagSet) {}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one ticker is required.")
		return subcommands.ExitUsageError
	}
	provider, err := newPriceProvider()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	prices, err := dca.FetchPrices(ctx, provider, f.Args(), *concurrency)
	if err != nil {
		return fail("fetching prices", err)
	}
	for _, ticker := range f.Args() {
		fmt.Fprintf(stdout, "%s\t%s\n", ticker, prices[ticker])
	}
	return subcommands.ExitSuccess
}
