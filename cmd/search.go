package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/dca/eodhd"
	"github.com/google/subcommands"
)

// searchCmd implements the "search" command.
type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "searches for tickers on EODHD" }
func (*searchCmd) Usage() string {
	return `dcaopt search <search term>

  Searches for securities via EOD Historical Data API and prints the tickers
  to use in an input file with the eodhd provider.

  Requires the EODHD_API_KEY environment variable to be set or passed as a flag.
`
}

func (*searchCmd) SetFlags(f *flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a search term is required.")
		return subcommands.ExitUsageError
	}
	searchTerm := strings.Join(f.Args(), " ")

	results, err := eodhd.New(eodhdKey()).Search(ctx, searchTerm)
	if err != nil {
		return fail("searching securities", err)
	}

	if len(results) == 0 {
		fmt.Fprintf(stdout, "No results found for '%s'.\n", searchTerm)
		return subcommands.ExitSuccess
	}

	fmt.Fprintf(stdout, "Found %d results for '%s':\n\n", len(results), searchTerm)
	for _, item := range results {
		fmt.Fprintf(stdout, "➡️   Name       : %s (%s)\n", item.Name, item.Code)
		fmt.Fprintf(stdout, "    Type        : %s, Country: %s, Currency: %s\n", item.Type, item.Country, item.Currency)
		fmt.Fprintf(stdout, "    ISIN        : %s\n", item.ISIN)
		fmt.Fprintf(stdout, "    Prev. Close : %.2f on %s\n", item.PreviousClose, item.PreviousCloseDate)
		fmt.Fprintf(stdout, "    Ticker      : %s\n\n", item.Ticker())
	}
	return subcommands.ExitSuccess
}
