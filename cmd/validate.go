package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type validateCmd struct {
	format string
}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "check an input file without fetching prices" }
func (*validateCmd) Usage() string {
	return `dcaopt validate <input file>...

  Checks that each input file is well formed: numeric fields, unique tickers,
  and desired percentages summing to 100.
`
}

func (c *validateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "", "Input format, json or yaml. Guessed from the file extension by default")
}

func (c *validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return subcommands.ExitUsageError
	}
	status := subcommands.ExitSuccess
	for _, name := range f.Args() {
		in, err := loadInput(name, c.format)
		if err == nil {
			err = in.Validate()
		}
		if err != nil {
			status = fail("in "+name, err)
			continue
		}
		fmt.Fprintf(stdout, "%s: ok, %d assets\n", name, len(in.Portfolio))
	}
	return status
}
