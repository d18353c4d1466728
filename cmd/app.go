// Package cmd implements the CLI application to plan DCA investments.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/dca"
	"github.com/etnz/dca/eodhd"
	"github.com/etnz/dca/logger"
	"github.com/etnz/dca/quote"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&planCmd{}, "plan")
	c.Register(&validateCmd{}, "plan")

	c.Register(&priceCmd{}, "prices")
	c.Register(&searchCmd{}, "prices")

	c.Register(&serveCmd{}, "server")

	c.Register(&topicCmd{}, "help")
}

// LogLevelEnv is the environment variable read when -log-level is not set.
const LogLevelEnv = "DCA_LOG_LEVEL"

// Providers lists the values accepted by -provider.
var Providers = []string{"eodhd", "tradegate", "url", "static"}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	logLevel     = flag.String("log-level", "", "Log level: debug, info, warn, error or off. Defaults to $"+LogLevelEnv+" or info")
	logPretty    = flag.Bool("log-pretty", false, "Human readable logs instead of JSON")
	providerName = flag.String("provider", "eodhd", "Price provider: eodhd, tradegate (tickers are ISINs), url (see -price-url) or static (manual prices only)")
	priceURL     = flag.String("price-url", "", "URL template of the url provider, "+quote.TickerPlaceholder+" is replaced by the ticker")
	pricePath    = flag.String("price-path", "$.price", "JSONPath expression extracting the price from the url provider answer")
	eodhdAPIKey  = flag.String("eodhd-api-key", "", "EODHD API key. This flag takes precedence over the "+eodhd.APIKeyEnv+" environment variable. You can get one at https://eodhd.com/")
	concurrency  = flag.Int("concurrency", 4, "Maximum number of prices fetched at the same time")
)

// stdout receives the reports, tests replace it.
var stdout io.Writer = os.Stdout

// SetupLogger configures the global logger from the flags, call it after flag.Parse.
func SetupLogger() {
	level := *logLevel
	if level == "" {
		level = os.Getenv(LogLevelEnv)
	}
	logger.SetGlobalLogger(logger.New(logger.Config{Level: level, Pretty: *logPretty}))
}

// eodhdKey retrieves the EODHD API key from the command-line flag or the environment variable.
// It prioritizes the flag over the environment variable.
func eodhdKey() string {
	if *eodhdAPIKey != "" {
		return *eodhdAPIKey
	}
	return os.Getenv(eodhd.APIKeyEnv)
}

// newPriceProvider builds the provider selected by -provider.
func newPriceProvider() (dca.PriceProvider, error) {
	switch *providerName {
	case "eodhd":
		return eodhd.New(eodhdKey()), nil
	case "tradegate":
		return quote.NewTradegate(), nil
	case "url":
		return quote.NewJSONPath(*priceURL, *pricePath)
	case "static":
		// manual prices are always consulted first, there is nothing else.
		return dca.StaticPrices{}, nil
	}
	return nil, fmt.Errorf("unknown provider %q, expected one of %v", *providerName, Providers)
}

// loadInput reads the input document, "-" is the standard input.
func loadInput(name, format string) (dca.Input, error) {
	if name != "-" {
		if format == "" {
			return dca.LoadInput(name)
		}
		f, err := os.Open(name)
		if err != nil {
			return dca.Input{}, err
		}
		defer f.Close()
		return dca.DecodeInput(f, dca.Format(format))
	}
	if format == "" {
		format = string(dca.JSON)
	}
	return dca.DecodeInput(os.Stdin, dca.Format(format))
}

// fail prints err and returns the matching exit status.
func fail(context string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	var invalidErr *dca.InvalidInputError
	if errors.As(err, &invalidErr) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}
