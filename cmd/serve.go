package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/dca/server"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type serveCmd struct {
	addr string
	ttl  time.Duration
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve plans over HTTP" }
func (*serveCmd) Usage() string {
	return `dcaopt serve [-addr :8080] [-ttl 15m]

  Starts an HTTP server computing plans:

    POST /v1/plan              input document in the body, JSON or YAML
    GET  /v1/prices/{ticker}   current price from the selected -provider
    GET  /health
    GET  /metrics              prometheus metrics
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", ":8080", "Listen address")
	f.DurationVar(&c.ttl, "ttl", 15*time.Minute, "How long fetched prices are reused, 0 to keep them until restart")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	provider, err := newPriceProvider()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	srv := server.New(server.Config{
		Log:         log.Logger,
		Addr:        c.addr,
		Prices:      provider,
		Concurrency: *concurrency,
		PriceTTL:    c.ttl,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		if err != nil {
			return fail("serving", err)
		}
		return subcommands.ExitSuccess
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fail("shutting down", err)
	}
	return subcommands.ExitSuccess
}
