// Command dcaopt plans dollar cost averaging investments in whole shares.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/dca/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// EODHD_API_KEY and friends may live in a .env file.
	envErr := godotenv.Load()

	// only acts when invoked by the shell for completion.
	cmd.Completion().Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	cmd.SetupLogger()
	if envErr != nil {
		log.Debug().Err(envErr).Msg("no .env file loaded")
	}
	os.Exit(int(commander.Execute(context.Background())))
}
