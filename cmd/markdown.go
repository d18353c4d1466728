package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
)

// raw disables markdown rendering, set by the subcommands flags.
var raw bool

// printMarkdown renders md for the terminal, or prints it verbatim in raw mode.
func printMarkdown(md string) {
	if raw {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.Debug().Err(err).Msg("cannot render markdown, printing it raw")
		out = md
	}
	fmt.Fprint(stdout, out)
}
