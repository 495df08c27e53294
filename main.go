package main

import (
	"os"

	"poptique_list/internal/app"
	"poptique_list/internal/cli"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()
	log.Debug().Msg("Starting shoplist")

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
