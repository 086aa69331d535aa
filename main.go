package main

import (
	"os"

	"github.com/allisson/go-env"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/ferreirogomes/artshare/cmd/migrate"
	"github.com/ferreirogomes/artshare/cmd/serve"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if env.GetBool("DEBUG_LOGS", false) {
		level = zerolog.DebugLevel
	}

	// arquivo e linha em cada registro
	log.Logger = log.With().Caller().Logger().Level(level)
}

func main() {
	app := &cli.App{
		Name:  "artshare",
		Usage: "livro-razão de posse fracionada de obras de arte",
		Commands: []*cli.Command{
			serve.Command,
			migrate.Command,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("")
	}
}
