package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/fleetlive/fleetlive/pkg/api"
	"github.com/fleetlive/fleetlive/pkg/feed"
	"github.com/fleetlive/fleetlive/pkg/notify"
	"github.com/fleetlive/fleetlive/pkg/registry"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("FLEETLIVE_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("FLEETLIVE_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "fleetlive",
		Description: "Single binary of truth for FleetLive - runs all the services",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			feed.RegisterCLI(),
			notify.RegisterCLI(),
			registry.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
