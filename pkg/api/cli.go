package api

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/fleetlive/fleetlive/pkg/dashboard"
	"github.com/fleetlive/fleetlive/pkg/database"
	"github.com/fleetlive/fleetlive/pkg/elastic_client"
	"github.com/fleetlive/fleetlive/pkg/feed"
	"github.com/fleetlive/fleetlive/pkg/redis_client"
	"github.com/fleetlive/fleetlive/pkg/registry"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Provides the live dashboard engine & web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the dashboard server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:  "stream-listen",
						Value: ":8081",
						Usage: "listen target for the websocket stream",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}

					registry.CreateGeofenceCache()

					engine := dashboard.NewEngine()
					loop := dashboard.NewLoop(engine)
					go loop.Run(context.Background())

					if err := registry.Seed(loop); err != nil {
						log.Error().Err(err).Msg("Registry seed failed")
					}

					feed.StartConsumers(loop)

					streamHub := NewStreamHub(loop)
					go func() {
						if err := streamHub.SetupStream(c.String("stream-listen")); err != nil {
							log.Fatal().Err(err).Msg("Dashboard stream failed")
						}
					}()

					return SetupServer(c.String("listen"), loop)
				},
			},
		},
	}
}
