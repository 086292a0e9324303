package registry

import (
	"github.com/urfave/cli/v2"

	"github.com/fleetlive/fleetlive/pkg/database"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "registry",
		Usage: "Manage the vehicle & geofence registry",
		Subcommands: []*cli.Command{
			{
				Name:  "import",
				Usage: "import a fleet roster CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "path to the roster CSV",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					return ImportRosterFile(c.String("file"))
				},
			},
			{
				Name:  "load-geofences",
				Usage: "load geofence fixtures from a yaml file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "path to the geofence yaml document",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}

					return LoadGeofencesFile(c.String("file"))
				},
			},
		},
	}
}
