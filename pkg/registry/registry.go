package registry

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/fleetlive/fleetlive/pkg/dashboard"
	"github.com/fleetlive/fleetlive/pkg/database"
	"github.com/fleetlive/fleetlive/pkg/fleet"
)

// Seed replays the persisted vehicle registry into the dashboard snapshot
// and warms the geofence cache. Seeding applies plain updates over whatever
// the snapshot already holds, so a reconnecting dashboard keeps its state.
func Seed(loop *dashboard.Loop) error {
	p := pool.New().WithErrors()

	p.Go(func() error {
		return seedVehicles(loop)
	})
	p.Go(func() error {
		_, err := GetGeofences()
		return err
	})

	return p.Wait()
}

func seedVehicles(loop *dashboard.Loop) error {
	vehiclesCollection := database.GetCollection("vehicles")

	cursor, err := vehiclesCollection.Find(context.Background(), bson.M{})
	if err != nil {
		return err
	}

	seeded := 0
	for cursor.Next(context.Background()) {
		var vehicle fleet.Vehicle
		if err := cursor.Decode(&vehicle); err != nil {
			log.Error().Err(err).Msg("Failed to decode registry vehicle")
			continue
		}

		loop.Do(func(engine *dashboard.Engine) {
			engine.ApplyVehicleUpdate(vehicle)
		})
		seeded += 1
	}

	log.Info().Int("vehicles", seeded).Msg("Seeded snapshot from registry")

	return cursor.Err()
}
