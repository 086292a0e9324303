package registry

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetlive/fleetlive/pkg/database"
	"github.com/fleetlive/fleetlive/pkg/fleet"
)

type rosterRecord struct {
	ID           string  `csv:"id"`
	Name         string  `csv:"name"`
	LicensePlate string  `csv:"license_plate"`
	Model        string  `csv:"model"`
	SpeedLimit   float64 `csv:"speed_limit"`
}

// parseRoster reads a fleet roster CSV into offline vehicle records. Live
// telemetry fills in the rest once the feed starts delivering.
func parseRoster(reader io.Reader) ([]fleet.Vehicle, error) {
	var records []rosterRecord
	if err := gocsv.Unmarshal(reader, &records); err != nil {
		return nil, err
	}

	vehicles := make([]fleet.Vehicle, 0, len(records))
	for _, record := range records {
		vehicles = append(vehicles, fleet.Vehicle{
			PrimaryIdentifier: record.ID,
			Name:              record.Name,
			LicensePlate:      record.LicensePlate,
			Model:             record.Model,
			Status:            fleet.VehicleStatusOffline,
			Ignition:          fleet.IgnitionOff,
			SpeedLimit:        record.SpeedLimit,
			LastUpdate:        time.Now(),
		})
	}

	return vehicles, nil
}

// ImportRosterFile bulk-upserts a roster CSV into the vehicle registry.
func ImportRosterFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	vehicles, err := parseRoster(file)
	if err != nil {
		return err
	}

	var operations []mongo.WriteModel
	for _, vehicle := range vehicles {
		writeModel := mongo.NewReplaceOneModel()
		writeModel.SetFilter(bson.M{"primaryidentifier": vehicle.PrimaryIdentifier})
		writeModel.SetReplacement(vehicle)
		writeModel.SetUpsert(true)
		operations = append(operations, writeModel)
	}

	if len(operations) == 0 {
		log.Info().Msg("Roster file contained no vehicles")
		return nil
	}

	vehiclesCollection := database.GetCollection("vehicles")
	if _, err := vehiclesCollection.BulkWrite(context.Background(), operations, &options.BulkWriteOptions{}); err != nil {
		return err
	}

	log.Info().Int("vehicles", len(operations)).Msg("Imported fleet roster")

	return nil
}
