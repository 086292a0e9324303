package registry

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"

	"github.com/fleetlive/fleetlive/pkg/database"
	"github.com/fleetlive/fleetlive/pkg/fleet"
	"github.com/fleetlive/fleetlive/pkg/redis_client"
)

var geofenceCache *cache.Cache[string]

const geofenceCacheKey = "fleetlive/geofences"

func CreateGeofenceCache() {
	redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(15*time.Minute))

	geofenceCache = cache.New[string](redisStore)
}

// GetGeofences returns the geofence reference set, served from the redis
// cache when warm. Geofences are read-only here; rule evaluation happens
// upstream.
func GetGeofences() ([]fleet.Geofence, error) {
	if geofenceCache != nil {
		if cached, err := geofenceCache.Get(context.Background(), geofenceCacheKey); err == nil && cached != "" {
			var geofences []fleet.Geofence
			if err := json.Unmarshal([]byte(cached), &geofences); err == nil {
				return geofences, nil
			}
		}
	}

	geofencesCollection := database.GetCollection("geofences")

	cursor, err := geofencesCollection.Find(context.Background(), bson.M{})
	if err != nil {
		return nil, err
	}

	geofences := []fleet.Geofence{}
	for cursor.Next(context.Background()) {
		var geofence fleet.Geofence
		if err := cursor.Decode(&geofence); err != nil {
			log.Error().Err(err).Msg("Failed to decode geofence")
			continue
		}
		geofences = append(geofences, geofence)
	}

	if geofenceCache != nil {
		cachedJSON, _ := json.Marshal(geofences)
		geofenceCache.Set(context.Background(), geofenceCacheKey, string(cachedJSON))
	}

	return geofences, cursor.Err()
}

func parseGeofences(document []byte) ([]fleet.Geofence, error) {
	var geofences []fleet.Geofence
	if err := yaml.Unmarshal(document, &geofences); err != nil {
		return nil, err
	}
	return geofences, nil
}

// LoadGeofencesFile upserts geofence fixtures from a yaml document into the
// registry, mostly useful for local development.
func LoadGeofencesFile(path string) error {
	document, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	geofences, err := parseGeofences(document)
	if err != nil {
		return err
	}

	geofencesCollection := database.GetCollection("geofences")

	for _, geofence := range geofences {
		filter := bson.M{"primaryidentifier": geofence.PrimaryIdentifier}

		opts := options.Replace().SetUpsert(true)
		if _, err := geofencesCollection.ReplaceOne(context.Background(), filter, geofence, opts); err != nil {
			return err
		}
	}

	log.Info().Int("geofences", len(geofences)).Msg("Loaded geofence fixtures")

	return nil
}
