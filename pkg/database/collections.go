package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createIndexes() {
	createIndexesForCollection("vehicles", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "primaryidentifier", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "licenseplate", Value: 1}}},
	})

	createIndexesForCollection("geofences", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "primaryidentifier", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})

	createIndexesForCollection("push_targets", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "primaryidentifier", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}

func createIndexesForCollection(collectionName string, indexes []mongo.IndexModel) {
	collection := GetCollection(collectionName)

	_, err := collection.Indexes().CreateMany(context.Background(), indexes)
	if err != nil {
		log.Error().Err(err).Str("collection", collectionName).Msg("Failed to create indexes")
	}
}
