package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fleetlive/fleetlive/pkg/dashboard"
	"github.com/fleetlive/fleetlive/pkg/database"
	"github.com/fleetlive/fleetlive/pkg/elastic_client"
	"github.com/fleetlive/fleetlive/pkg/fleet"
	"github.com/fleetlive/fleetlive/pkg/redis_client"
)

const eventsQueueName = "fleet-events-queue"
const notifyQueueName = "notify-queue"

const batchSize = 200

// StartConsumers attaches the feed consumer to the events queue. A single
// consumer keeps queue delivery order intact - the dashboard applies events
// strictly in arrival order, so the transport must not fan deliveries out
// across goroutines.
func StartConsumers(loop *dashboard.Loop) {
	log.Info().Msg("Starting feed consumers")

	queue, err := redis_client.QueueConnection.OpenQueue(eventsQueueName)
	if err != nil {
		panic(err)
	}
	if err := queue.StartConsuming(batchSize+1, 1*time.Second); err != nil {
		panic(err)
	}

	notifyQueue, err := redis_client.QueueConnection.OpenQueue(notifyQueueName)
	if err != nil {
		panic(err)
	}

	if _, err := queue.AddBatchConsumer("fleet-events-queue-0", batchSize, 2*time.Second, NewBatchConsumer(loop, notifyQueue)); err != nil {
		panic(err)
	}
}

type BatchConsumer struct {
	loop        *dashboard.Loop
	notifyQueue rmq.Queue
}

func NewBatchConsumer(loop *dashboard.Loop, notifyQueue rmq.Queue) *BatchConsumer {
	return &BatchConsumer{
		loop:        loop,
		notifyQueue: notifyQueue,
	}
}

func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	var registryOperations []mongo.WriteModel

	for _, payload := range payloads {
		writeModel := consumer.handlePayload([]byte(payload))
		if writeModel != nil {
			registryOperations = append(registryOperations, writeModel)
		}
	}

	if len(registryOperations) > 0 {
		vehiclesCollection := database.GetCollection("vehicles")

		startTime := time.Now()
		_, err := vehiclesCollection.BulkWrite(context.Background(), registryOperations, &options.BulkWriteOptions{})
		log.Debug().Int("Length", len(registryOperations)).Str("Time", time.Since(startTime).String()).Msg("Registry bulk write")

		if err != nil {
			log.Error().Err(err).Msg("Failed to bulk write vehicle registry")
		}
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Fatal().Err(err).Msg("Failed to consume feed event")
		}
	}
}

// handlePayload decodes one queue message and posts it to the dashboard
// loop. Malformed messages are logged and dropped whole. The returned write
// model, if any, mirrors the event into the mongo vehicle registry.
func (consumer *BatchConsumer) handlePayload(payload []byte) mongo.WriteModel {
	receivedAt := time.Now()

	envelope, err := decodeEnvelope(payload)
	if err != nil {
		log.Error().Err(err).Msg("Malformed feed envelope")
		return nil
	}

	switch envelope.Event {
	case fleet.FeedEventVehicleUpdate:
		event, err := decodeVehicleUpdate(envelope.Payload)
		if err != nil {
			log.Error().Err(err).Msg("Malformed vehicle update")
			return nil
		}

		vehicle := event.Vehicle(receivedAt)
		consumer.loop.Do(func(engine *dashboard.Engine) {
			engine.ApplyVehicleUpdate(vehicle)
		})

		writeModel := mongo.NewReplaceOneModel()
		writeModel.SetFilter(bson.M{"primaryidentifier": vehicle.PrimaryIdentifier})
		writeModel.SetReplacement(vehicle)
		writeModel.SetUpsert(true)
		return writeModel
	case fleet.FeedEventVehicleDelete:
		event, err := decodeVehicleDelete(envelope.Payload)
		if err != nil {
			log.Error().Err(err).Msg("Malformed vehicle delete")
			return nil
		}

		consumer.loop.Do(func(engine *dashboard.Engine) {
			engine.RemoveVehicle(event.ID)
		})

		writeModel := mongo.NewDeleteOneModel()
		writeModel.SetFilter(bson.M{"primaryidentifier": event.ID})
		return writeModel
	case fleet.FeedEventAlert:
		event, err := decodeAlert(envelope.Payload)
		if err != nil {
			log.Error().Err(err).Msg("Malformed alert")
			return nil
		}

		alert := event.Alert(receivedAt)
		consumer.loop.Do(func(engine *dashboard.Engine) {
			engine.IngestAlert(alert)
		})

		consumer.recordActivity(alert)

		if alert.Priority == fleet.AlertPriorityCritical {
			consumer.publishNotification(alert)
		}
		return nil
	}

	log.Error().Str("event", string(envelope.Event)).Msg("Unknown feed event type")
	return nil
}

// recordActivity indexes the alert into the weekly activity stream the
// detail panel's activity feed reads from.
func (consumer *BatchConsumer) recordActivity(alert fleet.Alert) {
	yearNumber, weekNumber := alert.Timestamp.ISOWeek()
	indexName := fmt.Sprintf("fleetlive-alert-events-%d-%d", yearNumber, weekNumber)

	elasticEvent, _ := json.Marshal(AlertActivityElasticEvent{
		Timestamp: alert.Timestamp,

		VehicleRef: alert.VehicleRef,
		AlertType:  string(alert.AlertType),
		Priority:   string(alert.Priority),
		Message:    alert.Message,
	})

	elastic_client.IndexRequest(indexName, bytes.NewReader(elasticEvent))
}

func (consumer *BatchConsumer) publishNotification(alert fleet.Alert) {
	alertJSON, _ := json.Marshal(alert)

	if err := consumer.notifyQueue.PublishBytes(alertJSON); err != nil {
		log.Error().Err(err).Str("alert", alert.PrimaryIdentifier).Msg("Failed to publish notification")
	}
}
