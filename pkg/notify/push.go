package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"google.golang.org/api/option"

	"github.com/fleetlive/fleetlive/pkg/database"
	"github.com/fleetlive/fleetlive/pkg/fleet"
)

type PushManager struct {
	FirebaseApp *firebase.App
}

// PushTarget is a registered operator device token.
type PushTarget struct {
	PrimaryIdentifier     string `bson:"primaryidentifier"`
	PushNotificationToken string `bson:"pushnotificationtoken"`
}

func (m *PushManager) Setup() error {
	fireBaseAuthKey := os.Getenv("FLEETLIVE_FIREBASE_SERVICE_ACCOUNT")

	decodedKey, err := base64.StdEncoding.DecodeString(fireBaseAuthKey)
	if err != nil {
		return err
	}

	opts := []option.ClientOption{option.WithCredentialsJSON(decodedKey)}

	// Initialize firebase app
	app, err := firebase.NewApp(context.Background(), nil, opts...)

	if err != nil {
		return err
	}

	m.FirebaseApp = app

	return nil
}

// SendPush fans a critical alert out to every registered operator device.
func (m *PushManager) SendPush(alert fleet.Alert) error {
	pushTargetsCollection := database.GetCollection("push_targets")

	cursor, err := pushTargetsCollection.Find(context.Background(), bson.M{})
	if err != nil {
		return err
	}

	fcmClient, err := m.FirebaseApp.Messaging(context.Background())

	if err != nil {
		return err
	}

	sent := 0
	for cursor.Next(context.Background()) {
		var pushTarget PushTarget
		if err := cursor.Decode(&pushTarget); err != nil {
			log.Error().Err(err).Msg("Failed to decode push target")
			continue
		}

		_, err = fcmClient.Send(context.Background(), &messaging.Message{
			Notification: &messaging.Notification{
				Title: fmt.Sprintf("Fleet alert: %s", alert.AlertType),
				Body:  alert.Message,
			},
			Token: pushTarget.PushNotificationToken,
		})

		if err != nil {
			log.Error().Err(err).Str("target", pushTarget.PrimaryIdentifier).Msg("Failed to send push notification")
			continue
		}

		sent += 1
	}

	log.Info().Int("targets", sent).Str("alert", alert.PrimaryIdentifier).Msg("Sent push notifications")

	return cursor.Err()
}
