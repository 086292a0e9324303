package notify

import (
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"

	"github.com/fleetlive/fleetlive/pkg/fleet"
)

type NotifyBatchConsumer struct {
	pushManager *PushManager
}

func NewNotifyBatchConsumer(pushManager *PushManager) *NotifyBatchConsumer {
	return &NotifyBatchConsumer{pushManager: pushManager}
}

func (c *NotifyBatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	for _, payload := range payloads {
		var alert fleet.Alert
		if err := json.Unmarshal([]byte(payload), &alert); err != nil {
			log.Error().Err(err).Msg("Malformed alert notification")
			continue
		}

		if err := c.pushManager.SendPush(alert); err != nil {
			log.Error().Err(err).Str("alert", alert.PrimaryIdentifier).Msg("Failed to push alert")
		}
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Fatal().Err(err).Msg("Failed to consume from queue")
		}
	}
}
