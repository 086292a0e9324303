package feed

import (
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"

	"github.com/fleetlive/fleetlive/pkg/redis_client"
)

// StartDebugConsumer dumps raw feed payloads to stdout instead of applying
// them. Useful when wiring up a new upstream.
func StartDebugConsumer() {
	log.Info().Msg("Starting feed debug consumer")

	queue, err := redis_client.QueueConnection.OpenQueue(eventsQueueName)
	if err != nil {
		panic(err)
	}
	if err := queue.StartConsuming(batchSize+1, 1*time.Second); err != nil {
		panic(err)
	}

	if _, err := queue.AddBatchConsumer("fleet-events-debug", batchSize, 2*time.Second, &DebugBatchConsumer{}); err != nil {
		panic(err)
	}
}

type DebugBatchConsumer struct {
}

func (consumer *DebugBatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	for _, payload := range payloads {
		pretty.Println(string(payload))
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Fatal().Err(err).Msg("Failed to consume feed event")
		}
	}
}
