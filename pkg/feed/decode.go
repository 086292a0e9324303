package feed

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/fleetlive/fleetlive/pkg/fleet"
)

var validate = validator.New()

// Decoding rejects a malformed payload whole. A record that fails validation
// never reaches the snapshot, so the dashboard cannot observe a half-written
// vehicle.

func decodeEnvelope(payload []byte) (*fleet.FeedEventEnvelope, error) {
	var envelope fleet.FeedEventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, err
	}
	if err := validate.Struct(&envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

func decodeVehicleUpdate(payload json.RawMessage) (*fleet.VehicleUpdateEvent, error) {
	var event fleet.VehicleUpdateEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	if err := validate.Struct(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

func decodeVehicleDelete(payload json.RawMessage) (*fleet.VehicleDeleteEvent, error) {
	var event fleet.VehicleDeleteEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	if err := validate.Struct(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

func decodeAlert(payload json.RawMessage) (*fleet.AlertEvent, error) {
	var event fleet.AlertEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	if err := validate.Struct(&event); err != nil {
		return nil, err
	}
	return &event, nil
}
