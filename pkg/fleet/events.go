package fleet

import (
	"encoding/json"
	"time"
)

type FeedEventType string

const (
	FeedEventVehicleUpdate FeedEventType = "vehicle_update"
	FeedEventVehicleDelete FeedEventType = "vehicle_delete"
	FeedEventAlert         FeedEventType = "alert"
)

// FeedEventEnvelope is the wire shape of every message on the fleet events
// queue. The payload is decoded according to the event type.
type FeedEventEnvelope struct {
	Event   FeedEventType   `json:"event" validate:"required,oneof=vehicle_update vehicle_delete alert"`
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// VehicleUpdateEvent carries a complete vehicle record. Upstream is
// responsible for merging partial telemetry into a full record before it
// reaches us - a payload failing validation is dropped whole, never applied
// half-written.
type VehicleUpdateEvent struct {
	ID           string   `json:"id" validate:"required"`
	Name         string   `json:"name" validate:"required"`
	LicensePlate string   `json:"licensePlate" validate:"required"`
	Model        string   `json:"model"`
	Status       string   `json:"status" validate:"required,oneof=moving stopped idle offline"`
	Ignition     string   `json:"ignition" validate:"required,oneof=on off"`
	CurrentSpeed float64  `json:"currentSpeed" validate:"gte=0"`
	SpeedLimit   float64  `json:"speedLimit" validate:"gte=0"`
	Heading      float64  `json:"heading" validate:"gte=0,lt=360"`
	Latitude     float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64  `json:"longitude" validate:"gte=-180,lte=180"`
	Accuracy     float64  `json:"accuracy" validate:"gte=0"`
	LastUpdate   string   `json:"lastUpdate" validate:"required"`
	BatteryLevel *float64 `json:"batteryLevel" validate:"omitempty,gte=0,lte=100"`
}

// Vehicle converts the wire payload into the snapshot record. An unparseable
// lastUpdate timestamp falls back to the receive time; the store never
// rejects an update for a bad clock.
func (e *VehicleUpdateEvent) Vehicle(receivedAt time.Time) Vehicle {
	lastUpdate, err := time.Parse(time.RFC3339, e.LastUpdate)
	if err != nil {
		lastUpdate = receivedAt
	}

	return Vehicle{
		PrimaryIdentifier: e.ID,
		Name:              e.Name,
		LicensePlate:      e.LicensePlate,
		Model:             e.Model,
		Status:            VehicleStatus(e.Status),
		Ignition:          IgnitionState(e.Ignition),
		CurrentSpeed:      e.CurrentSpeed,
		SpeedLimit:        e.SpeedLimit,
		Heading:           e.Heading,
		Location: Location{
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
		},
		Accuracy:     e.Accuracy,
		LastUpdate:   lastUpdate,
		BatteryLevel: e.BatteryLevel,
	}
}

type VehicleDeleteEvent struct {
	ID string `json:"id" validate:"required"`
}

type AlertEvent struct {
	ID        string `json:"id" validate:"required"`
	VehicleID string `json:"vehicleId" validate:"required"`
	AlertType string `json:"type" validate:"required,oneof=speed geofence_entry geofence_exit geofence_dwell battery offline other"`
	Priority  string `json:"priority" validate:"required,oneof=critical warning info"`
	Message   string `json:"message" validate:"required"`
	Timestamp string `json:"timestamp" validate:"required"`
	Read      bool   `json:"read"`
}

func (e *AlertEvent) Alert(receivedAt time.Time) Alert {
	timestamp, err := time.Parse(time.RFC3339, e.Timestamp)
	if err != nil {
		timestamp = receivedAt
	}

	return Alert{
		PrimaryIdentifier: e.ID,
		VehicleRef:        e.VehicleID,
		AlertType:         AlertType(e.AlertType),
		Priority:          AlertPriority(e.Priority),
		Message:           e.Message,
		Timestamp:         timestamp,
		Read:              e.Read,
	}
}
