package fleet

import "time"

// Vehicle is the full live record for a single tracked vehicle. Records are
// replaced whole on every feed update; there is no field-level merging here.
type Vehicle struct {
	PrimaryIdentifier string `groups:"basic" bson:"primaryidentifier"`

	Name         string `groups:"basic" bson:"name"`
	LicensePlate string `groups:"basic" bson:"licenseplate"`
	Model        string `groups:"detailed" bson:"model,omitempty"`

	Status   VehicleStatus `groups:"basic" bson:"status"`
	Ignition IgnitionState `groups:"detailed" bson:"ignition"`

	CurrentSpeed float64 `groups:"basic" bson:"currentspeed"`
	SpeedLimit   float64 `groups:"basic" bson:"speedlimit"`
	Heading      float64 `groups:"basic" bson:"heading"`

	Location Location `groups:"basic" bson:"location"`
	Accuracy float64  `groups:"detailed" bson:"accuracy"`

	LastUpdate time.Time `groups:"basic" bson:"lastupdate"`

	BatteryLevel *float64 `groups:"detailed" bson:"batterylevel,omitempty"`
}

// Speeding reports whether the vehicle is currently over its speed limit.
// This is what the list's "alerts" filter pill counts.
func (v *Vehicle) Speeding() bool {
	return v.CurrentSpeed > v.SpeedLimit
}

type VehicleStatus string

const (
	VehicleStatusMoving  VehicleStatus = "moving"
	VehicleStatusStopped VehicleStatus = "stopped"
	VehicleStatusIdle    VehicleStatus = "idle"
	VehicleStatusOffline VehicleStatus = "offline"
)

func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleStatusMoving, VehicleStatusStopped, VehicleStatusIdle, VehicleStatusOffline:
		return true
	}
	return false
}

type IgnitionState string

const (
	IgnitionOn  IgnitionState = "on"
	IgnitionOff IgnitionState = "off"
)
