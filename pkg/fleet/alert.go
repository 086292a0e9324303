package fleet

import "time"

// Alert is an already-classified safety event produced upstream. The vehicle
// reference is weak - an alert can outlive the vehicle it was raised for, so
// consumers always look the vehicle up by identifier and tolerate a miss.
type Alert struct {
	PrimaryIdentifier string `groups:"basic" bson:"primaryidentifier"`
	VehicleRef        string `groups:"basic" bson:"vehicleref"`

	AlertType AlertType     `groups:"basic" bson:"alerttype"`
	Priority  AlertPriority `groups:"basic" bson:"priority"`

	Message string `groups:"basic" bson:"message"`

	Timestamp time.Time `groups:"basic" bson:"timestamp"`

	Read bool `groups:"basic" bson:"read"`
}

type AlertType string

const (
	AlertTypeSpeed         AlertType = "speed"
	AlertTypeGeofenceEntry AlertType = "geofence_entry"
	AlertTypeGeofenceExit  AlertType = "geofence_exit"
	AlertTypeGeofenceDwell AlertType = "geofence_dwell"
	AlertTypeBattery       AlertType = "battery"
	AlertTypeOffline       AlertType = "offline"
	AlertTypeOther         AlertType = "other"
)

type AlertPriority string

const (
	AlertPriorityCritical AlertPriority = "critical"
	AlertPriorityWarning  AlertPriority = "warning"
	AlertPriorityInfo     AlertPriority = "info"
)
