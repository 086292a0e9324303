package feed

import "time"

type AlertActivityElasticEvent struct {
	Timestamp time.Time

	VehicleRef string
	AlertType  string
	Priority   string
	Message    string
}
