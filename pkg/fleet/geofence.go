package fleet

// Geofence is read-only reference data owned by the upstream registry. The
// dashboard never evaluates geometry; it only hands the shapes to the map.
type Geofence struct {
	PrimaryIdentifier string `groups:"basic" bson:"primaryidentifier" yaml:"id"`

	Name string `groups:"basic" bson:"name" yaml:"name"`

	GeometryType string     `groups:"basic" bson:"geometrytype" yaml:"geometryType"`
	Points       []Location `groups:"basic" bson:"points" yaml:"points"`
	RadiusMeters float64    `groups:"basic" bson:"radiusmeters" yaml:"radiusMeters"`

	Rules map[string]string `groups:"detailed" bson:"rules" yaml:"rules"`
}
