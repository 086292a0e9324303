package fleet

import "math"

// Location is a WGS84 position in decimal degrees.
type Location struct {
	Latitude  float64 `groups:"basic" bson:"latitude" json:"latitude"`
	Longitude float64 `groups:"basic" bson:"longitude" json:"longitude"`
}

// Distance returns the equirectangular approximation of the distance between
// two locations in metres. Good enough for trail segment lengths.
func (l *Location) Distance(other *Location) float64 {
	const earthRadius = 6371000.0

	latA := l.Latitude * math.Pi / 180
	latB := other.Latitude * math.Pi / 180

	x := (other.Longitude - l.Longitude) * math.Pi / 180 * math.Cos((latA+latB)/2)
	y := latB - latA

	return math.Sqrt(x*x+y*y) * earthRadius
}
