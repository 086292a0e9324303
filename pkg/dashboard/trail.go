package dashboard

import "github.com/fleetlive/fleetlive/pkg/fleet"

// TrailLength caps the recent-position history kept for the selected
// vehicle. Oldest samples drop first.
const TrailLength = 20

// Trail accumulates the recent positions of the currently selected vehicle.
// It is recreated on every selection change and holds no vehicle data beyond
// plain coordinates.
type Trail struct {
	points []fleet.Location

	changed []func()
}

func NewTrail() *Trail {
	return &Trail{}
}

func (t *Trail) OnChange(handler func()) {
	t.changed = append(t.changed, handler)
}

// Reset drops any existing history and seeds the trail with a single point.
func (t *Trail) Reset(point fleet.Location) {
	t.points = []fleet.Location{point}
	t.notify()
}

func (t *Trail) Clear() {
	if len(t.points) == 0 {
		return
	}
	t.points = nil
	t.notify()
}

// Push appends a point, dropping the oldest once the cap is hit.
func (t *Trail) Push(point fleet.Location) {
	t.points = append(t.points, point)
	if len(t.points) > TrailLength {
		t.points = t.points[len(t.points)-TrailLength:]
	}
	t.notify()
}

// Current returns the history oldest-first.
func (t *Trail) Current() []fleet.Location {
	points := make([]fleet.Location, len(t.points))
	copy(points, t.points)
	return points
}

// Last returns the most recent point.
func (t *Trail) Last() (fleet.Location, bool) {
	if len(t.points) == 0 {
		return fleet.Location{}, false
	}
	return t.points[len(t.points)-1], true
}

func (t *Trail) notify() {
	for _, handler := range t.changed {
		handler()
	}
}
