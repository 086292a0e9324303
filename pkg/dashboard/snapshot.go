package dashboard

import (
	"github.com/fleetlive/fleetlive/pkg/fleet"
	"golang.org/x/exp/slices"
)

// SnapshotChange describes a single mutation of the snapshot, handed to
// subscribers synchronously after the mutation is applied.
type SnapshotChange struct {
	VehicleRef string
	Removed    bool
}

// Snapshot owns the live mapping of vehicle identifier to vehicle record.
// Updates replace the whole record; the later arrival always wins regardless
// of the embedded LastUpdate timestamp. Iteration order is insertion order.
type Snapshot struct {
	records map[string]*fleet.Vehicle
	order   []string

	changed []func(SnapshotChange)
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		records: map[string]*fleet.Vehicle{},
	}
}

// OnChange registers a subscriber. Subscribers run synchronously on the
// mutating call, in registration order.
func (s *Snapshot) OnChange(handler func(SnapshotChange)) {
	s.changed = append(s.changed, handler)
}

func (s *Snapshot) ApplyUpdate(vehicle fleet.Vehicle) {
	id := vehicle.PrimaryIdentifier
	if id == "" {
		return
	}

	if _, exists := s.records[id]; !exists {
		s.order = append(s.order, id)
	}
	s.records[id] = &vehicle

	s.notify(SnapshotChange{VehicleRef: id})
}

// Remove deletes a record. Unknown identifiers are a silent no-op since a
// delete can race a late position update in the feed.
func (s *Snapshot) Remove(id string) {
	if _, exists := s.records[id]; !exists {
		return
	}

	delete(s.records, id)
	s.order = slices.DeleteFunc(s.order, func(existing string) bool {
		return existing == id
	})

	s.notify(SnapshotChange{VehicleRef: id, Removed: true})
}

// Get returns a copy of the current record for the identifier.
func (s *Snapshot) Get(id string) (fleet.Vehicle, bool) {
	record, exists := s.records[id]
	if !exists {
		return fleet.Vehicle{}, false
	}
	return *record, true
}

// All returns copies of every record in insertion order.
func (s *Snapshot) All() []fleet.Vehicle {
	vehicles := make([]fleet.Vehicle, 0, len(s.order))
	for _, id := range s.order {
		vehicles = append(vehicles, *s.records[id])
	}
	return vehicles
}

func (s *Snapshot) Length() int {
	return len(s.records)
}

func (s *Snapshot) notify(change SnapshotChange) {
	for _, handler := range s.changed {
		handler(change)
	}
}
