package dashboard

import (
	"github.com/fleetlive/fleetlive/pkg/fleet"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// ViewModel is the render-ready structure handed to the presentation layer
// on every refresh. It is a deep copy - the renderer never holds a reference
// into live engine state.
type ViewModel struct {
	VisibleVehicles []fleet.Vehicle `groups:"basic"`

	Selected    *fleet.Vehicle `groups:"basic"`
	IsFollowing bool           `groups:"basic"`

	Trail               []fleet.Location `groups:"basic"`
	TrailDistanceMeters float64          `groups:"basic"`

	AlertsForSelected []fleet.Alert `groups:"basic"`

	UnreadTotal      int `groups:"basic"`
	UnreadBySelected int `groups:"basic"`

	FilterCounts map[FilterKey]int `groups:"basic"`
}

// Compose assembles the view model from the current component state. The
// selected record is re-resolved against the snapshot and the unread counts
// are re-derived from the ledger on every call, so the output can never be
// staler than the last applied event.
func Compose(snapshot *Snapshot, ledger *Ledger, trail *Trail, selection *Selection, query string, filter FilterKey) ViewModel {
	vehicles := snapshot.All()

	model := ViewModel{
		VisibleVehicles: Project(vehicles, query, filter),
		FilterCounts:    Counts(vehicles),
		Trail:           trail.Current(),
		UnreadTotal:     ledger.UnreadTotal(),
	}
	model.TrailDistanceMeters = trailDistance(model.Trail)

	if selectedRef, ok := selection.SelectedRef(); ok {
		// Selection is by identifier; a record may have been deleted
		// between the selection and this composition.
		if vehicle, found := snapshot.Get(selectedRef); found {
			model.Selected = &vehicle
			model.IsFollowing = selection.Following()
			model.AlertsForSelected = ledger.ListFor(selectedRef)
			model.UnreadBySelected = ledger.UnreadCountFor(selectedRef)
		}
	}

	var detached ViewModel
	if err := copier.CopyWithOption(&detached, &model, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Msg("Failed to detach view model")
		return model
	}

	return detached
}

// trailDistance sums the segment lengths of the trail, oldest-first.
func trailDistance(points []fleet.Location) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].Distance(&points[i])
	}
	return total
}
