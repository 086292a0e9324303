package dashboard

import (
	"github.com/fleetlive/fleetlive/pkg/fleet"
	"github.com/rs/zerolog/log"
)

// Engine is the composition root of the dashboard state: it owns the
// snapshot, ledger, trail and selection, wires their change notifications
// together and keeps a freshly composed view model. It is constructed
// explicitly and passed by reference - there is no package-level state.
//
// Engine methods are not safe for concurrent use; Loop serializes every
// mutation source onto a single goroutine.
type Engine struct {
	snapshot  *Snapshot
	ledger    *Ledger
	trail     *Trail
	selection *Selection

	query  string
	filter FilterKey

	viewModel ViewModel
	dirty     bool

	viewModelChanged []func(ViewModel)
}

func NewEngine() *Engine {
	engine := &Engine{
		snapshot:  NewSnapshot(),
		ledger:    NewLedger(),
		trail:     NewTrail(),
		selection: NewSelection(),
		filter:    FilterAll,
	}

	// The snapshot reaction runs before recomposition so the trail and
	// selection see the fresh record within the same event.
	engine.snapshot.OnChange(engine.reactToSnapshot)
	engine.ledger.OnChange(engine.markDirty)
	engine.trail.OnChange(engine.markDirty)
	engine.selection.OnChange(engine.markDirty)

	engine.viewModel = Compose(engine.snapshot, engine.ledger, engine.trail, engine.selection, engine.query, engine.filter)

	return engine
}

// OnViewModel registers a subscriber notified with the recomposed view model
// at the end of every event that changed state.
func (e *Engine) OnViewModel(handler func(ViewModel)) {
	e.viewModelChanged = append(e.viewModelChanged, handler)
}

// ApplyVehicleUpdate replaces the record for the vehicle's identifier.
// Applying the same update twice leaves the snapshot unchanged, and of two
// updates for one identifier the later arrival wins.
func (e *Engine) ApplyVehicleUpdate(vehicle fleet.Vehicle) {
	e.snapshot.ApplyUpdate(vehicle)
	e.flush()
}

func (e *Engine) RemoveVehicle(id string) {
	e.snapshot.Remove(id)
	e.flush()
}

func (e *Engine) IngestAlert(alert fleet.Alert) {
	e.ledger.Ingest(alert)
	e.flush()
}

// SelectVehicle opens the detail view for the identifier, dropping any
// previous follow state and reseeding the trail at the vehicle's current
// position. Selecting an identifier missing from the snapshot does nothing.
func (e *Engine) SelectVehicle(id string) {
	vehicle, found := e.snapshot.Get(id)
	if !found {
		log.Debug().Str("vehicle", id).Msg("Select for unknown vehicle ignored")
		return
	}

	e.selection.Select(id)
	e.trail.Reset(vehicle.Location)
	e.flush()
}

func (e *Engine) CloseDetail() {
	e.selection.Close()
	e.trail.Clear()
	e.flush()
}

func (e *Engine) ToggleFollow() {
	e.selection.ToggleFollow()
	e.flush()
}

func (e *Engine) MarkAlertRead(id string) {
	e.ledger.MarkRead(id)
	e.flush()
}

func (e *Engine) SetQuery(query string) {
	if e.query == query {
		return
	}
	e.query = query
	e.markDirty()
	e.flush()
}

func (e *Engine) SetFilter(filter FilterKey) {
	if !filter.Valid() || e.filter == filter {
		return
	}
	e.filter = filter
	e.markDirty()
	e.flush()
}

// ViewModel returns the model composed at the end of the last event.
func (e *Engine) ViewModel() ViewModel {
	return e.viewModel
}

func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot
}

func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

// reactToSnapshot keeps the selection and trail consistent with the record
// they point at: an update to the selected vehicle extends the trail when
// the position moved, and deleting the selected vehicle closes the detail
// view entirely.
func (e *Engine) reactToSnapshot(change SnapshotChange) {
	defer e.markDirty()

	selectedRef, selected := e.selection.SelectedRef()
	if !selected || selectedRef != change.VehicleRef {
		return
	}

	if change.Removed {
		e.selection.Close()
		e.trail.Clear()
		return
	}

	vehicle, found := e.snapshot.Get(change.VehicleRef)
	if !found {
		return
	}

	if last, ok := e.trail.Last(); !ok || last != vehicle.Location {
		e.trail.Push(vehicle.Location)
	}
}

func (e *Engine) markDirty() {
	e.dirty = true
}

// flush recomposes once per completed event, no matter how many component
// notifications the event fanned out to, and pushes the fresh model to
// subscribers.
func (e *Engine) flush() {
	if !e.dirty {
		return
	}
	e.dirty = false

	e.viewModel = Compose(e.snapshot, e.ledger, e.trail, e.selection, e.query, e.filter)

	for _, handler := range e.viewModelChanged {
		handler(e.viewModel)
	}
}
