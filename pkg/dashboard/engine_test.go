package dashboard

import (
	"testing"
	"time"

	"github.com/fleetlive/fleetlive/pkg/fleet"
)

func TestEngineSpeedingVehicleAppearsInAlertsFilter(t *testing.T) {
	engine := NewEngine()

	vehicle := testVehicle(t, "v1")
	vehicle.CurrentSpeed = 90
	vehicle.SpeedLimit = 80
	engine.ApplyVehicleUpdate(vehicle)
	engine.SetFilter(FilterAlerts)

	model := engine.ViewModel()
	if len(model.VisibleVehicles) != 1 || model.VisibleVehicles[0].PrimaryIdentifier != "v1" {
		t.Errorf("expected v1 in the alerts filter, got %v", model.VisibleVehicles)
	}
}

func TestEngineTrailFollowsSelectedVehicle(t *testing.T) {
	engine := NewEngine()

	vehicle := testVehicle(t, "v1")
	vehicle.Location = fleet.Location{Latitude: -23.55, Longitude: -46.63}
	engine.ApplyVehicleUpdate(vehicle)
	engine.SelectVehicle("v1")

	moved := vehicle
	moved.Location = fleet.Location{Latitude: -23.56, Longitude: -46.64}
	engine.ApplyVehicleUpdate(moved)

	trail := engine.ViewModel().Trail
	if len(trail) != 2 {
		t.Fatalf("expected 2 trail points, got %d", len(trail))
	}
	if trail[0] != vehicle.Location || trail[1] != moved.Location {
		t.Errorf("expected original then new position, got %v", trail)
	}
}

func TestEngineTrailDistanceIsSumOfSegments(t *testing.T) {
	engine := NewEngine()

	vehicle := testVehicle(t, "v1")
	vehicle.Location = fleet.Location{Latitude: 0, Longitude: 0}
	engine.ApplyVehicleUpdate(vehicle)
	engine.SelectVehicle("v1")

	// one degree of longitude at the equator is roughly 111.2km
	moved := vehicle
	moved.Location = fleet.Location{Latitude: 0, Longitude: 1}
	engine.ApplyVehicleUpdate(moved)

	distance := engine.ViewModel().TrailDistanceMeters
	if distance < 111000 || distance > 111400 {
		t.Errorf("expected roughly 111195m of trail, got %f", distance)
	}

	engine.CloseDetail()
	if distance := engine.ViewModel().TrailDistanceMeters; distance != 0 {
		t.Errorf("expected zero distance with no trail, got %f", distance)
	}
}

func TestEngineTrailIgnoresOtherVehicles(t *testing.T) {
	engine := NewEngine()

	engine.ApplyVehicleUpdate(testVehicle(t, "v1"))
	engine.ApplyVehicleUpdate(testVehicle(t, "v2"))
	engine.SelectVehicle("v1")

	other := testVehicle(t, "v2")
	other.Location = fleet.Location{Latitude: 10, Longitude: 10}
	engine.ApplyVehicleUpdate(other)

	if trail := engine.ViewModel().Trail; len(trail) != 1 {
		t.Errorf("updates to non-selected vehicles must not extend the trail, got %d points", len(trail))
	}
}

func TestEngineSwitchingSelectionDropsFollowAndTrail(t *testing.T) {
	engine := NewEngine()

	first := testVehicle(t, "v1")
	second := testVehicle(t, "v2")
	second.Location = fleet.Location{Latitude: 1, Longitude: 1}
	engine.ApplyVehicleUpdate(first)
	engine.ApplyVehicleUpdate(second)

	engine.SelectVehicle("v1")
	engine.ToggleFollow()

	if model := engine.ViewModel(); !model.IsFollowing {
		t.Fatal("expected follow on after toggle")
	}

	engine.SelectVehicle("v2")

	model := engine.ViewModel()
	if model.IsFollowing {
		t.Error("selecting another vehicle must turn follow off")
	}
	if model.Selected == nil || model.Selected.PrimaryIdentifier != "v2" {
		t.Errorf("expected v2 selected, got %v", model.Selected)
	}
	if len(model.Trail) != 1 || model.Trail[0] != second.Location {
		t.Errorf("expected trail reseeded at v2's position, got %v", model.Trail)
	}
}

func TestEngineMarkAlertRead(t *testing.T) {
	engine := NewEngine()

	engine.ApplyVehicleUpdate(testVehicle(t, "v1"))
	engine.IngestAlert(testAlert(t, "a1", "v1", time.Now()))

	if got := engine.ViewModel().UnreadTotal; got != 1 {
		t.Fatalf("expected 1 unread, got %d", got)
	}

	engine.MarkAlertRead("a1")
	if got := engine.Ledger().UnreadCountFor("v1"); got != 0 {
		t.Errorf("expected 0 unread after acknowledgement, got %d", got)
	}

	// Acknowledging again is a no-op, not an error.
	engine.MarkAlertRead("a1")
	if got := engine.Ledger().UnreadCountFor("v1"); got != 0 {
		t.Errorf("expected 0 unread after repeated acknowledgement, got %d", got)
	}
}

func TestEngineRemovingSelectedVehicleGoesIdle(t *testing.T) {
	engine := NewEngine()

	engine.ApplyVehicleUpdate(testVehicle(t, "v1"))
	engine.SelectVehicle("v1")
	engine.ToggleFollow()

	engine.RemoveVehicle("v1")

	model := engine.ViewModel()
	if model.Selected != nil {
		t.Error("expected no selection after the selected vehicle was deleted")
	}
	if model.IsFollowing {
		t.Error("expected follow cleared")
	}
	if len(model.Trail) != 0 {
		t.Errorf("expected trail cleared, got %v", model.Trail)
	}
}

func TestEngineSelectedIsAlwaysTheLatestRecord(t *testing.T) {
	engine := NewEngine()

	vehicle := testVehicle(t, "v1")
	engine.ApplyVehicleUpdate(vehicle)
	engine.SelectVehicle("v1")

	updated := vehicle
	updated.CurrentSpeed = 120
	updated.Status = fleet.VehicleStatusMoving
	engine.ApplyVehicleUpdate(updated)

	model := engine.ViewModel()
	if model.Selected == nil || model.Selected.CurrentSpeed != 120 {
		t.Errorf("detail view must show the latest record, got %v", model.Selected)
	}
}

func TestEngineSelectUnknownVehicleIsANoOp(t *testing.T) {
	engine := NewEngine()
	engine.ApplyVehicleUpdate(testVehicle(t, "v1"))

	engine.SelectVehicle("missing")

	if model := engine.ViewModel(); model.Selected != nil {
		t.Errorf("expected no selection, got %v", model.Selected)
	}
}

func TestEngineViewModelIsDetached(t *testing.T) {
	engine := NewEngine()
	engine.ApplyVehicleUpdate(testVehicle(t, "v1"))

	model := engine.ViewModel()
	model.VisibleVehicles[0].Name = "tampered"
	model.FilterCounts[FilterAll] = 42

	fresh := engine.ViewModel()
	if fresh.VisibleVehicles[0].Name == "tampered" {
		t.Error("mutating a view model vehicle leaked into engine state")
	}
	if fresh.FilterCounts[FilterAll] == 42 {
		t.Error("mutating view model counts leaked into engine state")
	}
}

func TestEngineBadgesAreRecomputedEachTick(t *testing.T) {
	engine := NewEngine()
	engine.ApplyVehicleUpdate(testVehicle(t, "v1"))
	engine.SelectVehicle("v1")

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	engine.IngestAlert(testAlert(t, "a1", "v1", base))
	engine.IngestAlert(testAlert(t, "a2", "v1", base.Add(time.Minute)))

	model := engine.ViewModel()
	if model.UnreadBySelected != 2 || model.UnreadTotal != 2 {
		t.Fatalf("expected 2 unread, got selected=%d total=%d", model.UnreadBySelected, model.UnreadTotal)
	}

	engine.MarkAlertRead("a2")

	model = engine.ViewModel()
	if model.UnreadBySelected != 1 || model.UnreadTotal != 1 {
		t.Errorf("badges must track the live ledger, got selected=%d total=%d", model.UnreadBySelected, model.UnreadTotal)
	}
	if len(model.AlertsForSelected) != 2 {
		t.Errorf("expected both alerts listed, got %d", len(model.AlertsForSelected))
	}
	if model.AlertsForSelected[0].PrimaryIdentifier != "a2" {
		t.Errorf("expected newest alert first, got %s", model.AlertsForSelected[0].PrimaryIdentifier)
	}
}

func TestEngineNotifiesViewModelSubscribers(t *testing.T) {
	engine := NewEngine()

	var models []ViewModel
	engine.OnViewModel(func(model ViewModel) {
		models = append(models, model)
	})

	engine.ApplyVehicleUpdate(testVehicle(t, "v1"))
	engine.SelectVehicle("v1")

	if len(models) != 2 {
		t.Fatalf("expected one notification per event, got %d", len(models))
	}
	if models[1].Selected == nil {
		t.Error("expected the second notification to carry the selection")
	}
}

func TestEngineQueryChangeRecomputesProjection(t *testing.T) {
	engine := NewEngine()

	v1 := testVehicle(t, "v1")
	v1.Name = "Alpha"
	v2 := testVehicle(t, "v2")
	v2.Name = "Beta"
	engine.ApplyVehicleUpdate(v1)
	engine.ApplyVehicleUpdate(v2)

	engine.SetQuery("alp")

	model := engine.ViewModel()
	if len(model.VisibleVehicles) != 1 || model.VisibleVehicles[0].Name != "Alpha" {
		t.Errorf("expected only Alpha visible, got %v", model.VisibleVehicles)
	}

	// Counts stay fleet-wide regardless of the query.
	if model.FilterCounts[FilterAll] != 2 {
		t.Errorf("expected fleet-wide counts, got %v", model.FilterCounts)
	}
}
