package dashboard

import (
	"reflect"
	"testing"

	"github.com/fleetlive/fleetlive/pkg/fleet"
)

// testFleet builds a small mixed-status fleet. v2 is over its limit, v3 is
// idle, v4 is offline.
func testFleet(t *testing.T) []fleet.Vehicle {
	t.Helper()

	v1 := testVehicle(t, "v1")
	v1.Name = "Delivery North"
	v1.LicensePlate = "BRA-1234"

	v2 := testVehicle(t, "v2")
	v2.Name = "Delivery South"
	v2.LicensePlate = "BRA-5678"
	v2.CurrentSpeed = 95
	v2.SpeedLimit = 80

	v3 := testVehicle(t, "v3")
	v3.Name = "Yard Shuttle"
	v3.LicensePlate = "XYZ-0001"
	v3.Status = fleet.VehicleStatusIdle
	v3.CurrentSpeed = 0

	v4 := testVehicle(t, "v4")
	v4.Name = "Spare Van"
	v4.LicensePlate = "XYZ-0002"
	v4.Status = fleet.VehicleStatusOffline
	v4.CurrentSpeed = 0

	return []fleet.Vehicle{v1, v2, v3, v4}
}

func projectedIDs(vehicles []fleet.Vehicle) []string {
	ids := []string{}
	for _, vehicle := range vehicles {
		ids = append(ids, vehicle.PrimaryIdentifier)
	}
	return ids
}

func TestProjectFilterKeys(t *testing.T) {
	vehicles := testFleet(t)

	cases := []struct {
		filter   FilterKey
		expected []string
	}{
		{FilterAll, []string{"v1", "v2", "v3", "v4"}},
		{FilterMoving, []string{"v1", "v2"}},
		{FilterStopped, []string{"v3"}},
		{FilterAlerts, []string{"v2"}},
		{FilterOffline, []string{"v4"}},
	}

	for _, testCase := range cases {
		got := projectedIDs(Project(vehicles, "", testCase.filter))
		if !reflect.DeepEqual(got, testCase.expected) {
			t.Errorf("filter %s: expected %v, got %v", testCase.filter, testCase.expected, got)
		}
	}
}

func TestProjectQueryMatchesNameOrPlate(t *testing.T) {
	vehicles := testFleet(t)

	// Case-insensitive against the name.
	got := projectedIDs(Project(vehicles, "delivery", FilterAll))
	if !reflect.DeepEqual(got, []string{"v1", "v2"}) {
		t.Errorf("name query: got %v", got)
	}

	// Against the plate.
	got = projectedIDs(Project(vehicles, "xyz-", FilterAll))
	if !reflect.DeepEqual(got, []string{"v3", "v4"}) {
		t.Errorf("plate query: got %v", got)
	}
}

func TestProjectQueryAndFilterCombine(t *testing.T) {
	vehicles := testFleet(t)

	got := projectedIDs(Project(vehicles, "delivery", FilterAlerts))
	if !reflect.DeepEqual(got, []string{"v2"}) {
		t.Errorf("expected only the speeding delivery vehicle, got %v", got)
	}
}

func TestProjectIsPure(t *testing.T) {
	vehicles := testFleet(t)

	first := Project(vehicles, "de", FilterMoving)
	second := Project(vehicles, "de", FilterMoving)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different projections: %v vs %v", first, second)
	}
}

func TestCounts(t *testing.T) {
	counts := Counts(testFleet(t))

	expected := map[FilterKey]int{
		FilterAll:     4,
		FilterMoving:  2,
		FilterStopped: 1,
		FilterAlerts:  1,
		FilterOffline: 1,
	}
	if !reflect.DeepEqual(counts, expected) {
		t.Errorf("expected counts %v, got %v", expected, counts)
	}
}

func TestProjectExpression(t *testing.T) {
	vehicles := testFleet(t)

	program, err := CompileExpression(`Speeding && Status == "moving"`)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	visible, err := ProjectExpression(vehicles, program)
	if err != nil {
		t.Fatalf("projection failed: %v", err)
	}

	if got := projectedIDs(visible); !reflect.DeepEqual(got, []string{"v2"}) {
		t.Errorf("expected [v2], got %v", got)
	}
}

func TestCompileExpressionRejectsNonBoolean(t *testing.T) {
	if _, err := CompileExpression(`CurrentSpeed + 1`); err == nil {
		t.Error("expected a compile error for a non-boolean expression")
	}
}
