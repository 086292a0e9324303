package dashboard

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/fleetlive/fleetlive/pkg/fleet"
)

type FilterKey string

const (
	FilterAll     FilterKey = "all"
	FilterMoving  FilterKey = "moving"
	FilterStopped FilterKey = "stopped"
	FilterAlerts  FilterKey = "alerts"
	FilterOffline FilterKey = "offline"
)

func (k FilterKey) Valid() bool {
	switch k {
	case FilterAll, FilterMoving, FilterStopped, FilterAlerts, FilterOffline:
		return true
	}
	return false
}

// Project derives the visible vehicle subset from the snapshot ordering, a
// free-text query and a filter key. The query matches case-insensitively
// against name or licence plate, the filter against status, and both must
// hold. Input order is preserved and the function keeps no state between
// calls.
func Project(vehicles []fleet.Vehicle, query string, filter FilterKey) []fleet.Vehicle {
	query = strings.ToLower(query)

	visible := []fleet.Vehicle{}
	for _, vehicle := range vehicles {
		if !matchesQuery(&vehicle, query) {
			continue
		}
		if !matchesFilter(&vehicle, filter) {
			continue
		}
		visible = append(visible, vehicle)
	}

	return visible
}

// Counts returns the totals each filter pill displays, computed over the
// unfiltered snapshot.
func Counts(vehicles []fleet.Vehicle) map[FilterKey]int {
	counts := map[FilterKey]int{
		FilterAll:     0,
		FilterMoving:  0,
		FilterStopped: 0,
		FilterAlerts:  0,
		FilterOffline: 0,
	}

	for _, vehicle := range vehicles {
		counts[FilterAll] += 1

		switch vehicle.Status {
		case fleet.VehicleStatusMoving:
			counts[FilterMoving] += 1
		case fleet.VehicleStatusStopped, fleet.VehicleStatusIdle:
			counts[FilterStopped] += 1
		case fleet.VehicleStatusOffline:
			counts[FilterOffline] += 1
		}

		if vehicle.Speeding() {
			counts[FilterAlerts] += 1
		}
	}

	return counts
}

func matchesQuery(vehicle *fleet.Vehicle, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(vehicle.Name), query) ||
		strings.Contains(strings.ToLower(vehicle.LicensePlate), query)
}

func matchesFilter(vehicle *fleet.Vehicle, filter FilterKey) bool {
	switch filter {
	case FilterMoving:
		return vehicle.Status == fleet.VehicleStatusMoving
	case FilterStopped:
		return vehicle.Status == fleet.VehicleStatusStopped || vehicle.Status == fleet.VehicleStatusIdle
	case FilterAlerts:
		return vehicle.Speeding()
	case FilterOffline:
		return vehicle.Status == fleet.VehicleStatusOffline
	default:
		return true
	}
}

// ExpressionEnv is the evaluation scope for advanced list expressions, for
// example `CurrentSpeed > SpeedLimit && Status == "moving"`.
type ExpressionEnv struct {
	Name         string
	LicensePlate string
	Model        string
	Status       string
	Ignition     string
	CurrentSpeed float64
	SpeedLimit   float64
	Heading      float64
	Speeding     bool
}

// CompileExpression compiles an advanced filter expression against the
// vehicle environment. Expressions must evaluate to a boolean.
func CompileExpression(source string) (*vm.Program, error) {
	return expr.Compile(source, expr.Env(ExpressionEnv{}), expr.AsBool())
}

// ProjectExpression filters with a compiled expression instead of a filter
// key. Snapshot order is preserved, like Project.
func ProjectExpression(vehicles []fleet.Vehicle, program *vm.Program) ([]fleet.Vehicle, error) {
	visible := []fleet.Vehicle{}
	for _, vehicle := range vehicles {
		env := ExpressionEnv{
			Name:         vehicle.Name,
			LicensePlate: vehicle.LicensePlate,
			Model:        vehicle.Model,
			Status:       string(vehicle.Status),
			Ignition:     string(vehicle.Ignition),
			CurrentSpeed: vehicle.CurrentSpeed,
			SpeedLimit:   vehicle.SpeedLimit,
			Heading:      vehicle.Heading,
			Speeding:     vehicle.Speeding(),
		}

		matches, err := expr.Run(program, env)
		if err != nil {
			return nil, err
		}

		if matches.(bool) {
			visible = append(visible, vehicle)
		}
	}

	return visible, nil
}
