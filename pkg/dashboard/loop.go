package dashboard

import (
	"context"

	"github.com/fleetlive/fleetlive/pkg/fleet"
	"github.com/rs/zerolog/log"
)

// Loop serializes every mutation of the engine onto one goroutine. Feed
// consumers and API handlers post closures; the loop applies them strictly
// in arrival order, so no component ever sees a partial event or needs a
// lock. Cancelling the context stops the loop with the engine state left
// intact for a later resume.
type Loop struct {
	engine   *Engine
	commands chan func(*Engine)
}

func NewLoop(engine *Engine) *Loop {
	return &Loop{
		engine:   engine,
		commands: make(chan func(*Engine), 256),
	}
}

func (l *Loop) Run(ctx context.Context) {
	log.Info().Msg("Starting dashboard loop")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Dashboard loop stopped")
			return
		case command := <-l.commands:
			command(l.engine)
		}
	}
}

// Do posts a command for the loop goroutine to run. It returns before the
// command has been applied.
func (l *Loop) Do(command func(*Engine)) {
	l.commands <- command
}

// ViewModel retrieves the current view model through the loop, so the read
// is ordered after every previously posted command.
func (l *Loop) ViewModel() ViewModel {
	result := make(chan ViewModel, 1)
	l.commands <- func(engine *Engine) {
		result <- engine.ViewModel()
	}
	return <-result
}

// Vehicles reads the full snapshot through the loop, in insertion order.
func (l *Loop) Vehicles() []fleet.Vehicle {
	result := make(chan []fleet.Vehicle, 1)
	l.commands <- func(engine *Engine) {
		result <- engine.Snapshot().All()
	}
	return <-result
}

// Alerts reads the full ledger through the loop, in ingestion order.
func (l *Loop) Alerts() []fleet.Alert {
	result := make(chan []fleet.Alert, 1)
	l.commands <- func(engine *Engine) {
		result <- engine.Ledger().All()
	}
	return <-result
}
