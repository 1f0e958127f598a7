package simulation

import (
	"fmt"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
)

// Event is a run lifecycle trigger. State only ever changes through
// Transition; nothing mutates a run's step directly.
type Event string

const (
	// EventPanelReady fires when a panel has been generated or curated.
	EventPanelReady Event = "panel_ready"
	// EventSimulationStarted fires when a simulation task begins.
	EventSimulationStarted Event = "simulation_started"
	// EventAnalysisComplete fires when narrative analysis succeeds.
	EventAnalysisComplete Event = "analysis_complete"
)

// Transition returns the next run state for an event, or an error when the
// event is illegal in the current state. An analysis failure produces no
// event at all: the run stays on the simulation step and the operator
// retries.
func Transition(state models.RunState, event Event) (models.RunState, error) {
	switch event {
	case EventPanelReady:
		return models.RunPersonas, nil
	case EventSimulationStarted:
		switch state {
		case models.RunPersonas, models.RunSimulation, models.RunResults:
			return models.RunSimulation, nil
		}
		return state, fmt.Errorf("cannot simulate from state %q: no panel yet", state)
	case EventAnalysisComplete:
		if state == models.RunSimulation {
			return models.RunResults, nil
		}
		return state, fmt.Errorf("cannot complete analysis from state %q: simulate first", state)
	}
	return state, fmt.Errorf("unknown run event %q", event)
}
