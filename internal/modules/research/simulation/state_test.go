package simulation

import (
	"testing"

	"github.com/HenryKang1/AI-market-researcher/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionHappyPath(t *testing.T) {
	state := models.RunSetup

	state, err := Transition(state, EventPanelReady)
	require.NoError(t, err)
	assert.Equal(t, models.RunPersonas, state)

	state, err = Transition(state, EventSimulationStarted)
	require.NoError(t, err)
	assert.Equal(t, models.RunSimulation, state)

	state, err = Transition(state, EventAnalysisComplete)
	require.NoError(t, err)
	assert.Equal(t, models.RunResults, state)
}

func TestTransitionRerunFromResults(t *testing.T) {
	state, err := Transition(models.RunResults, EventSimulationStarted)
	require.NoError(t, err)
	assert.Equal(t, models.RunSimulation, state)

	state, err = Transition(models.RunResults, EventPanelReady)
	require.NoError(t, err)
	assert.Equal(t, models.RunPersonas, state)
}

func TestTransitionIllegal(t *testing.T) {
	_, err := Transition(models.RunSetup, EventSimulationStarted)
	assert.Error(t, err, "cannot simulate without a panel")

	_, err = Transition(models.RunPersonas, EventAnalysisComplete)
	assert.Error(t, err, "cannot analyze before simulating")

	_, err = Transition(models.RunSimulation, Event("bogus"))
	assert.Error(t, err)
}
