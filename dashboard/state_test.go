package dashboard

import (
	"errors"
	"testing"

	"github.com/dnldd/chartboard/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog/log"
)

func setupState(t *testing.T) *State {
	state, err := NewState(&StateConfig{Logger: &log.Logger})
	assert.NoError(t, err)

	return state
}

func TestNewState(t *testing.T) {
	// Ensure a logger is required.
	_, err := NewState(&StateConfig{})
	assert.Error(t, err)

	// Ensure a new state is idle and empty.
	state := setupState(t)
	snapshot := state.Snapshot()
	assert.Equal(t, snapshot.Phase, shared.Idle)
	assert.False(t, snapshot.Loading)
	assert.Equal(t, snapshot.Error, "")
}

func TestStateTransitions(t *testing.T) {
	state := setupState(t)

	// Ensure beginning marks every kind pending and clears errors.
	state.Begin(shared.ChartKinds)
	snapshot := state.Snapshot()
	assert.True(t, snapshot.Loading)
	assert.Equal(t, snapshot.Phase, shared.Loading)
	assert.Equal(t, len(snapshot.Pending), len(shared.ChartKinds))

	// Ensure storing a payload fills its slot and releases its panel.
	line := &shared.CategorySeries{Labels: []string{"Jan"}, Data: []float64{10}}
	state.Store(&shared.Payload{Kind: shared.Line, Category: line})
	state.Store(nil)
	snapshot = state.Snapshot()
	assert.True(t, snapshot.Line == line)
	assert.False(t, snapshot.Pending[shared.Line])
	assert.True(t, snapshot.Pending[shared.Bar])

	// Ensure a failure records the generic message and its cause.
	state.Fail(shared.Bar, errors.New("boom"))
	snapshot = state.Snapshot()
	assert.Equal(t, snapshot.Error, shared.FetchFailedMessage)
	assert.Equal(t, snapshot.Failures[shared.Bar], "boom")
	assert.False(t, snapshot.Pending[shared.Bar])

	// Ensure finishing ends loading and settles the phase.
	state.Finish()
	snapshot = state.Snapshot()
	assert.False(t, snapshot.Loading)
	assert.Equal(t, len(snapshot.Pending), 0)
	assert.Equal(t, snapshot.Phase, shared.Failed)
	assert.True(t, snapshot.Line == line)
}

func TestStateSucceeds(t *testing.T) {
	state := setupState(t)

	state.Begin(shared.ChartKinds)
	for _, kind := range shared.ChartKinds {
		state.Store(&shared.Payload{Kind: kind})
	}
	state.Finish()

	snapshot := state.Snapshot()
	assert.Equal(t, snapshot.Phase, shared.Succeeded)
	assert.Equal(t, snapshot.Error, "")
}

func TestSnapshotIsolation(t *testing.T) {
	state := setupState(t)
	state.Begin(shared.ChartKinds)

	// Ensure snapshots do not observe later updates.
	snapshot := state.Snapshot()
	state.Fail(shared.Pie, errors.New("boom"))
	assert.Equal(t, snapshot.Error, "")
	assert.True(t, snapshot.Pending[shared.Pie])
	assert.Equal(t, snapshot.Failures[shared.Pie], "")
}
