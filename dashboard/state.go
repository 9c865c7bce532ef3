// Package dashboard holds the acquisition state of the chart dashboard and
// presents it as html, json and svg.
package dashboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dnldd/chartboard/shared"
	"github.com/rs/zerolog"
)

// StateConfig represents the configuration for the dashboard state.
type StateConfig struct {
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *StateConfig) Validate() error {
	var errs error

	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// State tracks the data acquired for the dashboard. It is only mutated
// through its StateUpdater callbacks and read through snapshots.
type State struct {
	cfg   *StateConfig
	mtx   sync.RWMutex
	state shared.AcquisitionState
}

// Ensure the dashboard state implements the StateUpdater interface.
var _ shared.StateUpdater = (*State)(nil)

// NewState initializes an idle dashboard state.
func NewState(cfg *StateConfig) (*State, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating state config: %w", err)
	}

	return &State{
		cfg:   cfg,
		state: shared.NewAcquisitionState(),
	}, nil
}

// Begin marks the provided kinds as loading and clears any previous error.
func (s *State) Begin(kinds []shared.ChartKind) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.state.Loading = true
	s.state.Error = ""
	s.state.Phase = shared.Loading
	s.state.Failures = make(map[shared.ChartKind]string)
	for _, kind := range kinds {
		s.state.Pending[kind] = true
	}
}

// Store records the fetched payload for its kind.
func (s *State) Store(payload *shared.Payload) {
	if payload == nil {
		return
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.state.SetPayload(payload)
	delete(s.state.Pending, payload.Kind)
}

// Fail records a failed fetch for the provided kind. Every failure surfaces
// as the same user-facing message, the cause is kept per panel.
func (s *State) Fail(kind shared.ChartKind, err error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.state.Error = shared.FetchFailedMessage
	delete(s.state.Pending, kind)
	if err != nil {
		s.state.Failures[kind] = err.Error()
	}
}

// Finish ends loading, whatever the outcome of the acquisition.
func (s *State) Finish() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.state.Loading = false
	s.state.Pending = make(map[shared.ChartKind]bool)

	s.state.Phase = shared.Succeeded
	if s.state.Error != "" {
		s.state.Phase = shared.Failed
	}

	s.cfg.Logger.Debug().Msgf("acquisition finished: %s", s.state.Phase.String())
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() shared.AcquisitionState {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.state.Clone()
}
