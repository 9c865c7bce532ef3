package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dnldd/chartboard/shared"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ManagerConfig represents the configuration for the acquisition manager.
type ManagerConfig struct {
	// Client represents the chart api client.
	Client shared.SeriesFetcher
	// Mode determines whether datasets are fetched concurrently or sequentially.
	Mode shared.AcquisitionMode
	// State receives the outcome of every fetch.
	State shared.StateUpdater
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *ManagerConfig) Validate() error {
	var errs error

	if cfg.Client == nil {
		errs = errors.Join(errs, fmt.Errorf("client cannot be nil"))
	}
	if cfg.Mode != shared.Concurrent && cfg.Mode != shared.Sequential {
		errs = errors.Join(errs, fmt.Errorf("unknown acquisition mode: %d", int(cfg.Mode)))
	}
	if cfg.State == nil {
		errs = errors.Join(errs, fmt.Errorf("state updater cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Manager acquires the datasets of every chart kind.
type Manager struct {
	cfg *ManagerConfig
}

// NewManager initializes the acquisition manager.
func NewManager(cfg *ManagerConfig) (*Manager, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating manager config: %w", err)
	}

	return &Manager{cfg: cfg}, nil
}

// fetchOne fetches the dataset of the provided kind and reports the outcome.
func (m *Manager) fetchOne(ctx context.Context, kind shared.ChartKind, logger *zerolog.Logger) error {
	payload, err := m.cfg.Client.FetchSeries(ctx, kind)
	if err != nil {
		logger.Error().Stack().Err(err).
			Str("kind", kind.String()).
			Str("endpoint", m.cfg.Client.Endpoint(kind)).
			Msgf("fetching %s data", kind.String())
		m.cfg.State.Fail(kind, err)
		return fmt.Errorf("fetching %s data: %w", kind.String(), err)
	}

	if payload.IsAbsent() {
		logger.Info().Msgf("no %s data available", kind.String())
	}

	m.cfg.State.Store(payload)
	return nil
}

// acquireSequential fetches datasets in order, abandoning the acquisition at
// the first failure.
func (m *Manager) acquireSequential(ctx context.Context, logger *zerolog.Logger) error {
	for _, kind := range shared.ChartKinds {
		err := m.fetchOne(ctx, kind, logger)
		if err != nil {
			logger.Warn().Msgf("abandoning acquisition after %s failure", kind.String())
			return err
		}
	}

	return nil
}

// acquireConcurrent fetches every dataset independently and waits for all
// of them, a failure only affects its own dataset.
func (m *Manager) acquireConcurrent(ctx context.Context, logger *zerolog.Logger) error {
	var wg sync.WaitGroup
	errs := make([]error, len(shared.ChartKinds))

	for idx, kind := range shared.ChartKinds {
		wg.Add(1)
		go func(idx int, kind shared.ChartKind) {
			defer wg.Done()
			errs[idx] = m.fetchOne(ctx, kind, logger)
		}(idx, kind)
	}

	wg.Wait()

	return errors.Join(errs...)
}

// Acquire fetches the datasets of every chart kind, reporting progress to the
// configured state updater. Loading is always finished, whatever the outcome.
func (m *Manager) Acquire(ctx context.Context) error {
	logger := m.cfg.Logger.With().
		Str("run", uuid.New().String()).
		Str("mode", m.cfg.Mode.String()).
		Logger()

	m.cfg.State.Begin(shared.ChartKinds)
	defer m.cfg.State.Finish()

	start := time.Now()

	var err error
	switch m.cfg.Mode {
	case shared.Sequential:
		err = m.acquireSequential(ctx, &logger)
	default:
		err = m.acquireConcurrent(ctx, &logger)
	}

	if err != nil {
		logger.Error().Msgf("acquisition failed after %s", time.Since(start).Round(time.Millisecond))
		return err
	}

	logger.Info().Msgf("acquired all chart data in %s", time.Since(start).Round(time.Millisecond))
	return nil
}
