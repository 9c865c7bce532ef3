package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/dnldd/chartboard/chart"
	"github.com/dnldd/chartboard/dashboard"
	"github.com/dnldd/chartboard/fetch"
	"github.com/dnldd/chartboard/fixture"
	"github.com/dnldd/chartboard/shared"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// DashboardConfig represents the configuration struct for the dashboard service.
type DashboardConfig struct {
	// APIBaseURL is the chart api host. It defaults to the fixture server
	// address when fixtures are served.
	APIBaseURL string
	// ListenAddr is the address the dashboard is served on.
	ListenAddr string
	// Mode is the acquisition mode.
	Mode shared.AcquisitionMode
	// Timeout bounds each chart data request, defaults to fetch.DefaultTimeout.
	Timeout time.Duration
	// FixtureAddr serves sample chart data on the provided address when set.
	FixtureAddr string
	// FixtureFile optionally replaces the served sample data.
	FixtureFile string
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config sane inputs.
func (cfg *DashboardConfig) Validate() error {
	var errs error

	if cfg.APIBaseURL == "" && cfg.FixtureAddr == "" {
		errs = errors.Join(errs, fmt.Errorf("api base url cannot be an empty string without a fixture address"))
	}
	if cfg.ListenAddr == "" {
		errs = errors.Join(errs, fmt.Errorf("listen address cannot be an empty string"))
	}
	if cfg.Mode != shared.Concurrent && cfg.Mode != shared.Sequential {
		errs = errors.Join(errs, fmt.Errorf("unknown acquisition mode: %d", int(cfg.Mode)))
	}
	if cfg.FixtureFile != "" && cfg.FixtureAddr == "" {
		errs = errors.Join(errs, fmt.Errorf("fixture file provided without a fixture address"))
	}
	if cfg.Timeout < 0 {
		errs = errors.Join(errs, fmt.Errorf("timeout cannot be negative"))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}

	return errs
}

// Dashboard represents the chart dashboard service.
type Dashboard struct {
	cfg             *DashboardConfig
	state           *dashboard.State
	view            *dashboard.View
	server          *dashboard.Server
	fixtures        *fixture.Server
	fixtureListener net.Listener
	jobScheduler    *gocron.Scheduler
	logger          *zerolog.Logger
	wg              sync.WaitGroup
}

// NewDashboard initializes a new dashboard service.
func NewDashboard(cfg *DashboardConfig) (*Dashboard, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating dashboard config: %w", err)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "chartboard").Logger()

	err = chart.Init()
	if err != nil {
		return nil, fmt.Errorf("initializing chart library: %v", err)
	}

	var fixtures *fixture.Server
	var fixtureListener net.Listener
	if cfg.FixtureAddr != "" {
		fixtureLogger := logger.With().Str("component", "fixture").Logger()
		fixtures, err = fixture.NewServer(&fixture.ServerConfig{
			SampleFile: cfg.FixtureFile,
			Logger:     &fixtureLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating fixture server: %v", err)
		}

		// Listen before any acquisition is scheduled so the first fetch
		// always finds the fixtures.
		fixtureListener, err = net.Listen("tcp", cfg.FixtureAddr)
		if err != nil {
			return nil, fmt.Errorf("listening on fixture address: %v", err)
		}

		if cfg.APIBaseURL == "" {
			cfg.APIBaseURL = "http://" + fixtureListener.Addr().String()
		}
	}

	closeFixtures := func() {
		if fixtureListener != nil {
			_ = fixtureListener.Close()
		}
	}

	clientLogger := logger.With().Str("component", "client").Logger()
	client, err := fetch.NewClient(&fetch.ClientConfig{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.Timeout,
		Logger:  &clientLogger,
	})
	if err != nil {
		closeFixtures()
		return nil, fmt.Errorf("creating chart api client: %v", err)
	}

	stateLogger := logger.With().Str("component", "state").Logger()
	state, err := dashboard.NewState(&dashboard.StateConfig{Logger: &stateLogger})
	if err != nil {
		closeFixtures()
		return nil, fmt.Errorf("creating dashboard state: %v", err)
	}

	fetchMgrLogger := logger.With().Str("component", "fetchmanager").Logger()
	fetchMgr, err := fetch.NewManager(&fetch.ManagerConfig{
		Client: client,
		Mode:   cfg.Mode,
		State:  state,
		Logger: &fetchMgrLogger,
	})
	if err != nil {
		closeFixtures()
		return nil, fmt.Errorf("creating fetch manager: %v", err)
	}

	rendererLogger := logger.With().Str("component", "renderer").Logger()
	renderer, err := chart.NewRenderer(&chart.RendererConfig{Logger: &rendererLogger})
	if err != nil {
		closeFixtures()
		return nil, fmt.Errorf("creating chart renderer: %v", err)
	}

	viewLogger := logger.With().Str("component", "view").Logger()
	view, err := dashboard.NewView(&dashboard.ViewConfig{
		Acquirer: fetchMgr,
		State:    state,
		Renderer: renderer,
		Mode:     cfg.Mode,
		Logger:   &viewLogger,
	})
	if err != nil {
		closeFixtures()
		return nil, fmt.Errorf("creating dashboard view: %v", err)
	}

	serverLogger := logger.With().Str("component", "server").Logger()
	server, err := dashboard.NewServer(&dashboard.ServerConfig{
		View:   view,
		Logger: &serverLogger,
	})
	if err != nil {
		closeFixtures()
		return nil, fmt.Errorf("creating dashboard server: %v", err)
	}

	service := &Dashboard{
		cfg:             cfg,
		state:           state,
		view:            view,
		server:          server,
		fixtures:        fixtures,
		fixtureListener: fixtureListener,
		jobScheduler:    gocron.NewScheduler(time.UTC),
		logger:          &logger,
	}

	return service, nil
}

// activate runs the single dashboard acquisition.
func (d *Dashboard) activate(ctx context.Context) {
	err := d.view.Activate(ctx)
	if err != nil {
		d.logger.Warn().Msgf("dashboard activated with failures: %v", err)
		return
	}

	d.logger.Info().Msg("dashboard activated")
}

// Run handles the lifecycle processes of the dashboard service.
func (d *Dashboard) Run(ctx context.Context) {
	if d.fixtures != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			err := d.fixtures.Serve(ctx, d.fixtureListener)
			if err != nil {
				d.logger.Error().Err(err).Msg("fixture server terminated")
				d.cfg.Cancel()
			}
		}()
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		err := d.server.Run(ctx, d.cfg.ListenAddr)
		if err != nil {
			d.logger.Error().Err(err).Msg("dashboard server terminated")
			d.cfg.Cancel()
		}
	}()

	// The activation job runs exactly once, as soon as the scheduler starts.
	_, err := d.jobScheduler.Every(1).Second().LimitRunsTo(1).Do(d.activate, ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("scheduling dashboard activation")
		d.cfg.Cancel()
	}

	d.jobScheduler.StartAsync()

	<-ctx.Done()
	d.jobScheduler.Stop()
	d.wg.Wait()

	d.logger.Info().Msg("dashboard service stopped")
}
