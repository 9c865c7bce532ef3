// Package fixture serves sample chart data over the chart api endpoints.
package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dnldd/chartboard/shared"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const (
	// shutdownTimeout is the maximum time to wait for in-flight requests on shutdown.
	shutdownTimeout = time.Second * 5
)

// Override alters how a chart endpoint responds.
type Override struct {
	// Latency delays the response.
	Latency time.Duration
	// Status replaces the 200 response status when set.
	Status int
	// Body replaces the sample body when set.
	Body string
}

// ServerConfig represents the fixture server configuration.
type ServerConfig struct {
	// Overrides alter the responses of individual chart endpoints.
	Overrides map[shared.ChartKind]Override
	// SampleFile replaces the built in samples with the bodies it holds, see LoadSamples.
	SampleFile string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *ServerConfig) Validate() error {
	var errs error

	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}
	for kind, override := range cfg.Overrides {
		if override.Latency < 0 {
			errs = errors.Join(errs, fmt.Errorf("%s latency cannot be negative", kind.String()))
		}
	}

	return errs
}

// Server serves sample chart data.
type Server struct {
	cfg       *ServerConfig
	overrides map[shared.ChartKind]Override
	router    *mux.Router
	mtx       sync.Mutex
	hits      map[shared.ChartKind]int
	aborted   map[shared.ChartKind]int
}

// NewServer initializes a new fixture server.
func NewServer(cfg *ServerConfig) (*Server, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating fixture server config: %w", err)
	}

	overrides := make(map[shared.ChartKind]Override, len(shared.ChartKinds))
	if cfg.SampleFile != "" {
		samples, err := LoadSamples(cfg.SampleFile)
		if err != nil {
			return nil, fmt.Errorf("loading fixture samples: %w", err)
		}
		for kind, body := range samples {
			overrides[kind] = Override{Body: body}
		}
		cfg.Logger.Info().Msgf("loaded %d fixture samples from %s", len(samples), cfg.SampleFile)
	}
	for kind, override := range cfg.Overrides {
		if override.Body == "" {
			override.Body = overrides[kind].Body
		}
		overrides[kind] = override
	}

	s := &Server{
		cfg:       cfg,
		overrides: overrides,
		router:    mux.NewRouter(),
		hits:      make(map[shared.ChartKind]int),
		aborted:   make(map[shared.ChartKind]int),
	}

	for _, kind := range shared.ChartKinds {
		s.router.HandleFunc(kind.Path(), s.handleChartData(kind)).Methods(http.MethodGet)
	}

	return s, nil
}

// Handler returns the http handler serving the chart endpoints.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hits returns the number of requests received for the provided kind.
func (s *Server) Hits(kind shared.ChartKind) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.hits[kind]
}

// Aborted returns the number of requests for the provided kind the client
// gave up on before a response was written.
func (s *Server) Aborted(kind shared.ChartKind) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.aborted[kind]
}

// handleChartData returns the handler for the provided chart kind.
func (s *Server) handleChartData(kind shared.ChartKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mtx.Lock()
		s.hits[kind]++
		s.mtx.Unlock()

		override := s.overrides[kind]
		if override.Latency > 0 {
			select {
			case <-time.After(override.Latency):
			case <-r.Context().Done():
				s.mtx.Lock()
				s.aborted[kind]++
				s.mtx.Unlock()
				s.cfg.Logger.Debug().Msgf("%s request aborted by client", kind.String())
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")

		status := http.StatusOK
		if override.Status != 0 {
			status = override.Status
		}
		w.WriteHeader(status)

		if override.Body != "" {
			_, err := w.Write([]byte(override.Body))
			if err != nil {
				s.cfg.Logger.Error().Msgf("writing %s override body: %v", kind.String(), err)
			}
			return
		}

		err := json.NewEncoder(w).Encode(SampleBody(kind))
		if err != nil {
			s.cfg.Logger.Error().Msgf("encoding %s sample body: %v", kind.String(), err)
		}
	}
}

// Run serves the fixture endpoints on the provided address until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve serves the fixture endpoints on the provided listener until the
// context is cancelled. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: time.Second * 5,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info().Msgf("serving chart fixtures on %s", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving chart fixtures: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("shutting down fixture server: %w", err)
		}
		return nil
	}
}
